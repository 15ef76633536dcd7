package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Veldrin92/commander-tracker/models"
	"github.com/Veldrin92/commander-tracker/repositories"
	"github.com/Veldrin92/commander-tracker/storage"
)

type CreatePlayerInput struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type UpdatePlayerInput struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type PlayerService interface {
	Create(ctx context.Context, input CreatePlayerInput) (*models.Player, error)
	GetByID(ctx context.Context, id int) (*models.Player, error)
	List(ctx context.Context) ([]models.Player, error)
	Update(ctx context.Context, id int, input UpdatePlayerInput) (*models.Player, error)
	Delete(ctx context.Context, id int) error
	UploadAvatar(ctx context.Context, playerID int, contentType string, file io.Reader) (*models.Player, error)
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	uploader   storage.FileUploader
}

func NewPlayerService(playerRepo repositories.PlayerRepository, uploader storage.FileUploader) PlayerService {
	return &playerService{playerRepo: playerRepo, uploader: uploader}
}

func (s *playerService) Create(ctx context.Context, input CreatePlayerInput) (*models.Player, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrParticipantNameRequired
	}

	player := &models.Player{Name: name, Color: defaultColor(input.Color)}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerNameConflict) {
			return nil, ErrPlayerNameConflict
		}
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	return player, nil
}

func (s *playerService) GetByID(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	s.populateAvatarURL(player)
	return player, nil
}

func (s *playerService) List(ctx context.Context) ([]models.Player, error) {
	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	for i := range players {
		s.populateAvatarURL(&players[i])
	}
	return players, nil
}

func (s *playerService) Update(ctx context.Context, id int, input UpdatePlayerInput) (*models.Player, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrParticipantNameRequired
	}

	player := &models.Player{ID: id, Name: name, Color: defaultColor(input.Color)}
	if err := s.playerRepo.Update(ctx, player); err != nil {
		switch {
		case errors.Is(err, repositories.ErrPlayerNotFound):
			return nil, ErrPlayerNotFound
		case errors.Is(err, repositories.ErrPlayerNameConflict):
			return nil, ErrPlayerNameConflict
		default:
			return nil, fmt.Errorf("failed to update player %d: %w", id, err)
		}
	}
	return s.GetByID(ctx, id)
}

func (s *playerService) Delete(ctx context.Context, id int) error {
	err := s.playerRepo.Delete(ctx, id)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrPlayerNotFound):
		return ErrPlayerNotFound
	case errors.Is(err, repositories.ErrPlayerInUse):
		return ErrPlayerInUse
	default:
		return fmt.Errorf("failed to delete player %d: %w", id, err)
	}
}

func (s *playerService) UploadAvatar(ctx context.Context, playerID int, contentType string, file io.Reader) (*models.Player, error) {
	player, err := s.GetByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	ext, err := imageExtension(contentType)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("players/%d/avatar%s", playerID, ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload avatar for player %d: %w", playerID, err)
	}
	if err := s.playerRepo.UpdateAvatarKey(ctx, playerID, &key); err != nil {
		return nil, fmt.Errorf("failed to store avatar key for player %d: %w", playerID, err)
	}

	player.AvatarKey = &key
	s.populateAvatarURL(player)
	return player, nil
}

func (s *playerService) populateAvatarURL(player *models.Player) {
	if player.AvatarKey == nil || s.uploader == nil {
		return
	}
	url := s.uploader.GetPublicURL(*player.AvatarKey)
	player.AvatarURL = &url
}

func defaultColor(color string) string {
	if strings.TrimSpace(color) == "" {
		return "#e0e0e0"
	}
	return color
}

func imageExtension(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/webp":
		return ".webp", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedImageType, contentType)
	}
}
