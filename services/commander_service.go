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

var ErrColorIdentityInvalid = errors.New("color identity may only contain the letters WUBRGC")

type CommanderInput struct {
	Name          string `json:"name"`
	ColorIdentity string `json:"color_identity"`
	OwnerPlayerID *int   `json:"owner_player_id"`
}

type CommanderService interface {
	Create(ctx context.Context, input CommanderInput) (*models.Commander, error)
	GetByID(ctx context.Context, id int) (*models.Commander, error)
	List(ctx context.Context) ([]models.Commander, error)
	Update(ctx context.Context, id int, input CommanderInput) (*models.Commander, error)
	Delete(ctx context.Context, id int) error
	UploadImage(ctx context.Context, commanderID int, contentType string, file io.Reader) (*models.Commander, error)
}

type commanderService struct {
	commanderRepo repositories.CommanderRepository
	uploader      storage.FileUploader
}

func NewCommanderService(commanderRepo repositories.CommanderRepository, uploader storage.FileUploader) CommanderService {
	return &commanderService{commanderRepo: commanderRepo, uploader: uploader}
}

func (s *commanderService) Create(ctx context.Context, input CommanderInput) (*models.Commander, error) {
	commander, err := commanderFromInput(input)
	if err != nil {
		return nil, err
	}
	if err := s.commanderRepo.Create(ctx, commander); err != nil {
		return nil, mapCommanderRepoError(err, "create")
	}
	return commander, nil
}

func (s *commanderService) GetByID(ctx context.Context, id int) (*models.Commander, error) {
	commander, err := s.commanderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCommanderNotFound) {
			return nil, ErrCommanderNotFound
		}
		return nil, err
	}
	s.populateImageURL(commander)
	return commander, nil
}

func (s *commanderService) List(ctx context.Context) ([]models.Commander, error) {
	commanders, err := s.commanderRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list commanders: %w", err)
	}
	for i := range commanders {
		s.populateImageURL(&commanders[i])
	}
	return commanders, nil
}

func (s *commanderService) Update(ctx context.Context, id int, input CommanderInput) (*models.Commander, error) {
	commander, err := commanderFromInput(input)
	if err != nil {
		return nil, err
	}
	commander.ID = id
	if err := s.commanderRepo.Update(ctx, commander); err != nil {
		return nil, mapCommanderRepoError(err, "update")
	}
	return s.GetByID(ctx, id)
}

func (s *commanderService) Delete(ctx context.Context, id int) error {
	err := s.commanderRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCommanderNotFound) {
			return ErrCommanderNotFound
		}
		return fmt.Errorf("failed to delete commander %d: %w", id, err)
	}
	return nil
}

func (s *commanderService) UploadImage(ctx context.Context, commanderID int, contentType string, file io.Reader) (*models.Commander, error) {
	commander, err := s.GetByID(ctx, commanderID)
	if err != nil {
		return nil, err
	}

	ext, err := imageExtension(contentType)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("commanders/%d/art%s", commanderID, ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload art for commander %d: %w", commanderID, err)
	}
	if err := s.commanderRepo.UpdateImageKey(ctx, commanderID, &key); err != nil {
		return nil, fmt.Errorf("failed to store image key for commander %d: %w", commanderID, err)
	}

	commander.ImageKey = &key
	s.populateImageURL(commander)
	return commander, nil
}

func (s *commanderService) populateImageURL(commander *models.Commander) {
	if commander.ImageKey == nil || s.uploader == nil {
		return
	}
	url := s.uploader.GetPublicURL(*commander.ImageKey)
	commander.ImageURL = &url
}

func commanderFromInput(input CommanderInput) (*models.Commander, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: commander name is required", ErrValidationFailed)
	}
	identity := strings.ToUpper(strings.TrimSpace(input.ColorIdentity))
	for _, r := range identity {
		if !strings.ContainsRune("WUBRGC", r) {
			return nil, ErrColorIdentityInvalid
		}
	}
	return &models.Commander{
		Name:          name,
		ColorIdentity: identity,
		OwnerPlayerID: input.OwnerPlayerID,
	}, nil
}

func mapCommanderRepoError(err error, op string) error {
	switch {
	case errors.Is(err, repositories.ErrCommanderNotFound):
		return ErrCommanderNotFound
	case errors.Is(err, repositories.ErrCommanderNameConflict):
		return ErrCommanderNameConflict
	case errors.Is(err, repositories.ErrCommanderInvalidOwner):
		return ErrPlayerNotFound
	default:
		return fmt.Errorf("failed to %s commander: %w", op, err)
	}
}
