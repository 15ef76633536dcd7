package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Veldrin92/commander-tracker/models"
	"github.com/Veldrin92/commander-tracker/repositories"
	"github.com/Veldrin92/commander-tracker/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTournamentRepo keeps tournaments in memory, honoring the version check
// the way the postgres repository does.
type fakeTournamentRepo struct {
	nextID      int
	tournaments map[int]*models.Tournament
	// onGet runs after a GetByID read returns its snapshot, before the
	// caller writes back. Lets tests squeeze a concurrent writer into the
	// read-modify-write window.
	onGet func()
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{nextID: 1, tournaments: make(map[int]*models.Tournament)}
}

func (r *fakeTournamentRepo) Create(_ context.Context, _ repositories.SQLExecutor, t *models.Tournament) error {
	for _, existing := range r.tournaments {
		if existing.Status == models.TournamentActive {
			return repositories.ErrTournamentConflict
		}
	}
	t.ID = r.nextID
	t.CreatedAt = time.Now()
	r.nextID++
	stored := *t
	r.tournaments[t.ID] = &stored
	return nil
}

func (r *fakeTournamentRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Tournament, error) {
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	copied := *t
	copied.Schedule = nil
	if r.onGet != nil {
		r.onGet()
	}
	return &copied, nil
}

func (r *fakeTournamentRepo) GetActive(_ context.Context, _ repositories.SQLExecutor) (*models.Tournament, error) {
	for _, t := range r.tournaments {
		if t.Status == models.TournamentActive {
			copied := *t
			copied.Schedule = nil
			return &copied, nil
		}
	}
	return nil, repositories.ErrTournamentNotFound
}

func (r *fakeTournamentRepo) List(_ context.Context, _, _ int) ([]models.Tournament, error) {
	list := make([]models.Tournament, 0, len(r.tournaments))
	for _, t := range r.tournaments {
		list = append(list, *t)
	}
	return list, nil
}

func (r *fakeTournamentRepo) UpdateSchedule(_ context.Context, _ repositories.SQLExecutor, id int, scheduleJSON string, expectedVersion int) error {
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	if t.Version != expectedVersion {
		return repositories.ErrVersionConflict
	}
	t.ScheduleJSON = scheduleJSON
	t.Version++
	return nil
}

func (r *fakeTournamentRepo) Finish(_ context.Context, _ repositories.SQLExecutor, id int, finishedAt time.Time) error {
	t, ok := r.tournaments[id]
	if !ok || t.Status != models.TournamentActive {
		return repositories.ErrTournamentNotFound
	}
	t.Status = models.TournamentFinished
	t.FinishedAt = &finishedAt
	return nil
}

// fakeMatchRepo only implements what the tournament service reads.
type fakeMatchRepo struct {
	results []schedule.MatchResult
}

func (r *fakeMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, _ *models.Match) error {
	return nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, _ int) (*models.Match, error) {
	return nil, repositories.ErrMatchNotFound
}

func (r *fakeMatchRepo) List(_ context.Context, _, _ int) ([]models.Match, error) {
	return nil, nil
}

func (r *fakeMatchRepo) ListCompletedByTournament(_ context.Context, _ repositories.SQLExecutor, _ int) ([]schedule.MatchResult, error) {
	return r.results, nil
}

func (r *fakeMatchRepo) Count(_ context.Context) (int, error) { return len(r.results), nil }

func newTestService(t *testing.T) (TournamentService, *fakeTournamentRepo, *fakeMatchRepo) {
	t.Helper()
	tournamentRepo := newFakeTournamentRepo()
	matchRepo := &fakeMatchRepo{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewTournamentService(nil, tournamentRepo, matchRepo, nil, logger)
	return svc, tournamentRepo, matchRepo
}

func startInput(n int, mode schedule.Mode) StartTournamentInput {
	participants := make([]schedule.Participant, 0, n)
	names := []string{"Ana", "Bram", "Cleo", "Dara", "Edda", "Finn"}
	for i := 0; i < n; i++ {
		participants = append(participants, schedule.Participant{Name: names[i], Color: "#336699"})
	}
	return StartTournamentInput{Name: "Tuesday League", Mode: mode, Participants: participants}
}

func TestStartTournament(t *testing.T) {
	svc, _, _ := newTestService(t)

	tournament, err := svc.Start(context.Background(), startInput(4, schedule.ModeSingle))
	require.NoError(t, err)

	assert.Equal(t, models.TournamentActive, tournament.Status)
	assert.Equal(t, 1, tournament.Version)
	require.NotNil(t, tournament.Schedule)
	assert.Len(t, tournament.Schedule.Fixtures, 6)
	assert.Len(t, tournament.Schedule.Rounds, 3)
	assert.Equal(t, 0, tournament.Schedule.CurrentRound)
}

func TestStartTournamentValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Start(ctx, StartTournamentInput{Name: " ", Mode: schedule.ModeSingle})
	assert.ErrorIs(t, err, ErrTournamentNameRequired)

	input := startInput(1, schedule.ModeSingle)
	_, err = svc.Start(ctx, input)
	assert.ErrorIs(t, err, schedule.ErrInsufficientParticipants)

	input = startInput(3, schedule.ModeSingle)
	input.Participants[2].Name = "ana" // duplicate of Ana, case-insensitively
	_, err = svc.Start(ctx, input)
	assert.ErrorIs(t, err, ErrParticipantNameConflict)
}

func TestStartTournamentSingleActive(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Start(ctx, startInput(3, schedule.ModeSingle))
	require.NoError(t, err)

	_, err = svc.Start(ctx, startInput(4, schedule.ModeDouble))
	assert.ErrorIs(t, err, ErrActiveTournamentExists)
}

func TestRecordFixtureResultPersists(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	started, err := svc.Start(ctx, startInput(4, schedule.ModeSingle))
	require.NoError(t, err)

	updated, err := svc.RecordFixtureResult(ctx, started.ID, 0, 501)
	require.NoError(t, err)
	assert.True(t, updated.Schedule.Fixtures[0].Played)
	require.NotNil(t, updated.Schedule.Fixtures[0].MatchID)
	assert.Equal(t, 501, *updated.Schedule.Fixtures[0].MatchID)
	assert.Equal(t, 2, updated.Version)

	// A fresh load sees the persisted flag.
	reloaded, err := svc.GetByID(ctx, started.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Schedule.Fixtures[0].Played)

	_, err = svc.RecordFixtureResult(ctx, started.ID, 99, 502)
	assert.ErrorIs(t, err, schedule.ErrInvalidFixtureIndex)

	_, err = svc.RecordFixtureResult(ctx, started.ID+7, 0, 503)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestAdvanceRoundThroughService(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	started, err := svc.Start(ctx, startInput(4, schedule.ModeSingle))
	require.NoError(t, err)

	_, err = svc.AdvanceRound(ctx, started.ID)
	assert.ErrorIs(t, err, schedule.ErrRoundIncomplete)

	for i, fi := range started.Schedule.Rounds[0] {
		_, err = svc.RecordFixtureResult(ctx, started.ID, fi, 600+i)
		require.NoError(t, err)
	}

	advanced, err := svc.AdvanceRound(ctx, started.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, advanced.Schedule.CurrentRound)
}

func TestAdvanceRoundFinishedTournament(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	started, err := svc.Start(ctx, startInput(2, schedule.ModeSingle))
	require.NoError(t, err)

	_, err = svc.Finish(ctx, started.ID)
	require.NoError(t, err)

	_, err = svc.AdvanceRound(ctx, started.ID)
	assert.ErrorIs(t, err, ErrTournamentNotActive)

	// Finishing clears the single-active slot for the next league night.
	_, err = svc.Start(ctx, startInput(3, schedule.ModeSingle))
	assert.NoError(t, err)
}

func TestStandingsThroughService(t *testing.T) {
	svc, _, matchRepo := newTestService(t)
	ctx := context.Background()

	started, err := svc.Start(ctx, startInput(3, schedule.ModeSingle))
	require.NoError(t, err)

	matchRepo.results = []schedule.MatchResult{
		{MatchID: 1, Players: []schedule.MatchResultPlayer{
			{Name: "Ana", Placement: 1},
			{Name: "Bram", Placement: 2},
		}},
		{MatchID: 2, Players: []schedule.MatchResultPlayer{
			{Name: "Ana", Placement: 1},
			{Name: "Cleo", Placement: 2},
		}},
	}

	rows, err := svc.Standings(ctx, started.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Ana", rows[0].Name)
	assert.Equal(t, 6, rows[0].Points)
}

func TestVersionConflictSurfaces(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	started, err := svc.Start(ctx, startInput(3, schedule.ModeSingle))
	require.NoError(t, err)

	// A concurrent writer lands between our read of the schedule and the
	// write-back: the snapshot carries the stale version, so the guarded
	// update must refuse it.
	repo.onGet = func() {
		repo.tournaments[started.ID].Version++
	}

	_, err = svc.RecordFixtureResult(ctx, started.ID, 0, 700)
	assert.ErrorIs(t, err, ErrScheduleVersionConflict)
}

func TestCorruptScheduleSurfacesInvalidState(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	started, err := svc.Start(ctx, startInput(3, schedule.ModeSingle))
	require.NoError(t, err)

	repo.tournaments[started.ID].ScheduleJSON = `{"participants":[],"fixtures":[{"a":0,"b":0}],"rounds":[],"currentRound":0,"mode":"single"}`

	_, err = svc.GetByID(ctx, started.ID)
	assert.ErrorIs(t, err, schedule.ErrInvalidState)
}
