package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tshwanesporting/clubsite/live"
	"github.com/tshwanesporting/clubsite/models"
	"github.com/tshwanesporting/clubsite/repositories"
)

type PlayerService interface {
	GetAllPlayers(ctx context.Context) ([]models.Player, error)
	GetPlayersByCategory(ctx context.Context, category models.TeamCategory) ([]models.Player, error)
	GetPlayerByID(ctx context.Context, id int) (*models.Player, error)
	CreatePlayer(ctx context.Context, draft models.InsertPlayer) (*models.Player, error)
	UpdatePlayer(ctx context.Context, id int, partial models.UpdatePlayer) (*models.Player, error)
	DeletePlayer(ctx context.Context, id int) error
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	hub        *live.Hub
	logger     *slog.Logger
}

func NewPlayerService(playerRepo repositories.PlayerRepository, hub *live.Hub, logger *slog.Logger) PlayerService {
	return &playerService{
		playerRepo: playerRepo,
		hub:        hub,
		logger:     logger,
	}
}

func (s *playerService) GetAllPlayers(ctx context.Context) ([]models.Player, error) {
	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}

func (s *playerService) GetPlayersByCategory(ctx context.Context, category models.TeamCategory) ([]models.Player, error) {
	players, err := s.playerRepo.ListByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list players by category: %w", err)
	}
	return players, nil
}

func (s *playerService) GetPlayerByID(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %d: %w", id, err)
	}
	return player, nil
}

func (s *playerService) CreatePlayer(ctx context.Context, draft models.InsertPlayer) (*models.Player, error) {
	s.reconcileAge(&draft.Age, draft.DateOfBirth)

	player, err := s.playerRepo.Create(ctx, draft)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerIDNumberConflict) {
			return nil, ErrPlayerIDNumberConflict
		}
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	if s.hub != nil {
		s.hub.BroadcastToFeed(live.FeedPlayers, live.Event{Type: live.EventPlayerCreated, Payload: player})
	}
	return player, nil
}

func (s *playerService) UpdatePlayer(ctx context.Context, id int, partial models.UpdatePlayer) (*models.Player, error) {
	if partial.Age != nil && partial.DateOfBirth != nil {
		s.reconcileAge(partial.Age, *partial.DateOfBirth)
	}

	player, err := s.playerRepo.Update(ctx, id, partial)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrPlayerNotFound):
			return nil, ErrPlayerNotFound
		case errors.Is(err, repositories.ErrPlayerIDNumberConflict):
			return nil, ErrPlayerIDNumberConflict
		}
		return nil, fmt.Errorf("failed to update player %d: %w", id, err)
	}

	if s.hub != nil {
		s.hub.BroadcastToFeed(live.FeedPlayers, live.Event{Type: live.EventPlayerUpdated, Payload: player})
	}
	return player, nil
}

func (s *playerService) DeletePlayer(ctx context.Context, id int) error {
	if err := s.playerRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("failed to delete player %d: %w", id, err)
	}

	if s.hub != nil {
		s.hub.BroadcastToFeed(live.FeedPlayers, live.Event{Type: live.EventPlayerDeleted, Payload: map[string]int{"id": id}})
	}
	return nil
}

// reconcileAge recomputes age from the date of birth when the submitted value
// is off by more than a year. The client normally derives age itself; we keep
// its value unless it clearly disagrees with the date of birth.
func (s *playerService) reconcileAge(age *int, dateOfBirth string) {
	dob, err := time.Parse("2006-01-02", dateOfBirth)
	if err != nil {
		return
	}

	computed := ageAt(dob, time.Now())
	if *age < computed-1 || *age > computed+1 {
		s.logger.Warn("submitted age disagrees with date of birth, using computed value",
			slog.Int("submitted", *age),
			slog.Int("computed", computed),
		)
		*age = computed
	}
}

func ageAt(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.YearDay() < dob.YearDay() {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
