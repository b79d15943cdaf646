package services

import (
	"context"
	"fmt"

	"github.com/tshwanesporting/clubsite/models"
	"github.com/tshwanesporting/clubsite/repositories"
)

// DashboardStats is the payload behind GET /api/admin/stats.
type DashboardStats struct {
	TotalPlayers      int `json:"totalPlayers"`
	RegisteredPlayers int `json:"registeredPlayers"`
	PendingPlayers    int `json:"pendingPlayers"`
	TotalPhotos       int `json:"totalPhotos"`
}

type AdminService interface {
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
}

type adminService struct {
	playerRepo repositories.PlayerRepository
	photoRepo  repositories.PhotoRepository
}

func NewAdminService(playerRepo repositories.PlayerRepository, photoRepo repositories.PhotoRepository) AdminService {
	return &adminService{
		playerRepo: playerRepo,
		photoRepo:  photoRepo,
	}
}

func (s *adminService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players for stats: %w", err)
	}
	photos, err := s.photoRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos for stats: %w", err)
	}

	stats := &DashboardStats{
		TotalPlayers: len(players),
		TotalPhotos:  len(photos),
	}
	for _, p := range players {
		switch p.RegistrationStatus {
		case models.RegistrationRegistered:
			stats.RegisteredPlayers++
		case models.RegistrationPending:
			stats.PendingPlayers++
		}
	}
	return stats, nil
}
