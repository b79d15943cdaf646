package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tshwanesporting/clubsite/live"
	"github.com/tshwanesporting/clubsite/models"
	"github.com/tshwanesporting/clubsite/repositories"
	"github.com/tshwanesporting/clubsite/storage"
)

type PhotoService interface {
	GetAllPhotos(ctx context.Context) ([]models.Photo, error)
	GetPhotosByCategory(ctx context.Context, category models.PhotoCategory) ([]models.Photo, error)
	GetPhotoByID(ctx context.Context, id int) (*models.Photo, error)
	CreatePhoto(ctx context.Context, draft models.InsertPhoto) (*models.Photo, error)
	UpdatePhoto(ctx context.Context, id int, partial models.UpdatePhoto) (*models.Photo, error)
	DeletePhoto(ctx context.Context, id int) error
}

type photoService struct {
	photoRepo repositories.PhotoRepository
	uploader  storage.FileUploader
	hub       *live.Hub
	logger    *slog.Logger
}

func NewPhotoService(photoRepo repositories.PhotoRepository, uploader storage.FileUploader, hub *live.Hub, logger *slog.Logger) PhotoService {
	return &photoService{
		photoRepo: photoRepo,
		uploader:  uploader,
		hub:       hub,
		logger:    logger,
	}
}

func (s *photoService) GetAllPhotos(ctx context.Context) ([]models.Photo, error) {
	photos, err := s.photoRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	return photos, nil
}

func (s *photoService) GetPhotosByCategory(ctx context.Context, category models.PhotoCategory) ([]models.Photo, error) {
	photos, err := s.photoRepo.ListByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos by category: %w", err)
	}
	return photos, nil
}

func (s *photoService) GetPhotoByID(ctx context.Context, id int) (*models.Photo, error) {
	photo, err := s.photoRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPhotoNotFound) {
			return nil, ErrPhotoNotFound
		}
		return nil, fmt.Errorf("failed to get photo %d: %w", id, err)
	}
	return photo, nil
}

func (s *photoService) CreatePhoto(ctx context.Context, draft models.InsertPhoto) (*models.Photo, error) {
	if draft.ImageURL == "" {
		return nil, ErrImageFileRequired
	}

	photo, err := s.photoRepo.Create(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("failed to create photo: %w", err)
	}

	if s.hub != nil {
		s.hub.BroadcastToFeed(live.FeedGallery, live.Event{Type: live.EventPhotoCreated, Payload: photo})
	}
	return photo, nil
}

func (s *photoService) UpdatePhoto(ctx context.Context, id int, partial models.UpdatePhoto) (*models.Photo, error) {
	photo, err := s.photoRepo.Update(ctx, id, partial)
	if err != nil {
		if errors.Is(err, repositories.ErrPhotoNotFound) {
			return nil, ErrPhotoNotFound
		}
		return nil, fmt.Errorf("failed to update photo %d: %w", id, err)
	}

	if s.hub != nil {
		s.hub.BroadcastToFeed(live.FeedGallery, live.Event{Type: live.EventPhotoUpdated, Payload: photo})
	}
	return photo, nil
}

func (s *photoService) DeletePhoto(ctx context.Context, id int) error {
	photo, err := s.photoRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPhotoNotFound) {
			return ErrPhotoNotFound
		}
		return fmt.Errorf("failed to load photo %d: %w", id, err)
	}

	if err := s.photoRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrPhotoNotFound) {
			return ErrPhotoNotFound
		}
		return fmt.Errorf("failed to delete photo %d: %w", id, err)
	}

	// Удаляем сам файл по принципу best effort: запись уже удалена,
	// осиротевший файл не должен ломать запрос.
	if s.uploader != nil {
		if key, ok := storage.KeyFromURL(photo.ImageURL); ok {
			if err := s.uploader.Delete(ctx, key); err != nil {
				s.logger.Warn("failed to delete photo file",
					slog.String("key", key),
					slog.Any("error", err),
				)
			}
		}
	}

	if s.hub != nil {
		s.hub.BroadcastToFeed(live.FeedGallery, live.Event{Type: live.EventPhotoDeleted, Payload: map[string]int{"id": id}})
	}
	return nil
}
