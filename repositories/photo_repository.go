package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tshwanesporting/clubsite/models"
)

var ErrPhotoNotFound = errors.New("photo not found")

type PhotoRepository interface {
	List(ctx context.Context) ([]models.Photo, error)
	GetByID(ctx context.Context, id int) (*models.Photo, error)
	ListByCategory(ctx context.Context, category models.PhotoCategory) ([]models.Photo, error)
	Create(ctx context.Context, draft models.InsertPhoto) (*models.Photo, error)
	Update(ctx context.Context, id int, partial models.UpdatePhoto) (*models.Photo, error)
	Delete(ctx context.Context, id int) error
}

type postgresPhotoRepository struct {
	db *sql.DB
}

func NewPostgresPhotoRepository(db *sql.DB) PhotoRepository {
	return &postgresPhotoRepository{db: db}
}

const photoColumns = `
	id, title, image_url, category, description, uploaded_by, upload_date`

func (r *postgresPhotoRepository) List(ctx context.Context) ([]models.Photo, error) {
	query := `SELECT` + photoColumns + ` FROM photos ORDER BY id ASC`
	return r.queryPhotos(ctx, query)
}

func (r *postgresPhotoRepository) ListByCategory(ctx context.Context, category models.PhotoCategory) ([]models.Photo, error) {
	query := `SELECT` + photoColumns + ` FROM photos WHERE category = $1 ORDER BY id ASC`
	return r.queryPhotos(ctx, query, category)
}

func (r *postgresPhotoRepository) GetByID(ctx context.Context, id int) (*models.Photo, error) {
	query := `SELECT` + photoColumns + ` FROM photos WHERE id = $1`

	photo, err := scanPhoto(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPhotoNotFound
		}
		return nil, fmt.Errorf("failed to scan photo: %w", err)
	}
	return photo, nil
}

func (r *postgresPhotoRepository) Create(ctx context.Context, draft models.InsertPhoto) (*models.Photo, error) {
	query := `
		INSERT INTO photos (title, image_url, category, description, uploaded_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING` + photoColumns

	photo, err := scanPhoto(r.db.QueryRowContext(ctx, query,
		draft.Title,
		draft.ImageURL,
		draft.Category,
		draft.Description,
		draft.UploadedBy,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to insert photo: %w", err)
	}
	return photo, nil
}

func (r *postgresPhotoRepository) Update(ctx context.Context, id int, partial models.UpdatePhoto) (*models.Photo, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := mergePhoto(*current, partial)

	query := `
		UPDATE photos SET
			title = $1, image_url = $2, category = $3, description = $4
		WHERE id = $5
		RETURNING` + photoColumns

	photo, err := scanPhoto(r.db.QueryRowContext(ctx, query,
		merged.Title,
		merged.ImageURL,
		merged.Category,
		merged.Description,
		id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPhotoNotFound
		}
		return nil, fmt.Errorf("failed to update photo: %w", err)
	}
	return photo, nil
}

func (r *postgresPhotoRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM photos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPhotoNotFound)
}

func (r *postgresPhotoRepository) queryPhotos(ctx context.Context, query string, args ...interface{}) ([]models.Photo, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	photos := make([]models.Photo, 0)
	for rows.Next() {
		photo, scanErr := scanPhoto(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		photos = append(photos, *photo)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return photos, nil
}

func scanPhoto(row rowScanner) (*models.Photo, error) {
	photo := &models.Photo{}
	err := row.Scan(
		&photo.ID,
		&photo.Title,
		&photo.ImageURL,
		&photo.Category,
		&photo.Description,
		&photo.UploadedBy,
		&photo.UploadDate,
	)
	if err != nil {
		return nil, err
	}
	return photo, nil
}

func mergePhoto(current models.Photo, partial models.UpdatePhoto) models.Photo {
	if partial.Title != nil {
		current.Title = *partial.Title
	}
	if partial.ImageURL != nil {
		current.ImageURL = *partial.ImageURL
	}
	if partial.Category != nil {
		current.Category = models.PhotoCategory(*partial.Category)
	}
	if partial.Description != nil {
		current.Description = partial.Description
	}
	return current
}
