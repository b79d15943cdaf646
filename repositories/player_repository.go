package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/tshwanesporting/clubsite/models"
)

var (
	ErrPlayerNotFound         = errors.New("player not found")
	ErrPlayerIDNumberConflict = errors.New("player id number is already registered")
)

type PlayerRepository interface {
	List(ctx context.Context) ([]models.Player, error)
	GetByID(ctx context.Context, id int) (*models.Player, error)
	ListByCategory(ctx context.Context, category models.TeamCategory) ([]models.Player, error)
	Create(ctx context.Context, draft models.InsertPlayer) (*models.Player, error)
	// Update merges non-nil fields of partial onto the stored record and
	// refreshes updated_at. Returns ErrPlayerNotFound for an unknown id.
	Update(ctx context.Context, id int, partial models.UpdatePlayer) (*models.Player, error)
	Delete(ctx context.Context, id int) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

const playerColumns = `
	id, first_name, surname, id_number, date_of_birth, age, race, nationality,
	safa_id, preferred_foot, position, team_category, date_joined,
	registration_status, photo_url, notes, created_at, updated_at`

func (r *postgresPlayerRepository) List(ctx context.Context) ([]models.Player, error) {
	query := `SELECT` + playerColumns + ` FROM players ORDER BY id ASC`
	return r.queryPlayers(ctx, query)
}

func (r *postgresPlayerRepository) ListByCategory(ctx context.Context, category models.TeamCategory) ([]models.Player, error) {
	query := `SELECT` + playerColumns + ` FROM players WHERE team_category = $1 ORDER BY id ASC`
	return r.queryPlayers(ctx, query, category)
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `SELECT` + playerColumns + ` FROM players WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)
	player, err := scanPlayer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to scan player: %w", err)
	}
	return player, nil
}

func (r *postgresPlayerRepository) Create(ctx context.Context, draft models.InsertPlayer) (*models.Player, error) {
	query := `
		INSERT INTO players (
			first_name, surname, id_number, date_of_birth, age, race, nationality,
			safa_id, preferred_foot, position, team_category, date_joined,
			registration_status, photo_url, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING` + playerColumns

	row := r.db.QueryRowContext(ctx, query,
		draft.FirstName,
		draft.Surname,
		draft.IDNumber,
		draft.DateOfBirth,
		draft.Age,
		draft.Race,
		draft.Nationality,
		draft.SafaID,
		draft.PreferredFoot,
		draft.Position,
		draft.TeamCategory,
		draft.DateJoined,
		draft.RegistrationStatus,
		draft.PhotoURL,
		draft.Notes,
	)

	player, err := scanPlayer(row)
	if err != nil {
		if pqErr, ok := asPQError(err); ok {
			if pqErr.Code == "23505" && pqErr.Constraint == "players_id_number_key" {
				return nil, ErrPlayerIDNumberConflict
			}
		}
		return nil, fmt.Errorf("failed to insert player: %w", err)
	}
	return player, nil
}

func (r *postgresPlayerRepository) Update(ctx context.Context, id int, partial models.UpdatePlayer) (*models.Player, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := mergePlayer(*current, partial)

	query := `
		UPDATE players SET
			first_name = $1, surname = $2, id_number = $3, date_of_birth = $4,
			age = $5, race = $6, nationality = $7, safa_id = $8,
			preferred_foot = $9, position = $10, team_category = $11,
			date_joined = $12, registration_status = $13, photo_url = $14,
			notes = $15, updated_at = $16
		WHERE id = $17
		RETURNING` + playerColumns

	row := r.db.QueryRowContext(ctx, query,
		merged.FirstName,
		merged.Surname,
		merged.IDNumber,
		merged.DateOfBirth,
		merged.Age,
		merged.Race,
		merged.Nationality,
		merged.SafaID,
		merged.PreferredFoot,
		merged.Position,
		merged.TeamCategory,
		merged.DateJoined,
		merged.RegistrationStatus,
		merged.PhotoURL,
		merged.Notes,
		time.Now(),
		id,
	)

	player, err := scanPlayer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		if pqErr, ok := asPQError(err); ok {
			if pqErr.Code == "23505" && pqErr.Constraint == "players_id_number_key" {
				return nil, ErrPlayerIDNumberConflict
			}
		}
		return nil, fmt.Errorf("failed to update player: %w", err)
	}
	return player, nil
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) queryPlayers(ctx context.Context, query string, args ...interface{}) ([]models.Player, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		player, scanErr := scanPlayer(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		players = append(players, *player)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlayer(row rowScanner) (*models.Player, error) {
	player := &models.Player{}
	err := row.Scan(
		&player.ID,
		&player.FirstName,
		&player.Surname,
		&player.IDNumber,
		&player.DateOfBirth,
		&player.Age,
		&player.Race,
		&player.Nationality,
		&player.SafaID,
		&player.PreferredFoot,
		&player.Position,
		&player.TeamCategory,
		&player.DateJoined,
		&player.RegistrationStatus,
		&player.PhotoURL,
		&player.Notes,
		&player.CreatedAt,
		&player.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return player, nil
}

// mergePlayer применяет частичное обновление к текущей записи.
func mergePlayer(current models.Player, partial models.UpdatePlayer) models.Player {
	if partial.FirstName != nil {
		current.FirstName = *partial.FirstName
	}
	if partial.Surname != nil {
		current.Surname = *partial.Surname
	}
	if partial.IDNumber != nil {
		current.IDNumber = *partial.IDNumber
	}
	if partial.DateOfBirth != nil {
		current.DateOfBirth = *partial.DateOfBirth
	}
	if partial.Age != nil {
		current.Age = *partial.Age
	}
	if partial.Race != nil {
		current.Race = partial.Race
	}
	if partial.Nationality != nil {
		current.Nationality = *partial.Nationality
	}
	if partial.SafaID != nil {
		current.SafaID = partial.SafaID
	}
	if partial.PreferredFoot != nil {
		current.PreferredFoot = models.PreferredFoot(*partial.PreferredFoot)
	}
	if partial.Position != nil {
		current.Position = models.Position(*partial.Position)
	}
	if partial.TeamCategory != nil {
		current.TeamCategory = models.TeamCategory(*partial.TeamCategory)
	}
	if partial.DateJoined != nil {
		current.DateJoined = *partial.DateJoined
	}
	if partial.RegistrationStatus != nil {
		current.RegistrationStatus = models.RegistrationStatus(*partial.RegistrationStatus)
	}
	if partial.PhotoURL != nil {
		current.PhotoURL = partial.PhotoURL
	}
	if partial.Notes != nil {
		current.Notes = partial.Notes
	}
	return current
}

func asPQError(err error) (*pq.Error, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr, true
	}
	return nil, false
}
