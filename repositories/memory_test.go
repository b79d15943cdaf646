package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tshwanesporting/clubsite/models"
)

func samplePlayer(idNumber string) models.InsertPlayer {
	return models.InsertPlayer{
		FirstName:          "Jo",
		Surname:            "Doe",
		IDNumber:           idNumber,
		DateOfBirth:        "2000-01-01",
		Age:                25,
		Nationality:        "South African",
		PreferredFoot:      "Right",
		Position:           "Midfielder",
		TeamCategory:       "Senior Team",
		DateJoined:         "2024-01-01",
		RegistrationStatus: "Pending",
	}
}

func TestMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	user := &models.User{Username: "a@x.com", PasswordHash: "hash", FullName: "Admin", IsAdmin: true}
	require.NoError(t, repo.Create(ctx, user))
	assert.Equal(t, 1, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	byName, err := repo.GetByUsername(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	_, err = repo.GetByUsername(ctx, "ghost@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	dup := &models.User{Username: "a@x.com", PasswordHash: "other", FullName: "Dup"}
	assert.ErrorIs(t, repo.Create(ctx, dup), ErrUsernameConflict)

	// The original record is unaffected by the failed insert.
	again, err := repo.GetByUsername(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "hash", again.PasswordHash)
	assert.Equal(t, "Admin", again.FullName)

	admins, err := repo.CountAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, admins)
}

func TestMemoryPlayerRepositoryCreateAndConflict(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPlayerRepository()

	created, err := repo.Create(ctx, samplePlayer("ID123"))
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	_, err = repo.Create(ctx, samplePlayer("ID123"))
	assert.ErrorIs(t, err, ErrPlayerIDNumberConflict)

	// First record unaffected.
	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ID123", got.IDNumber)
	assert.Equal(t, "Jo", got.FirstName)
}

func TestMemoryPlayerRepositoryPartialUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPlayerRepository()

	created, err := repo.Create(ctx, samplePlayer("Z1"))
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	notes := "x"
	updated, err := repo.Update(ctx, created.ID, models.UpdatePlayer{Notes: &notes})
	require.NoError(t, err)

	require.NotNil(t, updated.Notes)
	assert.Equal(t, "x", *updated.Notes)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	// Everything else keeps its prior value.
	assert.Equal(t, created.FirstName, updated.FirstName)
	assert.Equal(t, created.Surname, updated.Surname)
	assert.Equal(t, created.IDNumber, updated.IDNumber)
	assert.Equal(t, created.Age, updated.Age)
	assert.Equal(t, created.TeamCategory, updated.TeamCategory)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
}

func TestMemoryPlayerRepositoryUpdateUnknown(t *testing.T) {
	repo := NewMemoryPlayerRepository()
	notes := "x"
	_, err := repo.Update(context.Background(), 99, models.UpdatePlayer{Notes: &notes})
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestMemoryPlayerRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPlayerRepository()

	created, err := repo.Create(ctx, samplePlayer("D1"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), ErrPlayerNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, 424242), ErrPlayerNotFound)
}

func TestMemoryPlayerRepositoryListByCategory(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPlayerRepository()

	senior := samplePlayer("S1")
	_, err := repo.Create(ctx, senior)
	require.NoError(t, err)

	junior := samplePlayer("J1")
	junior.TeamCategory = "U-17"
	_, err = repo.Create(ctx, junior)
	require.NoError(t, err)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	// Insertion order is stable.
	assert.Equal(t, "S1", all[0].IDNumber)
	assert.Equal(t, "J1", all[1].IDNumber)

	u17, err := repo.ListByCategory(ctx, models.CategoryU17)
	require.NoError(t, err)
	require.Len(t, u17, 1)
	assert.Equal(t, "J1", u17[0].IDNumber)
}

func TestMemoryPhotoRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPhotoRepository()

	created, err := repo.Create(ctx, models.InsertPhoto{
		Title:      "Season opener",
		ImageURL:   "/uploads/abc.jpg",
		Category:   "Match Days",
		UploadedBy: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)
	assert.False(t, created.UploadDate.IsZero())

	title := "Season opener 2024"
	updated, err := repo.Update(ctx, created.ID, models.UpdatePhoto{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, created.ImageURL, updated.ImageURL)
	assert.Equal(t, created.UploadDate, updated.UploadDate)

	matchDays, err := repo.ListByCategory(ctx, models.PhotoCategoryMatchDays)
	require.NoError(t, err)
	assert.Len(t, matchDays, 1)

	training, err := repo.ListByCategory(ctx, models.PhotoCategoryTraining)
	require.NoError(t, err)
	assert.Empty(t, training)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrPhotoNotFound)
}
