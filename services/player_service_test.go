package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tshwanesporting/clubsite/models"
	"github.com/tshwanesporting/clubsite/repositories"
)

func newTestPlayerService(t *testing.T) PlayerService {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPlayerService(repositories.NewMemoryPlayerRepository(), nil, logger)
}

func testPlayerDraft() models.InsertPlayer {
	return models.InsertPlayer{
		FirstName:          "Jo",
		Surname:            "Doe",
		IDNumber:           "Z1",
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

func TestPlayerServiceCreateKeepsPlausibleAge(t *testing.T) {
	svc := newTestPlayerService(t)

	draft := testPlayerDraft()
	draft.DateOfBirth = time.Now().AddDate(-25, 0, 0).Format("2006-01-02")
	draft.Age = 25

	player, err := svc.CreatePlayer(context.Background(), draft)
	require.NoError(t, err)
	require.Equal(t, 25, player.Age)
}

func TestPlayerServiceCreateRecomputesImplausibleAge(t *testing.T) {
	svc := newTestPlayerService(t)

	draft := testPlayerDraft()
	draft.DateOfBirth = time.Now().AddDate(-20, 0, 0).Format("2006-01-02")
	draft.Age = 45

	player, err := svc.CreatePlayer(context.Background(), draft)
	require.NoError(t, err)
	require.Equal(t, 20, player.Age)
}

func TestPlayerServiceIDNumberConflict(t *testing.T) {
	svc := newTestPlayerService(t)
	ctx := context.Background()

	_, err := svc.CreatePlayer(ctx, testPlayerDraft())
	require.NoError(t, err)

	dup := testPlayerDraft()
	dup.FirstName = "Sam"
	_, err = svc.CreatePlayer(ctx, dup)
	require.ErrorIs(t, err, ErrPlayerIDNumberConflict)
}

func TestPlayerServiceUpdateAndDeleteUnknown(t *testing.T) {
	svc := newTestPlayerService(t)
	ctx := context.Background()

	notes := "left-footed free kicks"
	_, err := svc.UpdatePlayer(ctx, 404, models.UpdatePlayer{Notes: &notes})
	require.ErrorIs(t, err, ErrPlayerNotFound)

	require.ErrorIs(t, svc.DeletePlayer(ctx, 404), ErrPlayerNotFound)
}

func TestAgeAt(t *testing.T) {
	dob := time.Date(2001, 6, 15, 0, 0, 0, 0, time.UTC)

	require.Equal(t, 24, ageAt(dob, time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, 25, ageAt(dob, time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, 0, ageAt(dob, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)))
}
