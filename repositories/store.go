package repositories

import (
	"database/sql"

	"github.com/tshwanesporting/clubsite/sessions"
)

// Store bundles the entity repositories and the session store handle behind
// one gateway. The backend is picked once at startup; callers never inspect
// which implementation they hold.
type Store struct {
	Users    UserRepository
	Players  PlayerRepository
	Photos   PhotoRepository
	Sessions sessions.Store
}

func NewMemoryStore(sessionStore sessions.Store) *Store {
	return &Store{
		Users:    NewMemoryUserRepository(),
		Players:  NewMemoryPlayerRepository(),
		Photos:   NewMemoryPhotoRepository(),
		Sessions: sessionStore,
	}
}

func NewPostgresStore(db *sql.DB, sessionStore sessions.Store) *Store {
	return &Store{
		Users:    NewPostgresUserRepository(db),
		Players:  NewPostgresPlayerRepository(db),
		Photos:   NewPostgresPhotoRepository(db),
		Sessions: sessionStore,
	}
}
