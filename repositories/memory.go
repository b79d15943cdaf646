package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/tshwanesporting/clubsite/models"
)

// Память как бэкенд: карты с автоинкрементными счётчиками на каждую сущность.
// Подходит для разработки и тестов, межпроцессной долговечности нет.

type memUserRepository struct {
	mu     sync.RWMutex
	users  map[int]*models.User
	nextID int
}

var _ UserRepository = (*memUserRepository)(nil)

func NewMemoryUserRepository() UserRepository {
	return &memUserRepository{
		users:  make(map[int]*models.User),
		nextID: 1,
	}
}

func (r *memUserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == user.Username {
			return ErrUsernameConflict
		}
	}

	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()

	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *memUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *memUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *memUserRepository) CountAdmins(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, user := range r.users {
		if user.IsAdmin {
			count++
		}
	}
	return count, nil
}

type memPlayerRepository struct {
	mu      sync.RWMutex
	players map[int]*models.Player
	order   []int
	nextID  int
}

var _ PlayerRepository = (*memPlayerRepository)(nil)

func NewMemoryPlayerRepository() PlayerRepository {
	return &memPlayerRepository{
		players: make(map[int]*models.Player),
		nextID:  1,
	}
}

func (r *memPlayerRepository) List(ctx context.Context) ([]models.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	players := make([]models.Player, 0, len(r.order))
	for _, id := range r.order {
		if player, ok := r.players[id]; ok {
			players = append(players, *player)
		}
	}
	return players, nil
}

func (r *memPlayerRepository) ListByCategory(ctx context.Context, category models.TeamCategory) ([]models.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	players := make([]models.Player, 0)
	for _, id := range r.order {
		if player, ok := r.players[id]; ok && player.TeamCategory == category {
			players = append(players, *player)
		}
	}
	return players, nil
}

func (r *memPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	player, ok := r.players[id]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	copied := *player
	return &copied, nil
}

func (r *memPlayerRepository) Create(ctx context.Context, draft models.InsertPlayer) (*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.players {
		if existing.IDNumber == draft.IDNumber {
			return nil, ErrPlayerIDNumberConflict
		}
	}

	now := time.Now()
	player := &models.Player{
		ID:                 r.nextID,
		FirstName:          draft.FirstName,
		Surname:            draft.Surname,
		IDNumber:           draft.IDNumber,
		DateOfBirth:        draft.DateOfBirth,
		Age:                draft.Age,
		Race:               draft.Race,
		Nationality:        draft.Nationality,
		SafaID:             draft.SafaID,
		PreferredFoot:      models.PreferredFoot(draft.PreferredFoot),
		Position:           models.Position(draft.Position),
		TeamCategory:       models.TeamCategory(draft.TeamCategory),
		DateJoined:         draft.DateJoined,
		RegistrationStatus: models.RegistrationStatus(draft.RegistrationStatus),
		PhotoURL:           draft.PhotoURL,
		Notes:              draft.Notes,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	r.nextID++
	r.players[player.ID] = player
	r.order = append(r.order, player.ID)

	copied := *player
	return &copied, nil
}

func (r *memPlayerRepository) Update(ctx context.Context, id int, partial models.UpdatePlayer) (*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.players[id]
	if !ok {
		return nil, ErrPlayerNotFound
	}

	if partial.IDNumber != nil && *partial.IDNumber != current.IDNumber {
		for _, existing := range r.players {
			if existing.IDNumber == *partial.IDNumber {
				return nil, ErrPlayerIDNumberConflict
			}
		}
	}

	merged := mergePlayer(*current, partial)
	merged.UpdatedAt = time.Now()
	r.players[id] = &merged

	copied := merged
	return &copied, nil
}

func (r *memPlayerRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.players[id]; !ok {
		return ErrPlayerNotFound
	}
	delete(r.players, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

type memPhotoRepository struct {
	mu     sync.RWMutex
	photos map[int]*models.Photo
	order  []int
	nextID int
}

var _ PhotoRepository = (*memPhotoRepository)(nil)

func NewMemoryPhotoRepository() PhotoRepository {
	return &memPhotoRepository{
		photos: make(map[int]*models.Photo),
		nextID: 1,
	}
}

func (r *memPhotoRepository) List(ctx context.Context) ([]models.Photo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	photos := make([]models.Photo, 0, len(r.order))
	for _, id := range r.order {
		if photo, ok := r.photos[id]; ok {
			photos = append(photos, *photo)
		}
	}
	return photos, nil
}

func (r *memPhotoRepository) ListByCategory(ctx context.Context, category models.PhotoCategory) ([]models.Photo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	photos := make([]models.Photo, 0)
	for _, id := range r.order {
		if photo, ok := r.photos[id]; ok && photo.Category == category {
			photos = append(photos, *photo)
		}
	}
	return photos, nil
}

func (r *memPhotoRepository) GetByID(ctx context.Context, id int) (*models.Photo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	photo, ok := r.photos[id]
	if !ok {
		return nil, ErrPhotoNotFound
	}
	copied := *photo
	return &copied, nil
}

func (r *memPhotoRepository) Create(ctx context.Context, draft models.InsertPhoto) (*models.Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	photo := &models.Photo{
		ID:          r.nextID,
		Title:       draft.Title,
		ImageURL:    draft.ImageURL,
		Category:    models.PhotoCategory(draft.Category),
		Description: draft.Description,
		UploadedBy:  draft.UploadedBy,
		UploadDate:  time.Now(),
	}
	r.nextID++
	r.photos[photo.ID] = photo
	r.order = append(r.order, photo.ID)

	copied := *photo
	return &copied, nil
}

func (r *memPhotoRepository) Update(ctx context.Context, id int, partial models.UpdatePhoto) (*models.Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.photos[id]
	if !ok {
		return nil, ErrPhotoNotFound
	}

	merged := mergePhoto(*current, partial)
	r.photos[id] = &merged

	copied := merged
	return &copied, nil
}

func (r *memPhotoRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.photos[id]; !ok {
		return ErrPhotoNotFound
	}
	delete(r.photos, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
