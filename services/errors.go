package services

import "errors"

// Общие ошибки сервисного слоя, используемые в маппинге HTTP.
var (
	// Ресурсы
	ErrPlayerNotFound = errors.New("player not found")
	ErrPhotoNotFound  = errors.New("photo not found")
	ErrUserNotFound   = errors.New("user not found")

	// Аутентификация и авторизация
	// ErrInvalidCredentials намеренно одинакова для "нет такого пользователя"
	// и "неверный пароль", чтобы не раскрывать, какой из двух случаев произошёл.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")

	// Конфликты
	ErrUsernameTaken          = errors.New("username already exists")
	ErrPlayerIDNumberConflict = errors.New("a player with this id number is already registered")

	// Прочее
	ErrImageFileRequired = errors.New("image file is required")
)
