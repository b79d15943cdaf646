package models

import "time"

// PreferredFoot и другие строковые перечисления соответствуют значениям,
// которые присылает клиентская форма.
type PreferredFoot string

const (
	FootRight PreferredFoot = "Right"
	FootLeft  PreferredFoot = "Left"
	FootBoth  PreferredFoot = "Both"
)

type Position string

const (
	PositionGoalkeeper Position = "Goalkeeper"
	PositionDefender   Position = "Defender"
	PositionMidfielder Position = "Midfielder"
	PositionForward    Position = "Forward"
	PositionStriker    Position = "Striker"
)

type TeamCategory string

const (
	CategorySenior TeamCategory = "Senior Team"
	CategoryU17    TeamCategory = "U-17"
	CategoryU15    TeamCategory = "U-15"
	CategoryU13    TeamCategory = "U-13"
)

type RegistrationStatus string

const (
	RegistrationRegistered    RegistrationStatus = "Registered"
	RegistrationPending       RegistrationStatus = "Pending"
	RegistrationNotRegistered RegistrationStatus = "Not Registered"
)

// Player представляет запись в ростере клуба.
type Player struct {
	ID                 int                `json:"id" db:"id"`
	FirstName          string             `json:"firstName" db:"first_name"`
	Surname            string             `json:"surname" db:"surname"`
	IDNumber           string             `json:"idNumber" db:"id_number"`
	DateOfBirth        string             `json:"dateOfBirth" db:"date_of_birth"`
	Age                int                `json:"age" db:"age"`
	Race               *string            `json:"race,omitempty" db:"race"`
	Nationality        string             `json:"nationality" db:"nationality"`
	SafaID             *string            `json:"safaId,omitempty" db:"safa_id"`
	PreferredFoot      PreferredFoot      `json:"preferredFoot" db:"preferred_foot"`
	Position           Position           `json:"position" db:"position"`
	TeamCategory       TeamCategory       `json:"teamCategory" db:"team_category"`
	DateJoined         string             `json:"dateJoined" db:"date_joined"`
	RegistrationStatus RegistrationStatus `json:"registrationStatus" db:"registration_status"`
	PhotoURL           *string            `json:"photoUrl,omitempty" db:"photo_url"`
	Notes              *string            `json:"notes,omitempty" db:"notes"`
	CreatedAt          time.Time          `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time          `json:"updatedAt" db:"updated_at"`
}

// InsertPlayer is the validated draft for creating a player.
type InsertPlayer struct {
	FirstName          string  `json:"firstName" validate:"required"`
	Surname            string  `json:"surname" validate:"required"`
	IDNumber           string  `json:"idNumber" validate:"required"`
	DateOfBirth        string  `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
	Age                int     `json:"age" validate:"gte=0,lte=120"`
	Race               *string `json:"race,omitempty"`
	Nationality        string  `json:"nationality" validate:"required"`
	SafaID             *string `json:"safaId,omitempty"`
	PreferredFoot      string  `json:"preferredFoot" validate:"required,oneof=Right Left Both"`
	Position           string  `json:"position" validate:"required,oneof=Goalkeeper Defender Midfielder Forward Striker"`
	TeamCategory       string  `json:"teamCategory" validate:"required,oneof='Senior Team' U-17 U-15 U-13"`
	DateJoined         string  `json:"dateJoined" validate:"required,datetime=2006-01-02"`
	RegistrationStatus string  `json:"registrationStatus" validate:"required,oneof=Registered Pending 'Not Registered'"`
	PhotoURL           *string `json:"photoUrl,omitempty"`
	Notes              *string `json:"notes,omitempty"`
}

// UpdatePlayer holds a partial update. Nil fields are left untouched.
type UpdatePlayer struct {
	FirstName          *string `json:"firstName,omitempty"`
	Surname            *string `json:"surname,omitempty"`
	IDNumber           *string `json:"idNumber,omitempty"`
	DateOfBirth        *string `json:"dateOfBirth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Age                *int    `json:"age,omitempty" validate:"omitempty,gte=0,lte=120"`
	Race               *string `json:"race,omitempty"`
	Nationality        *string `json:"nationality,omitempty"`
	SafaID             *string `json:"safaId,omitempty"`
	PreferredFoot      *string `json:"preferredFoot,omitempty" validate:"omitempty,oneof=Right Left Both"`
	Position           *string `json:"position,omitempty" validate:"omitempty,oneof=Goalkeeper Defender Midfielder Forward Striker"`
	TeamCategory       *string `json:"teamCategory,omitempty" validate:"omitempty,oneof='Senior Team' U-17 U-15 U-13"`
	DateJoined         *string `json:"dateJoined,omitempty" validate:"omitempty,datetime=2006-01-02"`
	RegistrationStatus *string `json:"registrationStatus,omitempty" validate:"omitempty,oneof=Registered Pending 'Not Registered'"`
	PhotoURL           *string `json:"photoUrl,omitempty"`
	Notes              *string `json:"notes,omitempty"`
}
