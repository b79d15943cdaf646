package models

import "time"

type PhotoCategory string

const (
	PhotoCategoryMatchDays  PhotoCategory = "Match Days"
	PhotoCategoryTraining   PhotoCategory = "Training"
	PhotoCategoryTeamEvents PhotoCategory = "Team Events"
)

// Photo представляет запись в фотогалерее.
type Photo struct {
	ID          int           `json:"id" db:"id"`
	Title       string        `json:"title" db:"title"`
	ImageURL    string        `json:"imageUrl" db:"image_url"`
	Category    PhotoCategory `json:"category" db:"category"`
	Description *string       `json:"description,omitempty" db:"description"`
	UploadedBy  int           `json:"uploadedBy" db:"uploaded_by"`
	UploadDate  time.Time     `json:"uploadDate" db:"upload_date"`
}

// InsertPhoto is the validated draft for creating a gallery entry.
// ImageURL is filled in by the route layer from the uploaded file, never
// taken from the client directly.
type InsertPhoto struct {
	Title       string  `json:"title" validate:"required"`
	ImageURL    string  `json:"imageUrl" validate:"required"`
	Category    string  `json:"category" validate:"required,oneof='Match Days' Training 'Team Events'"`
	Description *string `json:"description,omitempty"`
	UploadedBy  int     `json:"-"`
}

// UpdatePhoto holds a partial update. Nil fields are left untouched.
type UpdatePhoto struct {
	Title       *string `json:"title,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	Category    *string `json:"category,omitempty" validate:"omitempty,oneof='Match Days' Training 'Team Events'"`
	Description *string `json:"description,omitempty"`
}
