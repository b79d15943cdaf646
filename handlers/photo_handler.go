package handlers

import (
	"net/http"

	"github.com/tshwanesporting/clubsite/middleware"
	"github.com/tshwanesporting/clubsite/models"
	"github.com/tshwanesporting/clubsite/services"
	"github.com/tshwanesporting/clubsite/storage"
)

type PhotoHandler struct {
	photoService services.PhotoService
	uploader     storage.FileUploader
}

func NewPhotoHandler(photoService services.PhotoService, uploader storage.FileUploader) *PhotoHandler {
	return &PhotoHandler{
		photoService: photoService,
		uploader:     uploader,
	}
}

func (h *PhotoHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		photos []models.Photo
		err    error
	)

	if category := r.URL.Query().Get("category"); category != "" {
		photos, err = h.photoService.GetPhotosByCategory(r.Context(), models.PhotoCategory(category))
	} else {
		photos, err = h.photoService.GetAllPhotos(r.Context())
	}
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"photos": photos}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PhotoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	photo, err := h.photoService.GetPhotoByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"photo": photo}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Create accepts a multipart form; unlike players, the "image" file is
// mandatory here.
func (h *PhotoHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		forbiddenResponse(w, r, "admin access required")
		return
	}

	if err := parseMultipartForm(w, r); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	hasFile := false
	if r.MultipartForm != nil {
		_, hasFile = r.MultipartForm.File["image"]
	}
	if !hasFile {
		mapServiceErrorToHTTP(w, r, services.ErrImageFileRequired)
		return
	}

	imageURL, err := storeUploadedImage(r, "image", h.uploader)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	draft := models.InsertPhoto{
		Title:       r.FormValue("title"),
		ImageURL:    imageURL,
		Category:    r.FormValue("category"),
		Description: formValuePtr(r, "description"),
		UploadedBy:  user.ID,
	}
	if validateStruct(w, r, draft) {
		return
	}

	photo, err := h.photoService.CreatePhoto(r.Context(), draft)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"photo": photo}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PhotoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := parseMultipartForm(w, r); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	partial := models.UpdatePhoto{
		Title:       formValuePtr(r, "title"),
		Category:    formValuePtr(r, "category"),
		Description: formValuePtr(r, "description"),
	}
	if validateStruct(w, r, partial) {
		return
	}

	imageURL, err := storeUploadedImage(r, "image", h.uploader)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if imageURL != "" {
		partial.ImageURL = &imageURL
	}

	photo, err := h.photoService.UpdatePhoto(r.Context(), id, partial)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"photo": photo}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PhotoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.photoService.DeletePhoto(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
