package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/tshwanesporting/clubsite/models"
	"github.com/tshwanesporting/clubsite/services"
	"github.com/tshwanesporting/clubsite/storage"
)

type PlayerHandler struct {
	playerService services.PlayerService
	uploader      storage.FileUploader
}

func NewPlayerHandler(playerService services.PlayerService, uploader storage.FileUploader) *PlayerHandler {
	return &PlayerHandler{
		playerService: playerService,
		uploader:      uploader,
	}
}

func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		players []models.Player
		err     error
	)

	if category := r.URL.Query().Get("category"); category != "" {
		players, err = h.playerService.GetPlayersByCategory(r.Context(), models.TeamCategory(category))
	} else {
		players, err = h.playerService.GetAllPlayers(r.Context())
	}
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.playerService.GetPlayerByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Create accepts a multipart form with the player fields plus an optional
// "photo" file. The photo is stored first so the draft carries its URL.
func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipartForm(w, r); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	draft, err := playerDraftFromForm(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if validateStruct(w, r, *draft) {
		return
	}

	photoURL, err := storeUploadedImage(r, "photo", h.uploader)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if photoURL != "" {
		draft.PhotoURL = &photoURL
	}

	player, err := h.playerService.CreatePlayer(r.Context(), *draft)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := parseMultipartForm(w, r); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	partial, err := playerPartialFromForm(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if validateStruct(w, r, *partial) {
		return
	}

	photoURL, err := storeUploadedImage(r, "photo", h.uploader)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if photoURL != "" {
		partial.PhotoURL = &photoURL
	}

	player, err := h.playerService.UpdatePlayer(r.Context(), id, *partial)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.playerService.DeletePlayer(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func playerDraftFromForm(r *http.Request) (*models.InsertPlayer, error) {
	age, err := formInt(r, "age")
	if err != nil {
		return nil, err
	}

	return &models.InsertPlayer{
		FirstName:          r.FormValue("firstName"),
		Surname:            r.FormValue("surname"),
		IDNumber:           r.FormValue("idNumber"),
		DateOfBirth:        r.FormValue("dateOfBirth"),
		Age:                age,
		Race:               formValuePtr(r, "race"),
		Nationality:        r.FormValue("nationality"),
		SafaID:             formValuePtr(r, "safaId"),
		PreferredFoot:      r.FormValue("preferredFoot"),
		Position:           r.FormValue("position"),
		TeamCategory:       r.FormValue("teamCategory"),
		DateJoined:         r.FormValue("dateJoined"),
		RegistrationStatus: r.FormValue("registrationStatus"),
		Notes:              formValuePtr(r, "notes"),
	}, nil
}

func playerPartialFromForm(r *http.Request) (*models.UpdatePlayer, error) {
	partial := &models.UpdatePlayer{
		FirstName:          formValuePtr(r, "firstName"),
		Surname:            formValuePtr(r, "surname"),
		IDNumber:           formValuePtr(r, "idNumber"),
		DateOfBirth:        formValuePtr(r, "dateOfBirth"),
		Race:               formValuePtr(r, "race"),
		Nationality:        formValuePtr(r, "nationality"),
		SafaID:             formValuePtr(r, "safaId"),
		PreferredFoot:      formValuePtr(r, "preferredFoot"),
		Position:           formValuePtr(r, "position"),
		TeamCategory:       formValuePtr(r, "teamCategory"),
		DateJoined:         formValuePtr(r, "dateJoined"),
		RegistrationStatus: formValuePtr(r, "registrationStatus"),
		Notes:              formValuePtr(r, "notes"),
	}

	if raw := formValuePtr(r, "age"); raw != nil {
		age, err := strconv.Atoi(*raw)
		if err != nil {
			return nil, fmt.Errorf("field age must be an integer, got %q", *raw)
		}
		partial.Age = &age
	}

	return partial, nil
}

// formValuePtr distinguishes "field absent" (nil) from "field submitted",
// which is what the partial-update merge relies on.
func formValuePtr(r *http.Request, name string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[name]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

func formInt(r *http.Request, name string) (int, error) {
	raw := r.FormValue(name)
	if raw == "" {
		return 0, errors.New("field " + name + " is required")
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("field %s must be an integer, got %q", name, raw)
	}
	return value, nil
}
