package handlers

import (
	"errors"
	"net/http"

	"github.com/Veldrin92/commander-tracker/services"
)

type CommanderHandler struct {
	commanderService services.CommanderService
}

func NewCommanderHandler(cs services.CommanderService) *CommanderHandler {
	return &CommanderHandler{commanderService: cs}
}

// CreateHandler обрабатывает POST /commanders
func (h *CommanderHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input services.CommanderInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	commander, err := h.commanderService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"commander": commander}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler обрабатывает GET /commanders/{commanderID}
func (h *CommanderHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "commanderID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	commander, err := h.commanderService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"commander": commander}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler обрабатывает GET /commanders
func (h *CommanderHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	commanders, err := h.commanderService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"commanders": commanders}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateHandler обрабатывает PUT /commanders/{commanderID}
func (h *CommanderHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "commanderID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CommanderInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	commander, err := h.commanderService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"commander": commander}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteHandler обрабатывает DELETE /commanders/{commanderID}
func (h *CommanderHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "commanderID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.commanderService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadImageHandler обрабатывает POST /commanders/{commanderID}/image
func (h *CommanderHandler) UploadImageHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "commanderID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		badRequestResponse(w, r, errors.New("content type required"))
		return
	}

	commander, err := h.commanderService.UploadImage(r.Context(), id, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"commander": commander}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
