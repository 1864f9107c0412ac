// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/party-registry/cliparse"
	"github.com/danielhkuo/party-registry/middleware"
	"github.com/danielhkuo/party-registry/models"
	"github.com/danielhkuo/party-registry/registry"
	"github.com/danielhkuo/party-registry/store"
	"github.com/danielhkuo/party-registry/uploads"
	"github.com/danielhkuo/party-registry/validation"
)

// multipartMemory is how much of a multipart body is held in memory before
// spilling to temp files
const multipartMemory = 1 << 20

// formOverhead is the room left for text fields on top of the logo size cap
const formOverhead = 64 << 10

type PartyHandler struct {
	registry *registry.Registry
	cfg      cliparse.Config
}

func NewPartyHandler(reg *registry.Registry, cfg cliparse.Config) *PartyHandler {
	return &PartyHandler{registry: reg, cfg: cfg}
}

// ListParties handles GET /api/parties
func (h *PartyHandler) ListParties(w http.ResponseWriter, r *http.Request) {
	opts, err := parseListOptions(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	parties, err := h.registry.List(r.Context(), opts)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to list parties")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, parties)
}

func parseListOptions(r *http.Request) (store.ListOptions, error) {
	q := r.URL.Query()
	opts := store.ListOptions{Ideology: q.Get("ideology")}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return opts, errors.New("limit must be a positive integer")
		}
		opts.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, errors.New("offset must be a non-negative integer")
		}
		if opts.Limit == 0 {
			return opts, errors.New("offset requires limit")
		}
		opts.Offset = n
	}
	return opts, nil
}

// GetPartyStats handles GET /api/parties/stats
func (h *PartyHandler) GetPartyStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.registry.Stats(r.Context())
	if err != nil {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute statistics")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, stats)
}

// GetParty handles GET /api/parties/{id}
func (h *PartyHandler) GetParty(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	party, err := h.registry.Get(r.Context(), id)
	if err != nil {
		writeRegistryError(w, err, "Failed to get party")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, party)
}

// CreateParty handles POST /api/parties
func (h *PartyHandler) CreateParty(w http.ResponseWriter, r *http.Request) {
	sub, cleanup, err := h.decodeSubmission(w, r)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	defer cleanup()

	party, err := h.registry.Create(r.Context(), sub)
	if err != nil {
		writeRegistryError(w, err, "Failed to register party")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, party)
}

// UpdateParty handles PUT /api/parties/{id}
func (h *PartyHandler) UpdateParty(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	sub, cleanup, err := h.decodeSubmission(w, r)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	defer cleanup()

	party, err := h.registry.Update(r.Context(), id, sub)
	if err != nil {
		writeRegistryError(w, err, "Failed to update party")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, party)
}

// DeleteParty handles DELETE /api/parties/{id}
func (h *PartyHandler) DeleteParty(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := h.registry.Delete(r.Context(), id); err != nil {
		writeRegistryError(w, err, "Failed to delete party")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.DeletePartyResponse{
		ID:      id,
		Message: "party deleted successfully",
	})
}

// errBadBody marks a request body that could not be decoded at all
var errBadBody = errors.New("malformed request body")

// decodeSubmission reads a party from a JSON, urlencoded or multipart body.
// cleanup releases any multipart temp files and must be called once the
// submission has been handled.
func (h *PartyHandler) decodeSubmission(w http.ResponseWriter, r *http.Request) (registry.Submission, func(), error) {
	noop := func() {}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		if h.cfg.MaxUploadSize > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadSize+formOverhead)
		}
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				return registry.Submission{}, noop, validation.FieldError(uploads.FieldName,
					fmt.Sprintf("logo must be at most %s.", humanize.Bytes(uint64(h.cfg.MaxUploadSize))))
			}
			return registry.Submission{}, noop, fmt.Errorf("%w: %w", errBadBody, err)
		}
		cleanup := func() {
			if err := r.MultipartForm.RemoveAll(); err != nil {
				slog.Warn("failed to remove multipart temp files", "error", err)
			}
		}

		sub := registry.Submission{Input: models.InputFromForm(r.PostForm)}
		file, header, err := r.FormFile(uploads.FieldName)
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			cleanup()
			return registry.Submission{}, noop, fmt.Errorf("%w: %w", errBadBody, err)
		default:
			sub.Logo = &registry.Logo{Filename: header.Filename, Content: file}
			prev := cleanup
			cleanup = func() {
				file.Close()
				prev()
			}
		}
		return sub, cleanup, nil

	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return registry.Submission{}, noop, fmt.Errorf("%w: %w", errBadBody, err)
		}
		return registry.Submission{Input: models.InputFromForm(r.PostForm)}, noop, nil

	default:
		var in models.PartyInput
		if err := middleware.ParseJSONBody(r, &in); err != nil {
			return registry.Submission{}, noop, fmt.Errorf("%w: %w", errBadBody, err)
		}
		return registry.Submission{Input: in}, noop, nil
	}
}

func writeDecodeError(w http.ResponseWriter, err error) {
	if ve, ok := validation.AsError(err); ok {
		middleware.ValidationErrorResponse(w, ve)
		return
	}
	slog.Debug("rejected request body", "error", err)
	middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
}

// writeRegistryError maps a registry error onto its HTTP status. Internal
// causes are never echoed to the client.
func writeRegistryError(w http.ResponseWriter, err error, failure string) {
	if ve, ok := validation.AsError(err); ok {
		middleware.ValidationErrorResponse(w, ve)
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "party not found")
		return
	}
	middleware.ErrorResponse(w, http.StatusInternalServerError, failure)
}
