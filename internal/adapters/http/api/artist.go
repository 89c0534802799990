package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	service "github.com/okian/tastesearch/internal/app"
	"github.com/okian/tastesearch/pkg/logger"
)

// maxArtistBody bounds POST /artist payloads.
const maxArtistBody = 64 << 10

// artistRequest mirrors the OpenAPI schema for POST /artist.
type artistRequest struct {
	Genre  string `json:"genre"`
	Artist string `json:"artist"`
}

func (a artistRequest) validate() error {
	switch {
	case strings.TrimSpace(a.Genre) == "":
		return errors.New("missing genre")
	case strings.TrimSpace(a.Artist) == "":
		return errors.New("missing artist")
	}
	return nil
}

// ArtistHandler handles artist mutation requests.
type ArtistHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewArtistHandler creates a new artist handler.
func NewArtistHandler(deps Dependencies, l logger.Logger) *ArtistHandler {
	return &ArtistHandler{deps: deps, logger: l}
}

// HandlePostArtist handles POST /artist requests.
func (h *ArtistHandler) HandlePostArtist(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_artist"
	if r.Method != http.MethodPost {
		writeNotFound(w)
		return
	}

	var req artistRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxArtistBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	epoch, err := h.deps.AddArtistWithEpoch(r.Context(), req.Genre, req.Artist)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", WrapKind(op, ErrConflict, err))
		return
	case errors.Is(err, service.ErrInvalidArtist):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	default:
		h.logger.Error(r.Context(), "add artist failed", logger.String("op", op), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	writeEpoch(w, epoch)
	writeJSON(w, http.StatusCreated, messageResponse{Message: "Artist added successfully"})
}
