package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/okian/tastesearch/internal/domain/model"
	"github.com/okian/tastesearch/pkg/logger"
)

// Query parameters accepted by GET /search. Anything else is rejected.
const (
	paramQuery     = "query"
	paramSortRule  = "sortRule"
	paramAscending = "ascending"
)

// SearchHandler handles search requests.
type SearchHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(deps Dependencies, l logger.Logger) *SearchHandler {
	return &SearchHandler{deps: deps, logger: l}
}

// HandleSearch handles GET /search?query=&sortRule=&ascending= requests.
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	const op = "api.search"
	if r.Method != http.MethodGet {
		writeNotFound(w)
		return
	}

	q, err := parseSearchQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	results, epoch, err := h.deps.SearchWithEpoch(r.Context(), q)
	if err != nil {
		h.logger.Error(r.Context(), "search failed", logger.String("op", op), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	writeEpoch(w, epoch)
	writeJSON(w, http.StatusOK, messageResponse{Message: results})
}

// parseSearchQuery validates the raw parameters and builds the query triple.
// The query text is passed on as given; only its trimmed form must be
// non-empty.
func parseSearchQuery(values url.Values) (model.Query, error) {
	for key, vs := range values {
		switch key {
		case paramQuery, paramSortRule, paramAscending:
		default:
			return model.Query{}, fmt.Errorf("unknown parameter %q", key)
		}
		if len(vs) > 1 {
			return model.Query{}, fmt.Errorf("parameter %q given more than once", key)
		}
	}

	text := values.Get(paramQuery)
	if strings.TrimSpace(text) == "" {
		return model.Query{}, errors.New("query must not be empty")
	}

	rule, err := model.ParseSortRule(values.Get(paramSortRule))
	if err != nil {
		return model.Query{}, err
	}
	dir, err := model.ParseDirection(values.Get(paramAscending))
	if err != nil {
		return model.Query{}, err
	}
	return model.Query{Text: text, Sort: rule, Direction: dir}, nil
}
