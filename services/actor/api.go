package actor

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"regexp"
	"unicode/utf8"
)

const maxQueryLength = 100

var actorIdRegex = regexp.MustCompile(`^nm\d+$`)

// RegisterHandlers mounts the JSON API onto mux.
func (s *Service) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/actor/search", s.handleSearch)
	mux.HandleFunc("GET /api/actor/ratings", s.handleRatings)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJson(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		slog.Warn("failed to encode response", "err", err)
	}
}

func (s *Service) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	length := utf8.RuneCountInString(query)
	if length == 0 || length > maxQueryLength {
		writeJson(w, http.StatusBadRequest, errorResponse{
			Error: "query must be between 1 and 100 characters",
		})
		return
	}

	identities, err := s.Search(r.Context(), query)
	if err != nil {
		writeJson(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	writeJson(w, http.StatusOK, identities)
}

func (s *Service) handleRatings(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if !actorIdRegex.MatchString(id) {
		writeJson(w, http.StatusBadRequest, errorResponse{
			Error: "id must look like nm0000138",
		})
		return
	}

	filmography, err := s.Ratings(r.Context(), id)
	if err != nil {
		writeJson(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	writeJson(w, http.StatusOK, filmography)
}
