package server

import (
	"encoding/json"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/deusflow/vnnews/internal/app"
	"github.com/deusflow/vnnews/internal/config"
)

const maxFormBytes = 64 << 10

// handleCategory serves "/" and "/{category}". The q parameter overrides
// the category seed.
func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	cat, ok := s.category(r)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown category")
		return
	}

	vm := s.svc.GetCategoryArticles(r.Context(), r.URL.Query().Get("q"), cat.ID, cat.Label)
	writeJSON(w, http.StatusOK, vm)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	req, err := searchRequest(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	vm := s.svc.SearchArticles(r.Context(), req)
	writeJSON(w, http.StatusOK, vm)
}

func (s *Server) category(r *http.Request) (config.Category, bool) {
	id := chi.URLParam(r, "category")
	if id == "" {
		id = config.HomeCategory
	}
	return s.svc.Category(id)
}

// searchRequest reads the search fields from the query string (GET), a
// JSON body or a form body (POST).
func searchRequest(w http.ResponseWriter, r *http.Request) (app.SearchRequest, error) {
	if r.Method == http.MethodPost && isJSON(r) {
		var req app.SearchRequest
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFormBytes))
		if err := dec.Decode(&req); err != nil {
			return app.SearchRequest{}, err
		}
		return req, nil
	}

	if r.Method == http.MethodPost {
		r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	}
	if err := r.ParseForm(); err != nil {
		return app.SearchRequest{}, err
	}
	return app.SearchRequest{
		Query:         formValue(r, "q", "query"),
		FromDate:      formValue(r, "from", "fromDate"),
		SortBy:        formValue(r, "sortBy"),
		Filter:        formValue(r, "filter"),
		ActiveTabID:   formValue(r, "tab", "activeTabId"),
		CategoryLabel: formValue(r, "categoryLabel"),
	}, nil
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

// formValue returns the first non-empty value among keys.
func formValue(r *http.Request, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(r.Form.Get(k)); v != "" {
			return v
		}
	}
	return ""
}
