// Package server exposes a time-entry backend over REST. It is the same
// contract the mobile and terminal clients consume in production, which
// makes it both the reference for the wire format and a self-contained
// backend for development setups.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/dev-avwi/TradieTrack-sub007/internal/logger"
	"github.com/dev-avwi/TradieTrack-sub007/internal/timeentry"
)

const tokenHeaderKey = "X-Api-Token"

type Server struct {
	svc   timeentry.Service
	jobs  timeentry.JobDirectory
	token string
}

// New wires a Server around any Service implementation. An empty token
// disables authentication, which is only sensible for local development.
func New(svc timeentry.Service, jobs timeentry.JobDirectory, token string) *Server {
	return &Server{
		svc:   svc,
		jobs:  jobs,
		token: token,
	}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "OK")
	}).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	if s.token != "" {
		api.Use(s.authenticate)
	}
	api.HandleFunc("/users/{userId}/entries/active", s.handleActiveEntry).Methods("GET")
	api.HandleFunc("/users/{userId}/entries", s.handleListEntries).Methods("GET")
	api.HandleFunc("/entries", s.handleCreateEntry).Methods("POST")
	api.HandleFunc("/entries/{entryId}", s.handleUpdateEntry).Methods("PATCH")
	api.HandleFunc("/entries/{entryId}", s.handleDeleteEntry).Methods("DELETE")
	api.HandleFunc("/jobs", s.handleListJobs).Methods("GET")

	return r
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(tokenHeaderKey) != s.token {
			jsonError(w, "invalid or missing api token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleActiveEntry(w http.ResponseWriter, r *http.Request) {
	userId := mux.Vars(r)["userId"]

	entry, err := s.svc.ActiveEntry(r.Context(), userId)
	if err != nil {
		s.serverError(w, r, "failed to fetch active entry", err)
		return
	}

	if entry == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	jsonOK(w, entry)
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req timeentry.CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.UserId == "" {
		jsonError(w, "missing required field: userId", http.StatusBadRequest)
		return
	}
	if req.JobId == "" {
		jsonError(w, "missing required field: jobId", http.StatusBadRequest)
		return
	}

	entry, err := s.svc.CreateEntry(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, timeentry.ErrConflict):
			jsonError(w, timeentry.ErrConflict.Error(), http.StatusConflict)
		case errors.Is(err, timeentry.ErrJobRequired):
			jsonError(w, timeentry.ErrJobRequired.Error(), http.StatusBadRequest)
		default:
			s.serverError(w, r, "failed to create entry", err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(entry)
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	entryId := mux.Vars(r)["entryId"]

	var req timeentry.UpdateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.EndTime.IsZero() {
		jsonError(w, "missing required field: endTime", http.StatusBadRequest)
		return
	}
	if req.DurationMinutes < 1 {
		jsonError(w, "durationMinutes must be at least 1", http.StatusBadRequest)
		return
	}

	entry, err := s.svc.UpdateEntry(r.Context(), entryId, req)
	if err != nil {
		if errors.Is(err, timeentry.ErrNotFound) {
			jsonError(w, timeentry.ErrNotFound.Error(), http.StatusNotFound)
			return
		}

		s.serverError(w, r, "failed to update entry", err)
		return
	}

	jsonOK(w, entry)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	entryId := mux.Vars(r)["entryId"]

	if err := s.svc.DeleteEntry(r.Context(), entryId); err != nil {
		if errors.Is(err, timeentry.ErrNotFound) {
			jsonError(w, timeentry.ErrNotFound.Error(), http.StatusNotFound)
			return
		}

		s.serverError(w, r, "failed to delete entry", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	userId := mux.Vars(r)["userId"]

	from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
	if err != nil {
		jsonError(w, "from must be an RFC3339 timestamp", http.StatusBadRequest)
		return
	}
	to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
	if err != nil {
		jsonError(w, "to must be an RFC3339 timestamp", http.StatusBadRequest)
		return
	}

	entries, err := s.svc.Entries(r.Context(), userId, timeentry.Range{From: from, To: to})
	if err != nil {
		s.serverError(w, r, "failed to list entries", err)
		return
	}

	jsonOK(w, entries)
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.jobs.Jobs(r.Context())
	if err != nil {
		s.serverError(w, r, "failed to list jobs", err)
		return
	}

	jsonOK(w, jobs)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	logger.GetFromContext(r.Context()).ErrorContext(r.Context(), msg,
		"error", err,
		"path", r.URL.Path)
	jsonError(w, msg, http.StatusInternalServerError)
}

func jsonOK(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
