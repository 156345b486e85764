package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
)

func newServeCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(*configFile)
			if err != nil {
				return err
			}
			defer a.Close()

			// Background idle-session sweep.
			idle := time.Duration(a.cfg.IdleTimeoutHours) * time.Hour
			sweepDone := make(chan struct{})
			defer close(sweepDone)
			go func() {
				ticker := time.NewTicker(time.Hour)
				defer ticker.Stop()
				for {
					select {
					case <-ticker.C:
						a.mentor.Sessions().SweepIdle(idle)
					case <-sweepDone:
						return
					}
				}
			}()

			a.logger.Info("serving", "addr", a.cfg.ListenAddr)
			return http.ListenAndServe(a.cfg.ListenAddr, newRouter(a))
		},
	}
}

type routeRequest struct {
	StudentID string `json:"student_id"`
	Query     string `json:"query"`
}

type routeResponse struct {
	StudentID string `json:"student_id"`
	Response  string `json:"response"`
}

func newRouter(a *app) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/route", func(w http.ResponseWriter, r *http.Request) {
		defer a.logger.StartTimer("handle_route")()
		var req routeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		if req.StudentID == "" || req.Query == "" {
			http.Error(w, "student_id and query are required", http.StatusBadRequest)
			return
		}
		text, err := a.mentor.Ask(r.Context(), req.StudentID, req.Query)
		if err != nil {
			a.logger.Error("route failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, routeResponse{StudentID: req.StudentID, Response: text})
	})

	r.Get("/progress/{studentID}", func(w http.ResponseWriter, r *http.Request) {
		studentID := chi.URLParam(r, "studentID")
		record := a.mentor.Memory().Record(studentID)
		writeJSON(w, http.StatusOK, record)
	})

	r.Get("/mastery/{studentID}", func(w http.ResponseWriter, r *http.Request) {
		topic := r.URL.Query().Get("topic")
		if topic == "" {
			http.Error(w, "topic query parameter is required", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, a.mentor.Mastery(chi.URLParam(r, "studentID"), topic))
	})

	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, a.mentor.Observability().Export())
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
