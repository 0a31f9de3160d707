package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"ytdub/internal/jobs"
	"ytdub/internal/transcript"
	"ytdub/internal/tts"
)

type enqueueJobRequest struct {
	Source    string `json:"source"`
	DedupeKey string `json:"dedupe_key"`
	URL       string `json:"url"`
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.queue.List())
	case http.MethodPost:
		var req enqueueJobRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json body")
			return
		}
		if req.Source == "" {
			req.Source = "manual"
		}
		req.URL = strings.TrimSpace(req.URL)
		if req.URL == "" {
			writeError(w, http.StatusBadRequest, "url is required")
			return
		}
		videoID := transcript.ExtractVideoID(req.URL)
		if req.DedupeKey == "" {
			req.DedupeKey = videoID
			if req.DedupeKey == "" {
				req.DedupeKey = req.URL
			}
		}

		job, created := s.queue.Enqueue(jobs.EnqueueRequest{
			Source:    req.Source,
			DedupeKey: req.DedupeKey,
			Payload: jobs.JobPayload{
				URL:     req.URL,
				VideoID: videoID,
			},
		})
		code := http.StatusCreated
		if !created {
			code = http.StatusOK
		}
		writeJSON(w, code, map[string]any{
			"created": created,
			"job":     job,
		})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleJobByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// /api/jobs/{id} or /api/jobs/{id}/events
	path := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
	wantEvents := false
	if strings.HasSuffix(path, "/events") {
		wantEvents = true
		path = strings.TrimSuffix(path, "/events")
	}
	jobID := strings.TrimSuffix(path, "/")
	if jobID == "" || strings.Contains(jobID, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	job, ok := s.queue.Get(jobID)
	if !ok {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}

	if !wantEvents {
		writeJSON(w, http.StatusOK, job)
		return
	}

	if s.events == nil {
		writeError(w, http.StatusNotImplemented, "event store is not configured")
		return
	}
	events, err := s.events.LoadJobEvents(r.Context(), jobID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleVoices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, tts.KoreanVoices)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok": true,
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": msg,
	})
}
