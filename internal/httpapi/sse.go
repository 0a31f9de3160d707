package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// handleJobStream streams the dubbing job list as server-sent events. The
// queue is polled once a second, but a frame is only written when some job's
// status, progress, or step changed since the previous frame, so an idle
// queue sends nothing after the initial snapshot.
func (s *Server) handleJobStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	var lastPayload []byte
	send := func() bool {
		payload, err := json.Marshal(s.queue.List())
		if err != nil {
			return false
		}
		if bytes.Equal(payload, lastPayload) {
			return true
		}
		if _, err := fmt.Fprintf(w, "event: jobs\ndata: %s\n\n", payload); err != nil {
			return false
		}
		flusher.Flush()
		lastPayload = payload
		return true
	}

	if !send() {
		return
	}

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if !send() {
				return
			}
		}
	}
}
