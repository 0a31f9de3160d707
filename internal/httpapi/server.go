package httpapi

import (
	"context"
	"net/http"
	"time"

	"ytdub/internal/jobs"
	"ytdub/internal/persistence"
)

type eventStore interface {
	LoadJobEvents(ctx context.Context, jobID string) ([]persistence.JobEvent, error)
}

type Server struct {
	queue  *jobs.Queue
	events eventStore

	mux    *http.ServeMux
	server *http.Server
}

type Option func(*Server)

// WithEventStore enables the per-job progress history endpoint.
func WithEventStore(store eventStore) Option {
	return func(s *Server) {
		s.events = store
	}
}

func NewServer(queue *jobs.Queue, opts ...Option) *Server {
	s := &Server{
		queue: queue,
		mux:   http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/jobs", s.handleJobs)
	s.mux.HandleFunc("/api/jobs/stream", s.handleJobStream)
	s.mux.HandleFunc("/api/jobs/", s.handleJobByID)
	s.mux.HandleFunc("/api/voices", s.handleVoices)
	s.mux.HandleFunc("/api/health", s.handleHealth)
}
