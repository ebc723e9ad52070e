// Package inferencetest provides an in-process stand-in for the inference
// service, in the spirit of net/http/httptest.
package inferencetest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// SampleResult is the document the starter service returns for any upload.
const SampleResult = `{
  "status": "success",
  "filename": "clip.mp4",
  "message": "Video processed successfully (placeholder)",
  "analysis": {
    "ball_tracking": {"detected": true, "max_speed_kmh": 45.7, "avg_speed_kmh": 32.3, "detections_count": 150},
    "action_recognition": {"actions_detected": [
      {"type": "DRIBBLE", "confidence": 0.85, "timestamp": 2.5},
      {"type": "PASS", "confidence": 0.92, "timestamp": 5.1},
      {"type": "SHOOT", "confidence": 0.78, "timestamp": 8.3}
    ]},
    "posture_analysis": {"postures": [{"type": "DROIT", "count": 120}, {"type": "BAS", "count": 30}]}
  },
  "note": "These are placeholder results."
}`

// Upload records what the service received on /infer/video.
type Upload struct {
	FieldName   string
	FileName    string
	ContentType string
	Size        int64
	RequestID   string
	UserAgent   string
	Path        string
	Parts       int
}

// Server is a configurable fake inference service.
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	healthStatus int
	uploadStatus int
	uploadBody   string
	healthCalls  int
	uploads      []Upload
}

// NewServer starts a fake service that reports healthy and answers uploads
// with SampleResult. Callers must Close it.
func NewServer() *Server {
	s := &Server{
		healthStatus: http.StatusOK,
		uploadStatus: http.StatusOK,
		uploadBody:   SampleResult,
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Get("/health", s.health)
	r.Post("/infer/video", s.inferVideo)

	s.Server = httptest.NewServer(r)
	return s
}

// SetHealthStatus changes the /health status code.
func (s *Server) SetHealthStatus(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.healthStatus = code
}

// SetUploadResponse changes the /infer/video reply.
func (s *Server) SetUploadResponse(code int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploadStatus = code
	s.uploadBody = body
}

// HealthCalls returns the number of /health requests served.
func (s *Server) HealthCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.healthCalls
}

// Uploads returns a copy of the uploads received so far.
func (s *Server) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	dup := make([]Upload, len(s.uploads))
	copy(dup, s.uploads)
	return dup
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.healthCalls++
	code := s.healthStatus
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(`{"status":"healthy","service":"inference-api"}`))
}

func (s *Server) inferVideo(w http.ResponseWriter, r *http.Request) {
	rec := Upload{
		RequestID: r.Header.Get("X-Request-ID"),
		UserAgent: r.Header.Get("User-Agent"),
		Path:      r.URL.Path,
	}

	mr, err := r.MultipartReader()
	if err != nil {
		http.Error(w, `{"detail":"expected multipart body"}`, http.StatusBadRequest)
		return
	}
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			http.Error(w, `{"detail":"malformed multipart body"}`, http.StatusBadRequest)
			return
		}
		rec.Parts++
		rec.FieldName = part.FormName()
		rec.FileName = part.FileName()
		rec.ContentType = part.Header.Get("Content-Type")
		n, _ := io.Copy(io.Discard, part)
		rec.Size = n
		_ = part.Close()
	}

	s.mu.Lock()
	s.uploads = append(s.uploads, rec)
	code, body := s.uploadStatus, s.uploadBody
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = io.WriteString(w, body)
}
