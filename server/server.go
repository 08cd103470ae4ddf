package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/KYKELUKE/IA-AyudaAuditiva/emotion"
	"github.com/KYKELUKE/IA-AyudaAuditiva/history"
	"github.com/KYKELUKE/IA-AyudaAuditiva/logging"
	"github.com/KYKELUKE/IA-AyudaAuditiva/transcode"
)

// maxUploadBytes caps multipart payload size, mirroring the decoder's
// duration cap at the transport layer.
const maxUploadBytes = 16 << 20 // 16 MB

// Server is the HTTP boundary in front of the analysis pipeline. It only
// translates requests and error classes; all semantics live in the
// emotion package.
type Server struct {
	analyzer *emotion.Analyzer
	metrics  *Metrics
	logger   logging.Logger
	mux      *http.ServeMux
}

// New creates a server around an analyzer
func New(analyzer *emotion.Analyzer) *Server {
	s := &Server{
		analyzer: analyzer,
		metrics:  NewMetrics(),
		logger: logging.WithFields(logging.Fields{
			"component": "http_server",
		}),
		mux: http.NewServeMux(),
	}

	s.mux.HandleFunc("POST /analyze", s.handleAnalyze)
	s.mux.HandleFunc("GET /history", s.handleHistory)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /api", s.handleAPIInfo)
	s.mux.Handle("GET /metrics", s.metrics.Handler())

	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.mux
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "expected multipart form with an 'audio' file field")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "no audio file in request")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	clip := transcode.AudioClip{
		Data:     data,
		MIMEType: clipMIMEType(header.Header.Get("Content-Type"), header.Filename),
	}
	userID := r.FormValue("user")

	result, err := s.analyzer.Analyze(r.Context(), clip, userID)
	if err != nil {
		s.writeAnalysisError(w, r, err)
		return
	}

	s.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	s.metrics.EmotionsTotal.WithLabelValues(result.Label).Inc()

	s.writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user")
	if userID == "" {
		s.writeError(w, r, http.StatusBadRequest, "missing 'user' query parameter")
		return
	}

	entries := s.analyzer.History(userID)
	if entries == nil {
		entries = []history.Entry{}
	}

	s.writeJSON(w, r, http.StatusOK, map[string]any{
		"user_id": userID,
		"entries": entries,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleAPIInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]any{
		"service": "emotion-analysis",
		"formats": transcode.SupportedMIMETypes(),
		"labels":  emotion.Labels(),
		"endpoints": map[string]string{
			"/analyze": "audio analysis (POST, multipart 'audio' field, optional 'user')",
			"/history": "per-user result history (GET, 'user' query parameter)",
			"/healthz": "service health",
			"/metrics": "prometheus metrics",
		},
	})
}

// writeAnalysisError maps the pipeline's error taxonomy onto HTTP status
// codes. Input-validation errors get 4xx responses with an explanation;
// anything else is a 500 without internal detail.
func (s *Server) writeAnalysisError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, transcode.ErrUnsupportedFormat):
		s.writeError(w, r, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, transcode.ErrClipTooLong):
		s.writeError(w, r, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, transcode.ErrEmptyClip):
		s.writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, transcode.ErrCorruptAudio):
		s.writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	default:
		s.logger.Error(err, "Analysis failed", logging.Fields{
			"path": r.URL.Path,
		})
		s.writeError(w, r, http.StatusInternalServerError, "internal analysis error")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	s.metrics.RequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(status)).Inc()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error(err, "Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.writeJSON(w, r, status, errorResponse{Error: msg})
}

// clipMIMEType prefers the part's declared content type, falling back to the
// file extension for clients that upload with application/octet-stream.
func clipMIMEType(declared, filename string) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".wav":
		return "audio/wav"
	case ".mp3":
		return "audio/mpeg"
	default:
		return declared
	}
}

// ListenAndServe runs the server until the listener fails
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("Starting HTTP server", logging.Fields{
		"addr": addr,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      s.mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}
