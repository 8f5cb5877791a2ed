// Package dashboard serves the manual labeling interface on localhost.
// The experiment loop blocks in the oracle while a human labels the
// pending candidate through this server.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/seals-cli/internal/core/domain"
	"github.com/custodia-labs/seals-cli/internal/core/ports/driving"
	"github.com/custodia-labs/seals-cli/internal/logger"
)

// DefaultPort is the dashboard's default listen port.
const DefaultPort = 8943

// Server exposes a labeling session over HTTP on localhost.
type Server struct {
	service  driving.LabelingService
	limiter  *rate.Limiter
	server   *http.Server
	listener net.Listener
}

// NewServer creates a dashboard for the given session. Pass port 0 to
// let the OS pick a free port.
func NewServer(service driving.LabelingService, port int) *Server {
	s := &Server{
		service: service,
		// Humans label at most a few items per second. Anything faster
		// is a misbehaving script hammering the endpoint.
		limiter: rate.NewLimiter(rate.Limit(5), 10),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/candidate", s.handleCandidate)
	mux.HandleFunc("/label", s.handleLabel)
	mux.HandleFunc("/progress", s.handleProgress)

	s.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	s.listener = newListener(port)
	return s
}

func newListener(port int) net.Listener {
	l, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil
	}
	return l
}

// Start begins serving in the background. It returns once the listener
// is accepting connections.
func (s *Server) Start() error {
	if s.listener == nil {
		return fmt.Errorf("dashboard: could not bind localhost port")
	}

	go func() {
		if err := s.server.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("Dashboard server stopped: %v", err)
		}
	}()

	logger.Info("Labeling dashboard listening on %s", s.URL())
	return nil
}

// URL returns the dashboard's base URL.
func (s *Server) URL() string {
	if s.listener == nil {
		return ""
	}
	return "http://" + s.listener.Addr().String()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// handleIndex serves the labeling page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

// handleCandidate returns the candidate awaiting a label.
// 204 means the loop is retraining; poll again shortly.
func (s *Server) handleCandidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	candidate, err := s.service.Current(r.Context())
	switch {
	case errors.Is(err, domain.ErrNoCandidate):
		w.WriteHeader(http.StatusNoContent)
		return
	case errors.Is(err, domain.ErrSessionClosed):
		http.Error(w, "session closed", http.StatusGone)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, candidate)
}

// handleLabel accepts a label submission for the pending candidate.
func (s *Server) handleLabel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.limiter.Allow() {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
		return
	}

	id, err := strconv.ParseUint(r.FormValue("id"), 10, 32)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	label, err := strconv.Atoi(r.FormValue("label"))
	if err != nil {
		http.Error(w, "invalid label", http.StatusBadRequest)
		return
	}

	err = s.service.Submit(r.Context(), uint32(id), label)
	switch {
	case errors.Is(err, domain.ErrInvalidLabel):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, domain.ErrNoCandidate):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case errors.Is(err, domain.ErrSessionClosed):
		http.Error(w, "session closed", http.StatusGone)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// handleProgress reports the session counters.
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.service.Progress(r.Context()))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("Dashboard response encoding failed: %v", err)
	}
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Labeling Dashboard</title>
<style>
  body { font-family: system-ui, sans-serif; max-width: 640px; margin: 3rem auto; color: #1a1a2e; }
  .card { border: 1px solid #ddd; border-radius: 8px; padding: 1.5rem; }
  .preview { font-family: monospace; background: #f6f6f6; padding: 0.75rem; border-radius: 4px; word-break: break-all; }
  button { font-size: 1rem; padding: 0.5rem 1.5rem; margin-right: 0.5rem; border-radius: 4px; border: 1px solid #888; cursor: pointer; }
  button.positive { background: #2e7d32; color: white; }
  button.negative { background: #c62828; color: white; }
  .progress { margin-top: 1.5rem; color: #555; }
</style>
</head>
<body>
<h1>Labeling Dashboard</h1>
<div class="card">
  <p id="status">Waiting for a candidate...</p>
  <div id="candidate" style="display:none">
    <p>Index <strong id="cand-id"></strong></p>
    <p class="preview" id="cand-preview"></p>
    <button class="positive" onclick="submitLabel(1)">Positive</button>
    <button class="negative" onclick="submitLabel(0)">Negative</button>
  </div>
</div>
<p class="progress" id="progress"></p>
<script>
let currentID = null;

async function poll() {
  try {
    const res = await fetch('/candidate');
    if (res.status === 200) {
      const c = await res.json();
      currentID = c.id;
      document.getElementById('cand-id').textContent = c.id;
      document.getElementById('cand-preview').textContent = c.preview;
      document.getElementById('candidate').style.display = '';
      document.getElementById('status').style.display = 'none';
    } else if (res.status === 410) {
      document.getElementById('candidate').style.display = 'none';
      document.getElementById('status').style.display = '';
      document.getElementById('status').textContent = 'Session finished.';
      return;
    } else {
      document.getElementById('candidate').style.display = 'none';
      document.getElementById('status').style.display = '';
      document.getElementById('status').textContent = 'Retraining, please wait...';
    }
  } catch (e) { /* server restarting */ }
  setTimeout(poll, 500);
}

async function submitLabel(label) {
  if (currentID === null) return;
  const body = new URLSearchParams({ id: currentID, label: label });
  await fetch('/label', { method: 'POST', body: body });
  currentID = null;
  refreshProgress();
}

async function refreshProgress() {
  const res = await fetch('/progress');
  if (!res.ok) return;
  const p = await res.json();
  document.getElementById('progress').textContent =
    'Labeled ' + p.labeled + ' of ' + p.budget + ' (' + p.positives + ' positives)';
}

poll();
refreshProgress();
setInterval(refreshProgress, 2000);
</script>
</body>
</html>
`
