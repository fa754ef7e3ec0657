package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/umputun/regwatch/pkg/domain"
	"github.com/umputun/regwatch/pkg/scheduler"
)

// manualLabel is the digest label of on-demand sends
const manualLabel = "Manual"

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
		"cycle":   s.deps.Runner.State(),
		"running": s.deps.Runner.Running(),
	}
	if last := s.deps.Runner.LastSummary(); last != nil {
		status["last_run"] = last.Finished
	}
	renderJSON(w, r, http.StatusOK, status)
}

// statsHandler returns aggregate article counts
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.deps.Store.Statistics(r.Context())
	if err != nil {
		log.Printf("[ERROR] failed to get statistics: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, stats)
}

// unsentHandler returns articles waiting for delivery, in delivery order
func (s *Server) unsentHandler(w http.ResponseWriter, r *http.Request) {
	articles, err := s.deps.Store.QueryUnsent(r.Context())
	if err != nil {
		log.Printf("[ERROR] failed to get unsent articles: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	if articles == nil {
		articles = []domain.Article{}
	}
	renderJSON(w, r, http.StatusOK, map[string]any{"count": len(articles), "articles": articles})
}

// credentialsHandler returns masked API keys with their health
func (s *Server) credentialsHandler(w http.ResponseWriter, r *http.Request) {
	creds := []domain.CredentialStatus{}
	if s.deps.Credentials != nil {
		creds = append(creds, s.deps.Credentials.Status()...)
	}
	renderJSON(w, r, http.StatusOK, creds)
}

// keywordsHandler returns keyword lists and limited keyword usage of the current cycle
func (s *Server) keywordsHandler(w http.ResponseWriter, r *http.Request) {
	regular, limited := s.deps.Keywords.Keywords()
	renderJSON(w, r, http.StatusOK, map[string]any{
		"regular": regular,
		"limited": limited,
		"usage":   s.deps.Keywords.Usage(),
		"cap":     s.deps.Keywords.Cap(),
	})
}

// addLimitedHandler adds a keyword to the limited list, body is {"keyword": "..."}
func (s *Server) addLimitedHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Keyword string `json:"keyword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body"), http.StatusBadRequest)
		return
	}
	kw := strings.TrimSpace(req.Keyword)
	if kw == "" {
		renderError(w, r, fmt.Errorf("keyword is required"), http.StatusBadRequest)
		return
	}
	if !s.deps.Keywords.AddLimited(kw) {
		renderError(w, r, fmt.Errorf("keyword %q is already limited", kw), http.StatusConflict)
		return
	}
	log.Printf("[INFO] added limited keyword %q", kw)
	s.saveLimited(r)
	s.keywordsHandler(w, r)
}

// removeLimitedHandler drops a keyword from the limited list
func (s *Server) removeLimitedHandler(w http.ResponseWriter, r *http.Request) {
	kw := r.PathValue("keyword")
	if !s.deps.Keywords.RemoveLimited(kw) {
		renderError(w, r, fmt.Errorf("keyword %q is not limited", kw), http.StatusNotFound)
		return
	}
	log.Printf("[INFO] removed limited keyword %q", kw)
	s.saveLimited(r)
	s.keywordsHandler(w, r)
}

// saveLimited persists the limited list, failure is logged only as the in-memory list is updated
func (s *Server) saveLimited(r *http.Request) {
	if s.deps.KeywordStore == nil {
		return
	}
	_, limited := s.deps.Keywords.Keywords()
	if err := s.deps.KeywordStore.SetLimitedKeywords(r.Context(), limited); err != nil {
		log.Printf("[WARN] failed to save limited keywords: %v", err)
	}
}

// fetchHandler starts a fetch cycle in background, with ?wait=true runs it inline and
// returns the summary
func (s *Server) fetchHandler(w http.ResponseWriter, r *http.Request) {
	if s.deps.Runner.Running() {
		renderError(w, r, scheduler.ErrCycleRunning, http.StatusConflict)
		return
	}

	if r.URL.Query().Get("wait") == "true" {
		summary, err := s.deps.Runner.RunCycle(r.Context())
		switch {
		case errors.Is(err, scheduler.ErrCycleRunning):
			renderError(w, r, err, http.StatusConflict)
		case err != nil:
			log.Printf("[ERROR] on-demand fetch failed: %v", err)
			renderError(w, r, err, http.StatusInternalServerError)
		default:
			renderJSON(w, r, http.StatusOK, summary)
		}
		return
	}

	ctx := s.backgroundCtx()
	go func() {
		if _, err := s.deps.Runner.RunCycle(ctx); err != nil {
			log.Printf("[WARN] on-demand fetch: %v", err)
		}
	}()
	renderJSON(w, r, http.StatusAccepted, map[string]string{"status": "started"})
}

// lastRunHandler returns summary of the last finished fetch cycle
func (s *Server) lastRunHandler(w http.ResponseWriter, r *http.Request) {
	last := s.deps.Runner.LastSummary()
	if last == nil {
		renderError(w, r, fmt.Errorf("no fetch cycle finished yet"), http.StatusNotFound)
		return
	}
	renderJSON(w, r, http.StatusOK, last)
}

// sendHandler sends all pending articles now, ignoring notification windows
func (s *Server) sendHandler(w http.ResponseWriter, r *http.Request) {
	if s.deps.Sender == nil {
		renderError(w, r, fmt.Errorf("notifications are disabled"), http.StatusServiceUnavailable)
		return
	}
	n, err := s.deps.Sender.SendNow(r.Context(), manualLabel)
	if err != nil && !errors.Is(err, scheduler.ErrNothingToSend) {
		log.Printf("[ERROR] manual send failed: %v", err)
		renderError(w, r, err, http.StatusBadGateway)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]int{"sent": n})
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}
