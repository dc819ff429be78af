// ABOUTME: Minimal fake recipe agent for E2E testing, serves /agent-chat and /clear-memory over HTTP.
// ABOUTME: Usage: fake-agent [-addr localhost:8000] [-delay 2s] [-fail]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"
)

func main() {
	addr := flag.String("addr", "localhost:8000", "HTTP listen address")
	delay := flag.Duration("delay", 2*time.Second, "Artificial latency before each chat reply")
	fail := flag.Bool("fail", false, "Answer every request with 500")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := run(*addr, *delay, *fail, logger); err != nil {
		logger.Error("fake agent stopped", "error", err)
		os.Exit(1)
	}
}

func run(addr string, delay time.Duration, fail bool, logger *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := &http.Server{
		Addr:              addr,
		Handler:           newAgent(delay, fail, logger).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("fake agent listening", "addr", addr, "delay", delay, "fail", fail)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Response    string   `json:"response"`
	SourcesUsed []string `json:"sources_used"`
}

type clearRequest struct {
	SessionID string `json:"session_id"`
}

// fakeAgent remembers how many turns each session has taken.
type fakeAgent struct {
	delay  time.Duration
	fail   bool
	logger *slog.Logger

	mu    sync.Mutex
	turns map[string]int
}

func newAgent(delay time.Duration, fail bool, logger *slog.Logger) *fakeAgent {
	return &fakeAgent{
		delay:  delay,
		fail:   fail,
		logger: logger,
		turns:  make(map[string]int),
	}
}

func (a *fakeAgent) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /agent-chat", a.handleChat)
	mux.HandleFunc("POST /clear-memory", a.handleClear)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func (a *fakeAgent) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "message is required")
		return
	}

	a.logger.Info("chat", "session_id", req.SessionID, "request_id", r.Header.Get("X-Request-ID"), "message", req.Message)

	if a.delay > 0 {
		select {
		case <-time.After(a.delay):
		case <-r.Context().Done():
			return
		}
	}

	if a.fail {
		writeDetail(w, http.StatusInternalServerError, "recipe index unavailable")
		return
	}

	a.mu.Lock()
	a.turns[req.SessionID]++
	turn := a.turns[req.SessionID]
	a.mu.Unlock()

	text, sources := reply(req.Message, turn)
	writeJSON(w, http.StatusOK, chatResponse{Response: text, SourcesUsed: sources})
}

func (a *fakeAgent) handleClear(w http.ResponseWriter, r *http.Request) {
	var req clearRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid JSON body")
		return
	}
	if a.fail {
		writeDetail(w, http.StatusInternalServerError, "memory store unavailable")
		return
	}

	a.mu.Lock()
	delete(a.turns, req.SessionID)
	a.mu.Unlock()

	a.logger.Info("memory cleared", "session_id", req.SessionID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// reply returns canned markup that exercises every block kind.
func reply(message string, turn int) (string, []string) {
	lower := strings.ToLower(message)
	note := fmt.Sprintf("*turn %d of this session*", turn)

	switch {
	case strings.Contains(lower, "pozole"):
		return strings.Join([]string{
			"**Pozole Blanco**",
			note,
			"---",
			"Rinse the hominy and simmer it with pork shoulder, garlic and onion for two hours.",
			"",
			"- VIDEO:6Xq2bF4Ohrg",
			"![Pozole blanco](https://images.example.com/pozole.jpg)",
			"Serve with **radish**, oregano and lime.",
		}, "\n"), []string{"Pozole Blanco"}
	case strings.Contains(lower, "fajitas"):
		return strings.Join([]string{
			"**Fajitas a la Vizcaína**",
			note,
			"---",
			"Brown the beef strips, then add tomato, olives and capers.",
			"",
			"![Fajitas](https://images.example.com/fajitas.jpg)",
		}, "\n"), []string{"Fajitas a la Vizcaína"}
	case strings.Contains(lower, "atún") || strings.Contains(lower, "tuna"):
		return strings.Join([]string{
			"**Tortitas de Atún**",
			note,
			"Mix tuna, egg and breadcrumbs, shape into patties and fry.",
		}, "\n"), []string{"Tortitas de Atún"}
	default:
		return fmt.Sprintf("**Echo**\n%s\nYou asked: %s", note, message), nil
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
