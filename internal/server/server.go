package server

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/mux"

	"github.com/averlyn/hookbot/internal/bot"
	"github.com/averlyn/hookbot/internal/interactions"
)

// Signature headers Discord attaches to every interaction request.
const (
	headerSignature = "X-Signature-Ed25519"
	headerTimestamp = "X-Signature-Timestamp"
)

// maxBodySize caps interaction payloads. Discord payloads are small;
// anything larger is not Discord.
const maxBodySize = 1 << 20

// Server is the HTTP transport for interaction webhooks.
type Server struct {
	bot       *bot.Bot
	publicKey ed25519.PublicKey
	maxAge    time.Duration

	httpServer *http.Server
}

// New builds the interaction server. The public key is the hex-encoded
// Ed25519 key from the application's Discord developer portal page.
func New(addr, publicKey string, maxAge time.Duration, b *bot.Bot) (*Server, error) {
	key, err := interactions.ParsePublicKey(publicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	s := &Server{
		bot:       b,
		publicKey: key,
		maxAge:    maxAge,
	}

	router := mux.NewRouter()
	router.HandleFunc("/interactions", s.handleInteractions).Methods(http.MethodPost)
	router.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe blocks until the listener fails or Shutdown is called.
func (s *Server) ListenAndServe() error {
	slog.Info("starting interaction server", "addr", s.httpServer.Addr)

	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// handleInteractions is the single inbound endpoint Discord POSTs
// interactions to. Requests that fail signature verification are
// rejected before any payload inspection.
func (s *Server) handleInteractions(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		slog.Error("failed to read interaction body", "error", err)
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	timestamp := r.Header.Get(headerTimestamp)
	signature := r.Header.Get(headerSignature)

	if !interactions.Verify(body, timestamp, signature, s.publicKey) {
		slog.Warn("rejected interaction with invalid signature", "remote", r.RemoteAddr)
		http.Error(w, "invalid request signature", http.StatusUnauthorized)
		return
	}

	if !interactions.Fresh(timestamp, s.maxAge, time.Now()) {
		slog.Warn("rejected interaction with stale timestamp", "remote", r.RemoteAddr)
		http.Error(w, "stale request signature", http.StatusUnauthorized)
		return
	}

	var interaction discordgo.Interaction
	if err := json.Unmarshal(body, &interaction); err != nil {
		slog.Error("failed to decode interaction", "error", err)
		http.Error(w, "failed to decode interaction", http.StatusBadRequest)
		return
	}

	resp, err := s.bot.HandleInteraction(r.Context(), &interaction)
	if err != nil {
		if errors.Is(err, bot.ErrUnknownInteractionType) {
			http.Error(w, "unknown interaction type", http.StatusBadRequest)
			return
		}

		slog.Error("failed to handle interaction", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to write interaction response", "error", err)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
