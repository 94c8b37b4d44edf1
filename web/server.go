/* server.go
 * Contains the HTTP server Start function that listens for incoming connections.
 */

package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

func NewServer(cfg Config) *Server {
	return &Server{api: cfg.API, refreshToken: cfg.RefreshToken}
}

// Handler returns the routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/ranking", s.RankingHandler)
	mux.HandleFunc("GET /api/teams", s.TeamsHandler)
	mux.HandleFunc("/webhooks/refresh", s.RefreshWebhookHandler)
	return mux
}

// Start serves until ctx is cancelled, then waits for running refreshes before returning
func Start(ctx context.Context, cfg Config) error {
	s := NewServer(cfg)
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening on ", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.refreshes.Wait()
	return nil
}
