package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/you/go-flyniki-flights/internal/auth"
	"github.com/you/go-flyniki-flights/internal/chrono"
	"github.com/you/go-flyniki-flights/internal/config"
	"github.com/you/go-flyniki-flights/internal/httpx"
	"github.com/you/go-flyniki-flights/internal/providers"
	"github.com/you/go-flyniki-flights/internal/service"
)

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve flight searches over HTTP behind JWT auth.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return errors.New("jwt_secret must be set to serve")
			}
			svc := service.NewSearchService(providers.NewFlyniki(cfg), chrono.NewStandardTime())
			return serve(cmd.Context(), cfg, NewHandler(cfg, svc))
		},
	}
}

// NewHandler wires the public login route and the protected search routes.
func NewHandler(cfg *config.Config, svc httpx.Searcher) http.Handler {
	publicMux := http.NewServeMux()
	publicMux.HandleFunc("/auth/login", auth.LoginHandler(cfg))

	protectedMux := http.NewServeMux()
	protectedMux.HandleFunc("/flights/search", httpx.SearchHandler(svc))
	protectedMux.HandleFunc("/sse/", httpx.SubscribeSSEHandler(svc, cfg.StreamInterval)) // /sse/DME/TXL?outbound=2026-11-01
	protectedMux.HandleFunc("/ws/", httpx.SubscribeWSHandler(svc, cfg.StreamInterval))

	return auth.JWTMiddleware(publicMux, protectedMux, cfg)
}

func serve(ctx context.Context, cfg *config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      0,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
			slog.Info("server listening", "addr", srv.Addr, "tls", true)
			err = srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			slog.Info("server listening", "addr", srv.Addr, "tls", false)
			err = srv.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
