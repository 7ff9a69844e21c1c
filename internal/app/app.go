package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/blogdesk/blogdesk-go/internal/apiclient"
	"github.com/blogdesk/blogdesk-go/internal/config"
	"github.com/blogdesk/blogdesk-go/internal/crypto"
	"github.com/blogdesk/blogdesk-go/internal/handler"
	"github.com/blogdesk/blogdesk-go/internal/logger"
	"github.com/blogdesk/blogdesk-go/internal/metrics"
	"github.com/blogdesk/blogdesk-go/internal/middleware"
	"github.com/blogdesk/blogdesk-go/internal/repository"
	"github.com/blogdesk/blogdesk-go/internal/service"
	"github.com/blogdesk/blogdesk-go/internal/session"
	"github.com/blogdesk/blogdesk-go/internal/view"
)

const shutdownTimeout = 10 * time.Second

// Run parses the subcommand in args (os.Args[1:]) and runs it. Command
// output goes to out, logs go to logw.
func Run(out, logw io.Writer, args []string) error {
	cmd := ParseCommand(args)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.SetupDefault(logw, cfg.LogLevel, cfg.LogFormat)

	db, err := repository.NewDB(cfg.StorePath)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	defer db.Close()

	switch cmd {
	case CommandWhoami:
		return runWhoami(out, newSessionStore(db, cfg, log, nil))
	case CommandLogout:
		return runLogout(out, newSessionStore(db, cfg, log, nil))
	default:
		return runServe(cfg, db, log)
	}
}

func newSessionStore(db *sqlx.DB, cfg config.Config, log *slog.Logger, rec metrics.Recorder) *session.Store {
	sealer := crypto.NewSealer(cfg.SessionKey)
	if !sealer.Enabled() {
		log.Warn("SESSION_KEY not set, the stored credential is kept unencrypted")
	}
	return session.NewStore(repository.NewKVRepository(db), sealer, log, rec)
}

func runWhoami(out io.Writer, store *session.Store) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	sess := store.Hydrate(ctx)
	if !sess.Authenticated() {
		fmt.Fprintln(out, "Not signed in")
		return nil
	}

	ident := sess.Identity
	if ident.Email != "" {
		fmt.Fprintf(out, "%s <%s> (%s)\n", ident.Name, ident.Email, ident.ID)
	} else {
		fmt.Fprintf(out, "%s (%s)\n", ident.Name, ident.ID)
	}
	return nil
}

func runLogout(out io.Writer, store *session.Store) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	store.Hydrate(ctx)
	if err := store.Logout(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	fmt.Fprintln(out, "Signed out")
	return nil
}

// logSessionChanges logs every session transition: restored at startup,
// signed in, signed out.
func logSessionChanges(store *session.Store, log *slog.Logger) (unsubscribe func()) {
	return store.Subscribe(func(sess session.Session) {
		if sess.Authenticated() {
			log.Info("session active", "user_id", sess.Identity.ID)
			return
		}
		log.Info("no active session")
	})
}

// runServe wires every component and serves the web UI until SIGINT or
// SIGTERM, then shuts down gracefully.
func runServe(cfg config.Config, db *sqlx.DB, log *slog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	store := newSessionStore(db, cfg, log, collector)
	unsubscribe := logSessionChanges(store, log)
	defer unsubscribe()
	store.Hydrate(ctx)

	client := apiclient.New(cfg.APIBaseURL, &http.Client{Timeout: cfg.RequestTimeout}, store, log, collector)
	validate := validator.New(validator.WithRequiredStructEnabled())

	router, err := handler.NewRouter(ctx, handler.RouterConfig{
		Auth:     service.NewAuthService(client, store, validate),
		Posts:    service.NewPostService(client, store, validate, cfg.PageSize),
		Comments: service.NewCommentService(client, store, validate),
		Session:  store,
		Views:    view.NewBuilder(),
		Gatherer: reg,
		Logger:   log,
		CSRF: middleware.CSRFConfig{
			Secret:       cfg.CSRFSecret,
			CookieSecure: cfg.IsProduction(),
		},
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "addr", srv.Addr, "env", cfg.Env, "api", cfg.APIBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	log.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}
