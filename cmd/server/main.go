package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"coursecatalog/internal/adapters/email"
	web "coursecatalog/internal/adapters/http"
	"coursecatalog/internal/adapters/markdown"
	"coursecatalog/internal/adapters/storage"
	courseStore "coursecatalog/internal/adapters/storage/course"
	"coursecatalog/internal/adapters/storage/draft"
	"coursecatalog/internal/adapters/storage/kv"
	"coursecatalog/internal/application/catalog"
	"coursecatalog/internal/application/orchestrators"
	"coursecatalog/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("config_invalid", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg)

	if err := run(cfg); err != nil {
		slog.Error("server_failed", "error", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.IsProduction() {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
}

// backend is the storage selected by COURSES_BACKEND.
type backend struct {
	courses orchestrators.CourseStoreForOrchestrator
	kv      kv.Store
	close   func()
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	be, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer be.close()

	drafts := draft.NewStore(be.kv)

	var sender email.Sender
	if cfg.ResendKey != "" {
		sender = email.NewResendSender(cfg.ResendKey, cfg.ResendFrom)
		slog.Info("email_configured", "provider", "resend")
	} else {
		sender = email.NewNoopSender()
		if cfg.IsProduction() {
			slog.Warn("email_disabled", "detail", "RESEND_KEY is not set, announcements are not delivered")
		}
	}
	announcer := &orchestrators.Announcer{
		Sender:     sender,
		Recipients: cfg.AnnounceRecipients(),
		RenderHTML: markdown.Render,
	}

	gw := orchestrators.NewCourseGateway(be.courses, drafts, announcer)

	if cfg.SeedFile != "" {
		if err := seed(ctx, cfg.SeedFile, gw); err != nil {
			return err
		}
	}

	csrfKey, err := cfg.CSRFKeyBytes()
	if err != nil {
		return err
	}
	srv, err := web.NewServer(catalog.NewSession(gw), drafts, web.Options{
		CSRFKey:            csrfKey,
		SecureCookies:      cfg.IsProduction(),
		RateLimitPerSecond: cfg.RateLimit,
		SlowRequest:        cfg.SlowRequest(),
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server_starting", "version", version, "addr", cfg.Addr, "env", cfg.Env, "backend", cfg.Backend)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		slog.Info("server_stopping")
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func seed(ctx context.Context, path string, gw *orchestrators.CourseGateway) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	n, err := orchestrators.ExecuteSeedCourses(ctx, data, orchestrators.SeedCoursesDeps{
		CourseStore: gw.Store,
		GenerateID:  gw.GenerateID,
		Now:         gw.Now,
	})
	if err != nil {
		return fmt.Errorf("seed courses: %w", err)
	}
	slog.Info("courses_seeded", "file", path, "count", n)
	return nil
}

func openBackend(ctx context.Context, cfg config.Config) (backend, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		store := kv.NewMemoryStore()
		return backend{courses: courseStore.NewKVStore(store), kv: store, close: func() {}}, nil

	case config.BackendRedis:
		client, err := openRedis(ctx, cfg)
		if err != nil {
			return backend{}, err
		}
		store := kv.NewRedisStore(client, cfg.RedisPrefix)
		return backend{courses: courseStore.NewKVStore(store), kv: store, close: func() { client.Close() }}, nil

	case config.BackendPostgres:
		client, err := openRedis(ctx, cfg)
		if err != nil {
			return backend{}, err
		}
		db, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), &gorm.Config{
			Logger: courseStore.NewGormLogger(cfg.SlowQuery()),
		})
		if err != nil {
			client.Close()
			return backend{}, fmt.Errorf("connect postgres: %w", err)
		}
		courses := courseStore.NewGormStore(db, client)
		if err := courses.AutoMigrate(ctx); err != nil {
			client.Close()
			return backend{}, fmt.Errorf("migrate postgres: %w", err)
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
			client.Close()
		}
		return backend{courses: courses, kv: kv.NewRedisStore(client, cfg.RedisPrefix), close: closeDB}, nil

	default:
		return openSQLite(cfg)
	}
}

func openRedis(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
	}
	return client, nil
}

func openSQLite(cfg config.Config) (backend, error) {
	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return backend{}, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		db.Close()
		return backend{}, fmt.Errorf("database unreachable: %w", err)
	}
	if err := storage.MigrateDB(db); err != nil {
		db.Close()
		return backend{}, fmt.Errorf("migrate database: %w", err)
	}
	slog.Info("database_ready", "path", cfg.DBPath, "schema", storage.LatestSchemaVersion())

	timed := storage.NewTimedDB(db, cfg.SlowQuery())
	closeDB := func() {
		queries, slow := timed.Stats()
		slog.Info("database_closed", "queries", queries, "slow_queries", slow)
		timed.Close()
	}
	return backend{
		courses: courseStore.NewSQLiteStore(timed),
		kv:      kv.NewSQLiteStore(timed),
		close:   closeDB,
	}, nil
}
