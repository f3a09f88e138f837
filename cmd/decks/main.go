package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"git.sr.ht/~jackmordaunt/decks/browse"
	"git.sr.ht/~jackmordaunt/decks/config"
	"git.sr.ht/~jackmordaunt/decks/logger"
	"git.sr.ht/~jackmordaunt/decks/metrics"
	"git.sr.ht/~jackmordaunt/decks/storage"
	"git.sr.ht/~jackmordaunt/decks/storage/lazy"
)

var (
	ConfigPath string
	MemStorage bool
	Driver     string
	PageSize   int
	LogLevel   string
)

func init() {
	pflag.StringVar(&ConfigPath, "config", "decks.yaml", "path to the YAML config file")
	pflag.BoolVar(&MemStorage, "mem-storage", false, "store decks in memory")
	pflag.StringVar(&Driver, "driver", "", "storage driver: mem, bolt, storm, sqlite, redis")
	pflag.IntVar(&PageSize, "page-size", 0, "decks shown per page")
	pflag.StringVar(&LogLevel, "log-level", "", "log level: debug, info, warn, error")
}

func main() {
	pflag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// overrides are the command line values layered over file and env config.
type overrides struct {
	Driver     string
	MemStorage bool
	PageSize   int
	LogLevel   string
}

func (o overrides) apply(cfg *config.Config) {
	if o.Driver != "" {
		cfg.Storage.Driver = o.Driver
	}
	if o.MemStorage {
		cfg.Storage.Driver = config.DriverMem
	}
	if o.PageSize > 0 {
		cfg.Pages.Size = o.PageSize
	}
	if o.LogLevel != "" {
		cfg.Logging.Level = o.LogLevel
	}
}

// loadConfig applies flags before defaults, so a driver chosen on the
// command line gets its own default path and is validated as such.
func loadConfig(path string, o overrides) (config.Config, error) {
	cfg, err := config.Read(path)
	if err != nil {
		return config.Config{}, err
	}
	o.apply(&cfg)
	if err := cfg.Finish(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func run() error {
	cfg, err := loadConfig(ConfigPath, overrides{
		Driver:     Driver,
		MemStorage: MemStorage,
		PageSize:   PageSize,
		LogLevel:   LogLevel,
	})
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, err := logger.New(cfg.Env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.With(ctx, log)

	metrics.Register()
	if cfg.Metrics.Addr != "" {
		srv := &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           metrics.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server", zap.Error(err))
			}
		}()
		defer func() { _ = srv.Close() }()
	}

	kv, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("storage driver: %w", err)
	}
	defer func() {
		if err := kv.Close(); err != nil {
			log.Warn("closing storage", zap.Error(err))
		}
	}()
	log.Info("opened storage",
		zap.String("driver", cfg.Storage.Driver),
		zap.String("path", cfg.Storage.Path),
		zap.String("key", cfg.Storage.Key),
	)

	ctrl := lazy.New(
		storage.NewDecks(kv, cfg.Storage.Key),
		lazy.WithHook(metrics.Hook{}),
		lazy.WithLogger(log.Named("sync")),
		lazy.WithWriteTimeout(time.Duration(cfg.Storage.WriteTimeoutSec)*time.Second),
	)
	defer func() {
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := ctrl.Close(shutdown); err != nil {
			log.Warn("flushing decks on exit", zap.Error(err))
		}
	}()

	session := browse.New(ctrl, cfg.Pages.Size, log.Named("browse"))
	// A failed read is already logged; the session still opens.
	_ = session.Open(ctx)

	sh := Shell{Session: session, In: os.Stdin, Out: os.Stdout}
	done := make(chan error, 1)
	go func() { done <- sh.Run() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return nil
	}
}
