package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sharetube/playback/internal/controller"
	"github.com/sharetube/playback/internal/poster"
	"github.com/sharetube/playback/internal/repository/connection/inmemory"
	playerRedis "github.com/sharetube/playback/internal/repository/player/redis"
	posterRedis "github.com/sharetube/playback/internal/repository/poster/redis"
	"github.com/sharetube/playback/internal/service/player"
	"github.com/sharetube/playback/pkg/ctxlogger"
	"github.com/sharetube/playback/pkg/redisclient"
	"github.com/sharetube/playback/pkg/ytthumb"
)

const (
	PosterCacheMemory = "memory"
	PosterCacheRedis  = "redis"
)

type AppConfig struct {
	Host             string        `json:"host"`
	Port             int           `json:"port"`
	LogLevel         string        `json:"log_level"`
	RedisPort        int           `json:"redis_port"`
	RedisHost        string        `json:"redis_host"`
	RedisPassword    string        `json:"-"`
	PlayerExpiration time.Duration `json:"player_expiration"`
	PosterCache      string        `json:"poster_cache"`
	PosterCacheTTL   time.Duration `json:"poster_cache_ttl"`
	ThumbnailBaseURL string        `json:"thumbnail_base_url"`
	ClickDelay       time.Duration `json:"click_delay"`
	AllowedOrigins   []string      `json:"allowed_origins"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	if cfg.PlayerExpiration <= 0 {
		return fmt.Errorf("player expiration must be greater than 0")
	}
	if cfg.PosterCache != PosterCacheMemory && cfg.PosterCache != PosterCacheRedis {
		return fmt.Errorf("poster cache must be %q or %q", PosterCacheMemory, PosterCacheRedis)
	}
	if cfg.PosterCacheTTL < 0 {
		return fmt.Errorf("poster cache ttl must not be negative")
	}
	if cfg.ThumbnailBaseURL == "" {
		return fmt.Errorf("thumbnail base url is required")
	}
	if cfg.ClickDelay <= 0 {
		return fmt.Errorf("click delay must be greater than 0")
	}
	return nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	logger := slog.New(&h)
	slog.SetDefault(logger)

	rc, err := redisclient.NewRedisClient(&redisclient.Config{
		Port:     cfg.RedisPort,
		Host:     cfg.RedisHost,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer rc.Close()

	var posterCache poster.Cache = poster.NewMemoryCache()
	if cfg.PosterCache == PosterCacheRedis {
		posterCache = posterRedis.NewRepo(rc, cfg.PosterCacheTTL)
	}
	thumbs := ytthumb.New(&http.Client{Timeout: 10 * time.Second}, cfg.ThumbnailBaseURL)
	posters := poster.NewResolver(thumbs, posterCache, logger)

	playerRepo := playerRedis.NewRepo(rc, cfg.PlayerExpiration)
	connectionRepo := inmemory.NewRepo(logger)
	playerService := player.NewService(playerRepo, connectionRepo, posters, player.Config{
		ClickDelay:     cfg.ClickDelay,
		AllowedOrigins: cfg.AllowedOrigins,
	}, logger)
	controller := controller.NewController(playerService, logger)
	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: controller.GetMux()}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-serverCtx.Done()

	return nil
}
