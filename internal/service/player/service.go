package player

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sharetube/playback/internal/domain"
	"github.com/sharetube/playback/internal/provider"
	"github.com/sharetube/playback/internal/repository/player"
	"github.com/sharetube/playback/pkg/wsrouter"
)

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrPosterNotFound = errors.New("poster not found")
	ErrInvalidVideoID = errors.New("invalid video id")
)

type iPlayerRepo interface {
	CreatePlayer(context.Context, *player.CreatePlayerParams) error
	GetPlayer(context.Context, string) (player.Snapshot, error)
	UpdatePlayer(context.Context, *player.UpdatePlayerParams) error
	RemovePlayer(context.Context, string) error
	SetQueue(context.Context, *player.SetQueueParams) error
	GetQueue(context.Context, string) ([]domain.MediaItem, error)
}

type iConnRepo interface {
	Add(*wsrouter.Conn, string) error
	RemoveByPlayerID(string) error
	GetConn(string) (*wsrouter.Conn, error)
}

type Config struct {
	ClickDelay     time.Duration
	AllowedOrigins []string
}

type service struct {
	playerRepo iPlayerRepo
	connRepo   iConnRepo
	posters    provider.PosterResolver
	cfg        Config
	logger     *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*session
}

func NewService(playerRepo iPlayerRepo, connRepo iConnRepo, posters provider.PosterResolver, cfg Config, logger *slog.Logger) *service {
	return &service{
		playerRepo: playerRepo,
		connRepo:   connRepo,
		posters:    posters,
		cfg:        cfg,
		logger:     logger,
		sessions:   make(map[string]*session),
	}
}
