package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sharetube/playback/internal/playback"
	"github.com/sharetube/playback/internal/service/player"
	"github.com/sharetube/playback/pkg/validator"
	"github.com/sharetube/playback/pkg/wsrouter"
)

type iPlayerService interface {
	CreatePlayer(context.Context, *player.CreatePlayerParams) (player.PlayerResponse, error)
	ResumePlayer(context.Context, *player.ResumePlayerParams) (player.PlayerResponse, error)
	GetPlayer(string) (*playback.Player, error)
	DisconnectPlayer(context.Context, *player.DisconnectPlayerParams) error
	RemovePlayer(context.Context, string) error
	GetPoster(context.Context, string) (string, error)
}

type controller struct {
	playerService iPlayerService
	upgrader      websocket.Upgrader
	validate      *validator.Validator
	logger        *slog.Logger
	wsmux         *wsrouter.WSRouter
}

func NewController(playerService iPlayerService, logger *slog.Logger) *controller {
	c := &controller{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		playerService: playerService,
		validate:      validator.NewValidator(),
		logger:        logger,
	}
	c.wsmux = c.getWSRouter()

	return c
}
