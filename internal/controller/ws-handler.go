package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sharetube/playback/internal/domain"
	"github.com/sharetube/playback/internal/playback"
	"github.com/sharetube/playback/internal/provider"
	"github.com/sharetube/playback/pkg/validator"
	"github.com/sharetube/playback/pkg/wsrouter"
)

// Output is the envelope of every server-sent websocket message.
type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type EmptyInput struct{}

func (c controller) getPlayer(ctx context.Context) (*playback.Player, error) {
	p, err := c.playerService.GetPlayer(c.getPlayerIDFromCtx(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return p, nil
}

// withPlayer adapts a player action into a websocket handler.
func withPlayer[T any](c controller, action func(context.Context, *playback.Player, T)) wsrouter.HandlerFunc[T] {
	return func(ctx context.Context, _ *wsrouter.Conn, input T) error {
		p, err := c.getPlayer(ctx)
		if err != nil {
			return err
		}

		action(ctx, p, input)

		return nil
	}
}

func (c controller) handleWSError(ctx context.Context, conn *wsrouter.Conn, err error) {
	c.logger.InfoContext(ctx, "websocket message failed", "error", err)

	payload := map[string]any{"message": err.Error()}

	var validationErrors validator.Errors
	if errors.As(err, &validationErrors) {
		payload["errors"] = validationErrors
	}

	if err := conn.WriteJSON(&Output{Type: "ERROR", Payload: payload}); err != nil {
		c.logger.DebugContext(ctx, "failed to write error", "error", err)
	}
}

func (c controller) handleAlive(_ context.Context, _ *wsrouter.Conn, _ EmptyInput) error {
	return nil
}

func (c controller) handleGetState(ctx context.Context, conn *wsrouter.Conn, _ EmptyInput) error {
	p, err := c.getPlayer(ctx)
	if err != nil {
		return err
	}

	st := p.State()
	st.CurrentTime = p.CurrentTime()

	if err := conn.WriteJSON(&Output{Type: "STATE", Payload: st}); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}

	return nil
}

func (c controller) handleDestroy(ctx context.Context, conn *wsrouter.Conn, _ EmptyInput) error {
	if err := c.playerService.RemovePlayer(ctx, c.getPlayerIDFromCtx(ctx)); err != nil {
		return fmt.Errorf("failed to remove player: %w", err)
	}

	return conn.Close()
}

type ProviderMessageInput struct {
	Origin string          `json:"origin"`
	Data   json.RawMessage `json:"data" validate:"required"`
}

func (c controller) handleProviderMessage(ctx context.Context, p *playback.Player, input ProviderMessageInput) {
	p.Handle(ctx, provider.Inbound{Origin: input.Origin, Data: input.Data})
}

type FullscreenChangeInput struct {
	IsFullscreen bool `json:"is_fullscreen"`
}

func (c controller) handleFullscreenChange(_ context.Context, p *playback.Player, input FullscreenChangeInput) {
	p.SetFullscreen(input.IsFullscreen)
}

func (c controller) handlePlay(ctx context.Context, p *playback.Player, _ EmptyInput) {
	p.Play(ctx)
}

func (c controller) handlePause(ctx context.Context, p *playback.Player, _ EmptyInput) {
	p.Pause(ctx)
}

func (c controller) handleTogglePlay(ctx context.Context, p *playback.Player, _ EmptyInput) {
	p.TogglePlay(ctx)
}

type SeekInput struct {
	Time float64 `json:"time" validate:"gte=0"`
}

func (c controller) handleSeek(ctx context.Context, p *playback.Player, input SeekInput) {
	p.Seek(ctx, input.Time)
}

func (c controller) handleSeekStart(_ context.Context, p *playback.Player, _ EmptyInput) {
	p.SeekStart()
}

func (c controller) handleSeekEnd(ctx context.Context, p *playback.Player, input SeekInput) {
	p.SeekEnd(ctx, input.Time)
}

type SetVolumeInput struct {
	Volume *int `json:"volume" validate:"required,gte=0,lte=100"`
}

func (c controller) handleSetVolume(ctx context.Context, p *playback.Player, input SetVolumeInput) {
	p.SetVolume(ctx, *input.Volume)
}

type SetMutedInput struct {
	Muted bool `json:"muted"`
}

func (c controller) handleSetMuted(ctx context.Context, p *playback.Player, input SetMutedInput) {
	p.SetMuted(ctx, input.Muted)
}

func (c controller) handleToggleFullscreen(ctx context.Context, p *playback.Player, _ EmptyInput) {
	p.ToggleFullscreen(ctx)
}

func (c controller) handleClick(ctx context.Context, p *playback.Player, _ EmptyInput) {
	p.Click(ctx)
}

func (c controller) handleSetOptions(_ context.Context, p *playback.Player, opts domain.Options) {
	p.SetOptions(opts)
}

func (c controller) handleCueMedia(ctx context.Context, p *playback.Player, item domain.MediaItem) {
	p.Cue(ctx, item)
}

type SetQueueInput struct {
	Items      []domain.MediaItem `json:"items" validate:"dive"`
	StartIndex int                `json:"start_index" validate:"gte=-1"`
}

func (c controller) handleSetQueue(ctx context.Context, p *playback.Player, input SetQueueInput) {
	p.SetQueue(ctx, input.Items, input.StartIndex)
}

type EnqueueInput struct {
	Items []domain.MediaItem `json:"items" validate:"required,min=1,dive"`
}

func (c controller) handleEnqueue(_ context.Context, p *playback.Player, input EnqueueInput) {
	p.Enqueue(input.Items...)
}

type SelectMediaInput struct {
	MediaID string `json:"media_id" validate:"required"`
}

func (c controller) handleSelectMedia(ctx context.Context, _ *wsrouter.Conn, input SelectMediaInput) error {
	p, err := c.getPlayer(ctx)
	if err != nil {
		return err
	}

	if !p.Select(ctx, input.MediaID) {
		return fmt.Errorf("media %q is not queued", input.MediaID)
	}

	return nil
}

func (c controller) handleNext(ctx context.Context, p *playback.Player, _ EmptyInput) {
	p.Next(ctx)
}

func (c controller) handlePrevious(ctx context.Context, p *playback.Player, _ EmptyInput) {
	p.Previous(ctx)
}

type SetShuffleInput struct {
	Shuffle bool `json:"shuffle"`
}

func (c controller) handleSetShuffle(_ context.Context, p *playback.Player, input SetShuffleInput) {
	p.SetShuffle(input.Shuffle)
}
