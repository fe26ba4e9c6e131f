package redis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sharetube/playback/internal/repository/player"
	omitnilpointers "github.com/sharetube/playback/pkg/omit-nil-pointers"
)

func (r repo) CreatePlayer(ctx context.Context, params *player.CreatePlayerParams) error {
	funcName := "player.redis.CreatePlayer"
	slog.DebugContext(ctx, funcName, "params", params)

	playerKey := r.getPlayerKey(params.PlayerID)
	exists, err := r.rc.Exists(ctx, playerKey).Result()
	if err != nil {
		return fmt.Errorf("failed to check if player exists: %w", err)
	}
	if exists > 0 {
		return player.ErrPlayerExists
	}

	snapshot := params.Snapshot
	snapshot.UpdatedAt = params.UpdatedAt

	pipe := r.rc.TxPipeline()
	pipe.HSet(ctx, playerKey, snapshot)
	pipe.Expire(ctx, playerKey, r.expireDuration)

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to create player: %w", err)
	}

	return nil
}

func (r repo) GetPlayer(ctx context.Context, playerID string) (player.Snapshot, error) {
	funcName := "player.redis.GetPlayer"
	slog.DebugContext(ctx, funcName, "player_id", playerID)

	playerKey := r.getPlayerKey(playerID)
	res := r.rc.HGetAll(ctx, playerKey)
	if err := res.Err(); err != nil {
		return player.Snapshot{}, fmt.Errorf("failed to get player: %w", err)
	}
	if len(res.Val()) == 0 {
		return player.Snapshot{}, player.ErrPlayerNotFound
	}

	var snapshot player.Snapshot
	if err := res.Scan(&snapshot); err != nil {
		return player.Snapshot{}, fmt.Errorf("failed to scan player: %w", err)
	}

	r.expire(ctx, playerID)

	return snapshot, nil
}

func (r repo) UpdatePlayer(ctx context.Context, params *player.UpdatePlayerParams) error {
	funcName := "player.redis.UpdatePlayer"
	slog.DebugContext(ctx, funcName, "player_id", params.PlayerID)

	playerKey := r.getPlayerKey(params.PlayerID)
	exists, err := r.rc.Exists(ctx, playerKey).Result()
	if err != nil {
		return fmt.Errorf("failed to check if player exists: %w", err)
	}
	if exists == 0 {
		return player.ErrPlayerNotFound
	}

	fields := omitnilpointers.OmitNilPointers(map[string]any{
		"volume":           params.Volume,
		"muted":            params.Muted,
		"autoplay":         params.Autoplay,
		"auto_advance":     params.AutoAdvance,
		"lock_orientation": params.LockOrientation,
		"orientation":      params.Orientation,
		"shuffle":          params.Shuffle,
		"queue_index":      params.QueueIndex,
		"updated_at":       params.UpdatedAt,
	})

	pipe := r.rc.TxPipeline()
	pipe.HSet(ctx, playerKey, fields)
	pipe.Expire(ctx, playerKey, r.expireDuration)
	pipe.Expire(ctx, r.getQueueKey(params.PlayerID), r.expireDuration)

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}

	return nil
}

func (r repo) RemovePlayer(ctx context.Context, playerID string) error {
	funcName := "player.redis.RemovePlayer"
	slog.DebugContext(ctx, funcName, "player_id", playerID)

	res, err := r.rc.Del(ctx, r.getPlayerKey(playerID), r.getQueueKey(playerID)).Result()
	if err != nil {
		return fmt.Errorf("failed to remove player: %w", err)
	}

	if res == 0 {
		return player.ErrPlayerNotFound
	}

	return nil
}

func (r repo) expire(ctx context.Context, playerID string) {
	pipe := r.rc.Pipeline()
	pipe.Expire(ctx, r.getPlayerKey(playerID), r.expireDuration)
	pipe.Expire(ctx, r.getQueueKey(playerID), r.expireDuration)
	if err := r.executePipe(ctx, pipe); err != nil {
		slog.WarnContext(ctx, "failed to refresh player expiration", "player_id", playerID, "error", err)
	}
}
