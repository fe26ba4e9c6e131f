package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/sharetube/playback/internal/domain"
	"github.com/sharetube/playback/internal/repository/player"
)

// SetQueue replaces the stored queue. Items are kept as JSON list entries in
// play order.
func (r repo) SetQueue(ctx context.Context, params *player.SetQueueParams) error {
	funcName := "player.redis.SetQueue"
	slog.DebugContext(ctx, funcName, "player_id", params.PlayerID, "len", len(params.Queue))

	values := make([]any, 0, len(params.Queue))
	for _, item := range params.Queue {
		b, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("failed to marshal media item: %w", err)
		}
		values = append(values, b)
	}

	queueKey := r.getQueueKey(params.PlayerID)
	pipe := r.rc.TxPipeline()
	pipe.Del(ctx, queueKey)
	if len(values) > 0 {
		pipe.RPush(ctx, queueKey, values...)
		pipe.Expire(ctx, queueKey, r.expireDuration)
	}

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to set queue: %w", err)
	}

	return nil
}

func (r repo) GetQueue(ctx context.Context, playerID string) ([]domain.MediaItem, error) {
	funcName := "player.redis.GetQueue"
	slog.DebugContext(ctx, funcName, "player_id", playerID)

	raw, err := r.rc.LRange(ctx, r.getQueueKey(playerID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get queue: %w", err)
	}

	queue := make([]domain.MediaItem, 0, len(raw))
	for _, entry := range raw {
		var item domain.MediaItem
		if err := json.Unmarshal([]byte(entry), &item); err != nil {
			return nil, fmt.Errorf("%w: %w", player.ErrMediaItemInvalid, err)
		}
		queue = append(queue, item)
	}

	return queue, nil
}
