package player

import "errors"

var (
	ErrPlayerNotFound   = errors.New("player not found")
	ErrPlayerExists     = errors.New("player already exists")
	ErrMediaItemInvalid = errors.New("media item is invalid")
)
