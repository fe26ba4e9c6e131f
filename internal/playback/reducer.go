package playback

import (
	"context"

	"github.com/sharetube/playback/internal/domain"
	"github.com/sharetube/playback/internal/event"
	"github.com/sharetube/playback/internal/orientation"
	"github.com/sharetube/playback/internal/store"
)

// subscribeReducer folds canonical events into the shared state.
func (p *Player) subscribeReducer() func() {
	ctx := context.Background()

	return p.store.Subscribe(store.Listeners{
		event.Play: func(any) {
			p.store.SetState(domain.StatePatch{
				IsPlaying:       domain.Ptr(true),
				PlaybackStarted: domain.Ptr(true),
			})
		},
		event.Pause: func(any) {
			p.store.SetState(domain.StatePatch{IsPlaying: domain.Ptr(false)})
		},
		event.Buffering: func(payload any) {
			if pl, ok := payload.(event.BufferingPayload); ok {
				p.store.SetState(domain.StatePatch{IsBuffering: domain.Ptr(pl.IsBuffering)})
			}
		},
		event.Buffered: func(payload any) {
			if pl, ok := payload.(event.BufferedPayload); ok {
				p.store.SetState(domain.StatePatch{Buffered: domain.Ptr(pl.Buffered)})
			}
		},
		event.Progress: func(payload any) {
			if pl, ok := payload.(event.ProgressPayload); ok {
				p.store.SetState(domain.StatePatch{CurrentTime: domain.Ptr(pl.CurrentTime)})
			}
		},
		event.Seek: func(payload any) {
			if pl, ok := payload.(event.SeekPayload); ok {
				p.store.SetState(domain.StatePatch{CurrentTime: domain.Ptr(pl.Time)})
			}
		},
		event.DurationChange: func(payload any) {
			if pl, ok := payload.(event.DurationChangePayload); ok {
				p.store.SetState(domain.StatePatch{Duration: domain.Ptr(pl.Duration)})
			}
		},
		event.PlaybackRateChange: func(payload any) {
			if pl, ok := payload.(event.PlaybackRateChangePayload); ok {
				p.store.SetState(domain.StatePatch{PlaybackRate: domain.Ptr(pl.Rate)})
			}
		},
		event.PosterLoaded: func(payload any) {
			if pl, ok := payload.(event.PosterLoadedPayload); ok {
				p.applyPoster(pl)
			}
		},
		event.ProviderReady: func(any) {
			p.store.SetState(domain.StatePatch{ProviderReady: domain.Ptr(true)})
			p.syncAudio(ctx)
		},
		event.PlaybackEnd: func(any) {
			p.store.SetState(domain.StatePatch{IsPlaying: domain.Ptr(false)})
			if p.store.GetState().Options.AutoAdvance {
				p.Next(ctx)
			}
		},
		event.FullscreenChange: func(payload any) {
			if pl, ok := payload.(event.FullscreenChangePayload); ok {
				p.applyFullscreen(ctx, pl.IsFullscreen)
			}
		},
		event.Error: func(payload any) {
			p.logger.WarnContext(ctx, "player error", "payload", payload)
		},
	})
}

// applyPoster drops a poster resolved for anything but the cued media, and
// never overrides a poster supplied with the item.
func (p *Player) applyPoster(pl event.PosterLoadedPayload) {
	p.store.Update(func(st domain.PlayerState) domain.StatePatch {
		if st.CuedMedia == nil || st.ProviderName != domain.ProviderYouTube {
			return domain.StatePatch{}
		}
		if st.CuedMedia.Poster != nil && *st.CuedMedia.Poster != "" {
			return domain.StatePatch{}
		}
		if videoID, _ := domain.YouTubeVideoID(st.CuedMedia.Src); pl.VideoID != "" && pl.VideoID != videoID {
			return domain.StatePatch{}
		}

		return domain.StatePatch{PosterURL: domain.Ptr(pl.URL)}
	})
}

// syncAudio pushes the stored volume and mute flag into a freshly ready
// provider.
func (p *Player) syncAudio(ctx context.Context) {
	current := p.current()
	if current == nil {
		return
	}

	st := p.store.GetState()
	current.SetVolume(ctx, st.Volume)
	current.SetMuted(ctx, st.Muted)
}

func (p *Player) applyFullscreen(ctx context.Context, isFullscreen bool) {
	p.store.SetState(domain.StatePatch{IsFullscreen: domain.Ptr(isFullscreen)})

	opts := p.store.GetState().Options
	if !opts.LockOrientation {
		return
	}

	if isFullscreen {
		lock := opts.Orientation
		if lock == "" {
			lock = orientation.Landscape
		}
		p.locker.Lock(ctx, lock)
	} else {
		p.locker.Unlock(ctx)
	}
}
