package playback

import (
	"context"
	"time"
)

// Click disambiguates single and double clicks on the player surface. A
// single click toggles play once the delay passes without a second one; a
// double click toggles fullscreen instead and never toggles play.
func (p *Player) Click(ctx context.Context) {
	if _, ok := p.ready(ctx, "click"); !ok {
		return
	}

	p.clickMu.Lock()
	p.clicks++
	if p.clicks == 1 {
		p.clickTimer = time.AfterFunc(p.clickDelay, func() {
			p.clickMu.Lock()
			single := p.clicks == 1
			p.clicks = 0
			p.clickTimer = nil
			p.clickMu.Unlock()

			if single {
				p.TogglePlay(context.WithoutCancel(ctx))
			}
		})
		p.clickMu.Unlock()
		return
	}

	if p.clickTimer != nil {
		p.clickTimer.Stop()
		p.clickTimer = nil
	}
	p.clicks = 0
	p.clickMu.Unlock()

	p.ToggleFullscreen(ctx)
}
