package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestYouTubeVideoID(t *testing.T) {
	tests := []struct {
		src    string
		wantID string
		wantOK bool
	}{
		{src: "dQw4w9WgXcQ", wantID: "dQw4w9WgXcQ", wantOK: true},
		{src: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42", wantID: "dQw4w9WgXcQ", wantOK: true},
		{src: "https://m.youtube.com/watch?v=dQw4w9WgXcQ", wantID: "dQw4w9WgXcQ", wantOK: true},
		{src: "https://youtu.be/dQw4w9WgXcQ", wantID: "dQw4w9WgXcQ", wantOK: true},
		{src: "https://www.youtube.com/embed/dQw4w9WgXcQ", wantID: "dQw4w9WgXcQ", wantOK: true},
		{src: "https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ", wantID: "dQw4w9WgXcQ", wantOK: true},
		{src: "https://youtube.com/shorts/dQw4w9WgXcQ", wantID: "dQw4w9WgXcQ", wantOK: true},
		{src: "https://www.youtube.com/watch?v=short", wantOK: false},
		{src: "https://example.com/video.mp4", wantOK: false},
		{src: "/media/video.mp4", wantOK: false},
		{src: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			id, ok := YouTubeVideoID(tt.src)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestProviderName(t *testing.T) {
	assert.Equal(t, ProviderYouTube, MediaItem{ID: "a", Src: "https://youtu.be/dQw4w9WgXcQ"}.ProviderName())
	assert.Equal(t, ProviderHTML, MediaItem{ID: "b", Src: "https://example.com/b.webm"}.ProviderName())
}

func TestStatePatchApply(t *testing.T) {
	item := &MediaItem{ID: "a", Src: "dQw4w9WgXcQ"}
	st := NewPlayerState(Options{Autoplay: true})

	next := StatePatch{
		CuedMedia: Ptr(item),
		Volume:    Ptr(10),
		IsPlaying: Ptr(true),
	}.Apply(st)

	assert.Same(t, item, next.CuedMedia)
	assert.Equal(t, 10, next.Volume)
	assert.True(t, next.IsPlaying)
	assert.True(t, next.Options.Autoplay)
	assert.Equal(t, -1, next.QueueIndex)

	cleared := StatePatch{CuedMedia: Ptr[*MediaItem](nil)}.Apply(next)
	assert.Nil(t, cleared.CuedMedia)
	assert.Equal(t, 10, cleared.Volume)
}
