package app

import (
	"testing"
	"time"

	"github.com/sharetube/playback/pkg/ytthumb"
	"github.com/stretchr/testify/assert"
)

func validConfig() AppConfig {
	return AppConfig{
		Host:             "0.0.0.0",
		Port:             8080,
		LogLevel:         "INFO",
		RedisHost:        "localhost",
		RedisPort:        6379,
		PlayerExpiration: 24 * time.Hour,
		PosterCache:      PosterCacheMemory,
		ThumbnailBaseURL: ytthumb.DefaultBaseURL,
		ClickDelay:       300 * time.Millisecond,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{name: "valid", mutate: func(*AppConfig) {}},
		{name: "redis poster cache", mutate: func(c *AppConfig) { c.PosterCache = PosterCacheRedis }},
		{name: "bad port", mutate: func(c *AppConfig) { c.Port = 0 }, wantErr: true},
		{name: "no expiration", mutate: func(c *AppConfig) { c.PlayerExpiration = 0 }, wantErr: true},
		{name: "unknown poster cache", mutate: func(c *AppConfig) { c.PosterCache = "disk" }, wantErr: true},
		{name: "negative poster ttl", mutate: func(c *AppConfig) { c.PosterCacheTTL = -time.Second }, wantErr: true},
		{name: "no thumbnail url", mutate: func(c *AppConfig) { c.ThumbnailBaseURL = "" }, wantErr: true},
		{name: "no click delay", mutate: func(c *AppConfig) { c.ClickDelay = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
