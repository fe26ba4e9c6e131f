package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sharetube/playback/internal/app"
	"github.com/sharetube/playback/internal/provider/youtube"
	"github.com/sharetube/playback/pkg/ytthumb"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
}

var (
	port = configVar[int]{
		envKey:       "SERVER_PORT",
		flagKey:      "port",
		defaultValue: 80,
	}
	host = configVar[string]{
		envKey:       "SERVER_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
	}
	logLevel = configVar[string]{
		envKey:       "SERVER_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
	}
	redisPort = configVar[int]{
		envKey:       "REDIS_PORT",
		flagKey:      "redis-port",
		defaultValue: 6379,
	}
	redisHost = configVar[string]{
		envKey:       "REDIS_HOST",
		flagKey:      "redis-host",
		defaultValue: "localhost",
	}
	redisPassword = configVar[string]{
		envKey:       "REDIS_PASSWORD",
		flagKey:      "redis-password",
		defaultValue: "",
	}
	playerExpiration = configVar[time.Duration]{
		envKey:       "SERVER_PLAYER_EXPIRATION",
		flagKey:      "player-expiration",
		defaultValue: 7 * 24 * time.Hour,
	}
	posterCache = configVar[string]{
		envKey:       "SERVER_POSTER_CACHE",
		flagKey:      "poster-cache",
		defaultValue: app.PosterCacheMemory,
	}
	posterCacheTTL = configVar[time.Duration]{
		envKey:       "SERVER_POSTER_CACHE_TTL",
		flagKey:      "poster-cache-ttl",
		defaultValue: 0,
	}
	thumbnailBaseURL = configVar[string]{
		envKey:       "SERVER_THUMBNAIL_BASE_URL",
		flagKey:      "thumbnail-base-url",
		defaultValue: ytthumb.DefaultBaseURL,
	}
	clickDelay = configVar[time.Duration]{
		envKey:       "SERVER_CLICK_DELAY",
		flagKey:      "click-delay",
		defaultValue: 300 * time.Millisecond,
	}
	allowedOrigins = configVar[[]string]{
		envKey:       "SERVER_ALLOWED_ORIGINS",
		flagKey:      "allowed-origins",
		defaultValue: youtube.DefaultOrigins,
	}
)

func loadAppConfig() *app.AppConfig {
	pflag.Int(port.flagKey, port.defaultValue, "Server port")
	pflag.String(host.flagKey, host.defaultValue, "Server host")
	pflag.String(logLevel.flagKey, logLevel.defaultValue, "Logging level")
	pflag.Int(redisPort.flagKey, redisPort.defaultValue, "Redis port")
	pflag.String(redisHost.flagKey, redisHost.defaultValue, "Redis host")
	pflag.String(redisPassword.flagKey, redisPassword.defaultValue, "Redis password")
	pflag.Duration(playerExpiration.flagKey, playerExpiration.defaultValue, "How long a disconnected player can be resumed")
	pflag.String(posterCache.flagKey, posterCache.defaultValue, "Poster cache backend (memory|redis)")
	pflag.Duration(posterCacheTTL.flagKey, posterCacheTTL.defaultValue, "Poster cache ttl for the redis backend, 0 keeps posters forever")
	pflag.String(thumbnailBaseURL.flagKey, thumbnailBaseURL.defaultValue, "YouTube thumbnail base url")
	pflag.Duration(clickDelay.flagKey, clickDelay.defaultValue, "Window in which a second click counts as a double click")
	pflag.StringSlice(allowedOrigins.flagKey, allowedOrigins.defaultValue, "Origins accepted for iframe provider messages")
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	viper.BindEnv(port.flagKey, port.envKey)
	viper.BindEnv(host.flagKey, host.envKey)
	viper.BindEnv(logLevel.flagKey, logLevel.envKey)
	viper.BindEnv(redisPort.flagKey, redisPort.envKey)
	viper.BindEnv(redisHost.flagKey, redisHost.envKey)
	viper.BindEnv(redisPassword.flagKey, redisPassword.envKey)
	viper.BindEnv(playerExpiration.flagKey, playerExpiration.envKey)
	viper.BindEnv(posterCache.flagKey, posterCache.envKey)
	viper.BindEnv(posterCacheTTL.flagKey, posterCacheTTL.envKey)
	viper.BindEnv(thumbnailBaseURL.flagKey, thumbnailBaseURL.envKey)
	viper.BindEnv(clickDelay.flagKey, clickDelay.envKey)
	viper.BindEnv(allowedOrigins.flagKey, allowedOrigins.envKey)

	viper.SetDefault(port.flagKey, port.defaultValue)
	viper.SetDefault(host.flagKey, host.defaultValue)
	viper.SetDefault(logLevel.flagKey, logLevel.defaultValue)
	viper.SetDefault(redisPort.flagKey, redisPort.defaultValue)
	viper.SetDefault(redisHost.flagKey, redisHost.defaultValue)
	viper.SetDefault(redisPassword.flagKey, redisPassword.defaultValue)
	viper.SetDefault(playerExpiration.flagKey, playerExpiration.defaultValue)
	viper.SetDefault(posterCache.flagKey, posterCache.defaultValue)
	viper.SetDefault(posterCacheTTL.flagKey, posterCacheTTL.defaultValue)
	viper.SetDefault(thumbnailBaseURL.flagKey, thumbnailBaseURL.defaultValue)
	viper.SetDefault(clickDelay.flagKey, clickDelay.defaultValue)
	viper.SetDefault(allowedOrigins.flagKey, allowedOrigins.defaultValue)

	config := &app.AppConfig{
		Host:             viper.GetString(host.flagKey),
		Port:             viper.GetInt(port.flagKey),
		LogLevel:         viper.GetString(logLevel.flagKey),
		RedisPort:        viper.GetInt(redisPort.flagKey),
		RedisHost:        viper.GetString(redisHost.flagKey),
		RedisPassword:    viper.GetString(redisPassword.flagKey),
		PlayerExpiration: viper.GetDuration(playerExpiration.flagKey),
		PosterCache:      viper.GetString(posterCache.flagKey),
		PosterCacheTTL:   viper.GetDuration(posterCacheTTL.flagKey),
		ThumbnailBaseURL: viper.GetString(thumbnailBaseURL.flagKey),
		ClickDelay:       viper.GetDuration(clickDelay.flagKey),
		AllowedOrigins:   viper.GetStringSlice(allowedOrigins.flagKey),
	}

	return config
}

func main() {
	ctx := context.Background()

	appConfig := loadAppConfig()

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting app with config: %s\n", jsonConfig)

	log.Fatal(app.Run(ctx, appConfig))
}
