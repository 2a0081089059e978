// Command ciphertraced serves cryptography algorithm traces over HTTP
// and streams their playback over websocket.
package main

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/kochabx/ciphertrace/app"
	"github.com/kochabx/ciphertrace/config"
	"github.com/kochabx/ciphertrace/errors"
	"github.com/kochabx/ciphertrace/log"
	"github.com/kochabx/ciphertrace/session"
	transporthttp "github.com/kochabx/ciphertrace/transport/http"
	"github.com/kochabx/ciphertrace/transport/websocket"
)

type Settings struct {
	Log       LogSettings       `mapstructure:"log"`
	HTTP      HTTPSettings      `mapstructure:"http"`
	Websocket WebsocketSettings `mapstructure:"websocket"`
	Session   SessionSettings   `mapstructure:"session"`
}

type LogSettings struct {
	Level  string         `mapstructure:"level" default:"info"`
	ToFile bool           `mapstructure:"to_file"`
	File   log.FileConfig `mapstructure:"file"`
}

type HTTPSettings struct {
	Addr      string                      `mapstructure:"addr" default:":8080"`
	ShareBase string                      `mapstructure:"share_base" default:"http://localhost:8080"`
	Metrics   transporthttp.MetricsOption `mapstructure:"metrics"`
	Health    transporthttp.HealthOption  `mapstructure:"health"`
}

type WebsocketSettings struct {
	Addr string `mapstructure:"addr" default:":8081"`
}

type SessionSettings struct {
	TTL      time.Duration `mapstructure:"ttl" default:"30m"`
	PoolSize int           `mapstructure:"pool_size" default:"256"`
	Interval time.Duration `mapstructure:"interval" default:"1s"`
}

func main() {
	settings := &Settings{}

	cfg := config.New(settings)
	if err := cfg.Load(); err != nil {
		// Defaults are already applied; a missing file is not fatal.
		if errors.Code(err) != 404 {
			log.Fatal().Err(err).Msg("load configuration")
		}
		log.Warn().Msg("no config file found, using defaults")
	} else if err := cfg.Watch(); err != nil {
		log.Warn().Err(err).Msg("config watch unavailable")
	}

	setupLogger(settings.Log)

	sessions, err := session.NewManager(
		session.WithTTL(settings.Session.TTL),
		session.WithPoolSize(settings.Session.PoolSize),
		session.WithDefaultInterval(settings.Session.Interval),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("create session manager")
	}

	handler := transporthttp.NewHandler(sessions,
		transporthttp.WithShareBase(settings.HTTP.ShareBase),
	)

	httpServer := transporthttp.NewServer(settings.HTTP.Addr, transporthttp.NewRouter(handler),
		transporthttp.WithMeta(transporthttp.Meta{Name: "trace-api"}),
		transporthttp.WithMetricsOptions(settings.HTTP.Metrics),
		transporthttp.WithHealthOptions(settings.HTTP.Health),
	)

	wsServer := websocket.NewServer(settings.Websocket.Addr, sessions,
		websocket.WithName("playback"),
	)

	application := app.New(
		app.WithServers(httpServer, wsServer),
		app.WithShutdownTimeout(15*time.Second),
		app.WithClose("sessions", func(context.Context) error {
			sessions.Close()
			return nil
		}, 10*time.Second),
	)

	if err := application.Start(); err != nil {
		log.Fatal().Err(err).Msg("application stopped")
	}

	log.Info().Msg("shutdown complete")
}

func setupLogger(settings LogSettings) {
	level, err := zerolog.ParseLevel(settings.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	if settings.ToFile {
		logger, err := log.NewMulti(settings.File, log.WithLevel(level))
		if err != nil {
			log.Fatal().Err(err).Msg("create file logger")
		}
		log.SetGlobalLogger(logger)
		return
	}

	log.SetGlobalLevel(level)
}
