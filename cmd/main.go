package main

import (
	"context"
	"errors"
	"image"
	"os"
	"time"

	"wall_display/internal/config"
	"wall_display/internal/device"
	"wall_display/internal/handlers"
	"wall_display/internal/input"
	"wall_display/internal/logger"
	"wall_display/internal/observability/metrics"
	"wall_display/internal/render"
	"wall_display/internal/repository"
	"wall_display/internal/repository/db"
	"wall_display/internal/server"
	"wall_display/internal/service"
	"wall_display/internal/weather"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"
)

const shutdownGrace = 10 * time.Second

func main() {
	v := config.New()
	fs := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	flags := config.RegisterFlags(fs, v)
	_ = fs.Parse(os.Args[1:])

	cfg, err := flags.Resolve(v)
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	defer func() { _ = log.Sync() }()

	database, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "path", cfg.DB.Path, "err", err)
	}
	defer func() {
		if cerr := database.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	repos := repository.NewRepository(database)
	services := service.NewService(repos, service.Credentials{
		Username:     cfg.Auth.Username,
		PasswordHash: cfg.Auth.PasswordHash,
		SigningKey:   cfg.Auth.SigningKey,
		TokenTTL:     cfg.Auth.TokenTTL,
	})

	loop, cleanup, err := buildLoop(cfg, repos, services, metrics.New(reg), log)
	if err != nil {
		log.Fatalw("failed to build display loop", "err", err)
	}
	defer cleanup()

	srv := &server.Server{}
	if cfg.HTTP.Enabled {
		h := handlers.NewHandler(services, log.Named("http"), reg)
		srv = server.New(cfg.HTTP.Port, h.InitRoutes())
		runHTTPServer(srv, cfg.HTTP.Port, log)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Errorw("display loop stopped", "err", err)
	}

	shutdown(srv, log)
}

// buildLoop acquires the display hardware and wires the loop. cleanup
// releases whatever buildLoop opened besides the backlight, which the
// loop restores itself.
func buildLoop(cfg config.Config, repos *repository.Repository, services *service.Service, rec *metrics.Metrics, log *logger.Logger) (*service.EventLoop, func(), error) {
	night, err := cfg.NightWindow()
	if err != nil {
		return nil, nil, err
	}
	alarmAt, err := cfg.AlarmTime()
	if err != nil {
		return nil, nil, err
	}

	backlight, err := device.AcquireBacklight(cfg.Backlight.Device, cfg.Backlight.Default)
	if err != nil {
		return nil, nil, err
	}

	sink, err := newSink(cfg.Render)
	if err != nil {
		_ = backlight.Release()
		return nil, nil, err
	}

	signals := input.NewSignalSource()
	keys := input.NewKeySource(os.Stdin)
	keyCtx, stopKeys := context.WithCancel(context.Background())
	go keys.Run(keyCtx)
	sources := input.Sources{signals, keys}

	var panel *device.GT1151
	if cfg.Touch.Enabled {
		bounds := image.Rect(0, 0, cfg.Render.Width, cfg.Render.Height)
		panel, err = device.OpenGT1151(cfg.Touch.Bus, cfg.Touch.Addr, bounds)
		if err != nil {
			// the clock is still useful without touch
			log.Errorw("touch panel unavailable", "bus", cfg.Touch.Bus, "err", err)
		} else {
			sources = append(sources, input.NewTouchSource(panel, log.Named("touch")))
		}
	}

	cleanup := func() {
		stopKeys()
		signals.Stop()
		if panel != nil {
			_ = panel.Close()
		}
	}

	client := weather.NewClient(weather.Config{
		APIKey:   cfg.Weather.APIKey,
		Location: cfg.Weather.Location,
		BaseURL:  cfg.Weather.BaseURL,
		Timeout:  cfg.Weather.Timeout,
	}, log.Named("weather"))

	loop := service.NewEventLoop(service.LoopDeps{
		Input:     sources,
		Renderer:  render.New(render.Options{Width: cfg.Render.Width, Height: cfg.Render.Height, IconDir: cfg.Render.IconDir}, sink, log.Named("render")),
		Backlight: backlight,
		Weather:   service.NewWeatherCache(client, time.Local, log.Named("weather")),
		Alarm:     service.NewAlarmController(alarmAt, cfg.Alarm.AutoDismiss, cfg.Alarm.Enabled),
		Resolver: service.DisplayModeResolver{
			Night:        night,
			DefaultLevel: cfg.Backlight.Default,
			NightLevel:   cfg.Backlight.Night,
		},
		Scheduler:     service.NewScheduler(cfg.Loop.PollInterval),
		Status:        repos.StatusRepo,
		Events:        repos.EventRepo,
		Metrics:       rec,
		Listener:      services.Listener(),
		TouchDebounce: cfg.Loop.TouchDebounce,
		Log:           log.Named("loop"),
	})
	return loop, cleanup, nil
}

func newSink(cfg config.RenderConfig) (render.Sink, error) {
	switch cfg.Output {
	case "framebuffer":
		format, err := render.ParsePixelFormat(cfg.PixelFormat)
		if err != nil {
			return nil, err
		}
		return render.FramebufferSink{Path: cfg.Path, Format: format}, nil
	case "none":
		return render.NopSink{}, nil
	default:
		return render.PNGSink{Path: cfg.Path}, nil
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, log *logger.Logger) {
	go func() {
		log.Infow("http server listening", "port", port)
		if err := srv.Run(); err != nil {
			log.Errorw("http server stopped", "err", err)
		}
	}()
}

func shutdown(srv *server.Server, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
