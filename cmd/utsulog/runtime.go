package main

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"utsulog/internal/api"
	"utsulog/internal/config"
	"utsulog/internal/eventbus"
	"utsulog/internal/observability"
)

// runtime holds what every subcommand needs: resolved config, logger, bus and API client
type runtime struct {
	cfg     *config.Config
	cfgPath string
	logger  *observability.Logger
	bus     *eventbus.Bus
	metrics *observability.Metrics
	client  *api.Client

	unsubscribe func()
	closers     []io.Closer
}

// loadConfig resolves the file, then the environment, then command-line flags
func loadConfig(c *cli.Command) (*config.Config, string, error) {
	svc, err := config.NewConfigService(c.String("config"))
	if err != nil {
		return nil, "", err
	}
	cfg, err := svc.Load()
	if err != nil {
		return nil, "", fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, "", fmt.Errorf("reading environment: %w", err)
	}
	if v := c.String("api-url"); v != "" {
		cfg.APIURL = v
	}
	if c.Bool("debug") {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid config %s: %w", svc.Path(), err)
	}
	return cfg, svc.Path(), nil
}

func newRuntime(c *cli.Command, component string) (*runtime, error) {
	cfg, path, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg, cfgPath: path}

	logPath := cfg.LogFile
	if logPath == "" {
		logPath = config.DefaultLogFile()
	}
	logger, closer, err := observability.NewFileLogger(logPath, cfg.LogLevel, component)
	if err != nil {
		fmt.Fprintf(c.Root().ErrWriter, "utsulog: %v; logging disabled\n", err)
		logger = observability.NewNopLogger()
	} else {
		rt.closers = append(rt.closers, closer)
	}
	rt.logger = logger.With("session_id", uuid.NewString())

	rt.bus = eventbus.New(eventbus.WithLogger(rt.logger.Logger))
	rt.metrics = observability.NewMetrics()
	rt.unsubscribe = observability.Subscribe(rt.bus, rt.logger, rt.metrics)

	rt.bus.Publish(eventbus.ConfigLoadedEvent{
		Path:   path,
		APIURL: cfg.APIURL,
	})

	rt.client, err = api.NewClient(api.Options{
		BaseURL:   cfg.APIURL,
		EmojiURL:  cfg.ResolvedEmojiURL(),
		Timeout:   cfg.RequestTimeout.Duration,
		UserAgent: "utsulog/" + version,
		Logger:    rt.logger,
	})
	if err != nil {
		rt.Close()
		return nil, err
	}

	return rt, nil
}

// Close flushes the bus to the log and metrics subscribers, then releases the log file
func (rt *runtime) Close() {
	if rt.bus != nil {
		rt.bus.Close()
	}
	if rt.unsubscribe != nil {
		rt.unsubscribe()
	}
	for _, c := range rt.closers {
		_ = c.Close()
	}
}
