package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	sddaemon "github.com/coreos/go-systemd/v22/daemon"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smazurov/backlightd/cmd"
	"github.com/smazurov/backlightd/internal/api"
	"github.com/smazurov/backlightd/internal/config"
	"github.com/smazurov/backlightd/internal/events"
	"github.com/smazurov/backlightd/internal/lights"
	"github.com/smazurov/backlightd/internal/logging"
	"github.com/smazurov/backlightd/internal/metrics"
	"github.com/smazurov/backlightd/internal/nats"
	"github.com/smazurov/backlightd/internal/version"
)

const shutdownTimeout = 5 * time.Second

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Server settings
	Port string `help:"Port to listen on" short:"p" default:":8090" toml:"server.port" env:"SERVER_PORT"`

	// Discovery settings
	DiscoveryPolicy    string `help:"Discovery policy (scan, fixed)" default:"scan" toml:"discovery.policy" env:"DISCOVERY_POLICY"`
	DiscoveryRoot      string `help:"Backlight class directory for the scan policy" default:"/sys/class/backlight" toml:"discovery.root" env:"DISCOVERY_ROOT"`
	DiscoveryFixedPath string `help:"Device directory for the fixed policy" default:"/sys/class/backlight/backlight" toml:"discovery.fixed_path" env:"DISCOVERY_FIXED_PATH"`

	// Auth settings, empty disables auth
	AuthUsername string `help:"Basic auth username" default:"" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"" toml:"auth.password" env:"AUTH_PASSWORD"`

	// NATS settings
	NATSEnabled  bool   `help:"Enable NATS control bridge" default:"false" toml:"nats.enabled" env:"NATS_ENABLED"`
	NATSURL      string `help:"NATS server URL" default:"nats://127.0.0.1:4222" toml:"nats.url" env:"NATS_URL"`
	NATSEmbedded bool   `help:"Run an embedded NATS server" default:"false" toml:"nats.embedded" env:"NATS_EMBEDDED"`
	NATSPort     int    `help:"Embedded NATS server port" default:"4222" toml:"nats.port" env:"NATS_PORT"`

	// Metrics settings
	MetricsEnabled bool `help:"Serve Prometheus metrics on /metrics" default:"true" toml:"metrics.enabled" env:"METRICS_ENABLED"`

	// Logging settings
	LoggingLevel  string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingLights string `help:"Lights logging level" default:"info" toml:"logging.lights" env:"LOGGING_LIGHTS"`
	LoggingAPI    string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
	LoggingHTTP   string `help:"HTTP request logging level" default:"info" toml:"logging.http" env:"LOGGING_HTTP"`
	LoggingNATS   string `help:"NATS logging level" default:"info" toml:"logging.nats" env:"LOGGING_NATS"`
}

func (o *Options) loggingConfig() logging.Config {
	return logging.Config{
		Level:  o.LoggingLevel,
		Format: o.LoggingFormat,
		Modules: map[string]string{
			"lights": o.LoggingLights,
			"api":    o.LoggingAPI,
			"http":   o.LoggingHTTP,
			"nats":   o.LoggingNATS,
		},
	}
}

// daemon holds the running services so OnStop can tear down what OnStart built.
type daemon struct {
	opts       *Options
	logger     *slog.Logger
	eventBus   *events.Bus
	registry   *lights.Registry
	server     *api.Server
	natsServer *nats.Server
	bridge     *nats.Bridge
	watcher    *config.Watcher[logging.Config]
	cancel     context.CancelFunc
	mu         sync.Mutex
}

func (d *daemon) setup() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	opts := d.opts

	// Create event bus for in-process event handling
	d.eventBus = events.New()
	api.PublishLogs(d.eventBus, "debug")

	lightsLogger := logging.GetLogger("lights")
	discoverer, err := lights.NewDiscoverer(lights.DiscoveryConfig{
		Policy:    opts.DiscoveryPolicy,
		Root:      opts.DiscoveryRoot,
		FixedPath: opts.DiscoveryFixedPath,
	}, lightsLogger)
	if err != nil {
		return err
	}

	registryOpts := []lights.RegistryOption{
		lights.WithLogger(lightsLogger),
		lights.WithObserver(events.NewLightObserver(d.eventBus)),
	}
	if opts.MetricsEnabled {
		registryOpts = append(registryOpts, lights.WithObserver(metrics.Observer{}))
	}
	d.registry = lights.NewRegistry(discoverer, registryOpts...)

	infos := d.registry.Info()
	if opts.MetricsEnabled {
		metrics.SetDiscovered(infos)
	}
	d.eventBus.Publish(events.NewLightsDiscoveredEvent(infos))

	apiOpts := &api.Options{
		AuthUsername: opts.AuthUsername,
		AuthPassword: opts.AuthPassword,
		Lights:       d.registry,
		EventBus:     d.eventBus,
	}
	if opts.MetricsEnabled {
		apiOpts.PrometheusHandler = promhttp.Handler()
	}
	d.server = api.NewServer(apiOpts)

	if opts.NATSEnabled {
		d.startNATS()
	}

	d.watchConfig()
	return nil
}

// startNATS starts the optional embedded server and the bridge. Failures
// leave the daemon running without NATS.
func (d *daemon) startNATS() {
	natsLogger := logging.GetLogger("nats")
	url := d.opts.NATSURL

	if d.opts.NATSEmbedded {
		d.natsServer = nats.NewServer(nats.ServerOptions{Port: d.opts.NATSPort, Logger: natsLogger})
		if err := d.natsServer.Start(); err != nil {
			d.logger.Error("Failed to start embedded NATS server", "error", err)
			d.natsServer = nil
		} else {
			url = d.natsServer.ClientURL()
		}
	}

	d.bridge = nats.NewBridge(url, d.registry, d.eventBus, natsLogger)
	if err := d.bridge.Start(); err != nil {
		d.logger.Warn("NATS bridge unavailable, continuing without it", "url", url, "error", err)
		d.bridge = nil
	}
}

// watchConfig reloads logging levels when the config file changes.
func (d *daemon) watchConfig() {
	if _, err := os.Stat(d.opts.Config); err != nil {
		return
	}

	watcher := config.NewConfigWatcher(
		d.opts.Config,
		func(path string) (logging.Config, error) {
			return config.LoadLoggingConfig(path), nil
		},
		logging.GetLogger("config"),
	)
	watcher.OnReload(func(cfg logging.Config) {
		logging.SetLevels(cfg)
		d.logger.Info("Logging levels reloaded", "level", cfg.Level)
	})

	ctx, cancel := context.WithCancel(context.Background())
	if err := watcher.Start(ctx); err != nil {
		cancel()
		d.logger.Warn("Failed to watch config file", "path", d.opts.Config, "error", err)
		return
	}
	d.watcher = watcher
	d.cancel = cancel
}

func (d *daemon) run() {
	if err := d.setup(); err != nil {
		d.logger.Error("Failed to start backlightd", "error", err)
		os.Exit(1)
	}

	d.logger.Info("Starting backlightd", "version", version.String(), "lights", d.registry.Count())
	if _, err := sddaemon.SdNotify(false, sddaemon.SdNotifyReady); err != nil {
		d.logger.Debug("sd_notify failed", "error", err)
	}

	d.logger.Info("Starting HTTP server", "port", d.opts.Port)
	if err := d.server.Start(d.opts.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		d.logger.Error("Failed to start HTTP server", "error", err)
		os.Exit(1)
	}
}

func (d *daemon) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.logger.Info("Shutting down server")
	_, _ = sddaemon.SdNotify(false, sddaemon.SdNotifyStopping)

	if d.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := d.server.Stop(ctx); err != nil {
			d.logger.Error("Error stopping HTTP server", "error", err)
		}
	}

	if d.watcher != nil {
		d.cancel()
		if err := d.watcher.Stop(); err != nil {
			d.logger.Warn("Error stopping config watcher", "error", err)
		}
	}
	if d.bridge != nil {
		d.bridge.Stop()
	}
	if d.natsServer != nil {
		d.natsServer.Stop()
	}
}

func main() {
	var cli humacli.CLI
	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		// Load configuration automatically
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			fmt.Fprintln(os.Stderr, "Failed to load config:", loadErr)
		}

		logging.Initialize(opts.loggingConfig())

		d := &daemon{opts: opts, logger: logging.GetLogger("main")}
		hooks.OnStart(d.run)
		hooks.OnStop(d.stop)
	})

	cli.Root().Use = "backlightd"
	cli.Root().Short = "Display backlight control service"
	cli.Root().Version = version.String()
	cli.Root().AddCommand(cmd.CreateLightsCmd())

	// Run the CLI
	cli.Run()
}
