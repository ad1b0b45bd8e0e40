package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"calweb/internal/config"
	appLog "calweb/internal/log"
	"calweb/internal/store"
	"calweb/internal/web"
)

// flagConfig holds CLI flag values.
type flagConfig struct {
	configPath string
	listen     string
	debug      bool
}

func main() {
	flags := parseFlags()

	if flags.debug {
		appLog.SetLevel("debug")
	}
	appLog.Info("calweb starting", "version", "0.0.1-dev")

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	// CLI --listen overrides config file listen if provided.
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	appLog.Info("effective config",
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"week_start", conf.WeekStart,
		"mongo_database", conf.Mongo.Database,
		"purge_cron", conf.PurgeCron,
		"purge_retention_days", conf.PurgeRetentionDays,
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	st, err := store.NewMongoStore(ctx, conf.Mongo)
	if err != nil {
		appLog.Error("failed to connect to document store", err)
		os.Exit(1)
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if err := st.Close(closeCtx); err != nil {
			appLog.Error("store disconnect failed", err)
		}
	}()

	// Scheduled purge of soft-deleted events.
	scheduler := cron.New()
	retention := time.Duration(conf.PurgeRetentionDays) * 24 * time.Hour
	if _, err := scheduler.AddFunc(conf.PurgeCron, func() {
		purgeCtx, purgeCancel := context.WithTimeout(ctx, time.Minute)
		defer purgeCancel()

		cutoff := time.Now().UTC().Add(-retention)
		n, err := st.PurgeDeleted(purgeCtx, cutoff)
		if err != nil {
			appLog.Error("purge job failed", err)
			return
		}
		if n > 0 {
			appLog.Info("purged soft-deleted events", "count", n, "cutoff", cutoff.Format(time.RFC3339))
		}
	}); err != nil {
		appLog.Error("invalid purge cron expression", err, "purge_cron", conf.PurgeCron)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	if err := web.StartServer(ctx, conf, st, flags.debug); err != nil {
		appLog.Error("http server failed", err)
		os.Exit(1)
	}

	appLog.Info("calweb exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/calweb/config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable debug logging")

	flag.Parse()

	return cfg
}
