package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/frahmantamala/people-console/internal/employee"
	"github.com/frahmantamala/people-console/internal/notify"
	"github.com/frahmantamala/people-console/pkg/logger"
	"github.com/spf13/cobra"
	cron "gopkg.in/robfig/cron.v2"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start the scheduled jobs that run beside the HTTP server`,
}

var digestWorkerCmd = &cobra.Command{
	Use:   "digest",
	Short: "Mail the weekly employee events digest",
	Long:  `Run the weekly birthday, anniversary and trial-period digest on its cron schedule`,
	Run: func(cmd *cobra.Command, args []string) {
		startDigestWorker()
	},
}

var (
	digestOnce     bool
	digestSchedule string
)

func startDigestWorker() {
	config, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	lg := logger.LoggerWrapper()
	if !config.Digest.Enabled && !digestOnce {
		lg.Warn("weekly digest is disabled, set digest.enabled to run it")
		return
	}

	app, err := newApplication(context.Background(), config, lg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	recipients := make([]notify.Recipient, 0, len(config.Digest.Recipients))
	for _, email := range config.Digest.Recipients {
		recipients = append(recipients, notify.Recipient{Email: strings.TrimSpace(email)})
	}
	job := employee.NewDigestJob(app.Employee, app.Mailer, recipients, lg)

	run := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := job.Run(ctx); err != nil {
			lg.Error("weekly digest failed", "error", err)
		}
	}

	if digestOnce {
		run()
		return
	}

	schedule := getStringFlag(digestSchedule, config.Digest.Schedule)
	if tz := config.Interview.Timezone; tz != "" {
		schedule = "TZ=" + tz + " " + schedule
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, run); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid digest schedule %q: %v\n", schedule, err)
		os.Exit(1)
	}
	c.Start()
	lg.Info("digest worker is running. Press Ctrl+C to stop.", "schedule", schedule, "recipients", len(recipients))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	lg.Info("received signal, shutting down digest worker", "signal", sig)
	c.Stop()
}

func getStringFlag(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}

func init() {
	digestWorkerCmd.Flags().BoolVar(&digestOnce, "once", false, "Send this week's digest now and exit")
	digestWorkerCmd.Flags().StringVar(&digestSchedule, "schedule", "", "Cron schedule with seconds (overrides config)")

	workerCmd.AddCommand(digestWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
