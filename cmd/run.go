package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lithammer/dedent"
	"github.com/spf13/cobra"

	"github.com/jwiersema/streakd/internal/cmdutil"
	"github.com/jwiersema/streakd/internal/logger"
	"github.com/jwiersema/streakd/internal/notify"
	"github.com/jwiersema/streakd/internal/runner"
	"github.com/jwiersema/streakd/internal/util"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var (
	helpRun = `Performs one full streak run right now instead of waiting for the
scheduled time: opens the configured community's top posts of the day,
upvotes one of them, waits the configured random interval and removes the
upvote again.

The command exits 0 even when the run itself fails; failures are logged
and reported by mail when notifications are configured. Only configuration
problems exit non-zero.`

	exampleRun = dedent.Dedent(`
		# Run once with the default config
		streakd run

		# Run once against a different config file
		streakd run --config ~/streakd-alt/config.yaml`,
	)
)

var runCmd = &cobra.Command{
	Use:     "run",
	Short:   "Perform a single streak run immediately",
	Long:    helpRun,
	Example: exampleRun,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := cmdutil.LoadConfigOrExit(cmd)
		if cfg == nil {
			os.Exit(1)
		}

		log, err := logger.NewLogger(cfg)
		if err != nil {
			util.LogError(util.ConfigError, "creating logger", err)
			os.Exit(1)
		}
		defer log.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		r := runner.New(cfg, log, notify.NewSMTPNotifier(cfg))
		out, err := r.RunOnce(ctx)
		if err != nil {
			// The runner already logged and reported the failure.
			return
		}

		if out.Skipped {
			util.Magenta.Println("Streak already reached today, skipping the vote")
			return
		}
		util.GreenBold.Printf("Voted in r/%s and held the vote for %s\n", out.Subreddit, out.Waited)
	},
}
