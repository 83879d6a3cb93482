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
	"github.com/jwiersema/streakd/internal/runner"
	"github.com/jwiersema/streakd/internal/util"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var (
	helpCheck = `Opens the configured account's achievements page and reports whether
today's streak has already been reached. Requires reddit_username to be set
in the configuration. No vote is placed.`

	exampleCheck = dedent.Dedent(`
		# Check the streak with the default config
		streakd check`,
	)
)

var checkCmd = &cobra.Command{
	Use:     "check",
	Short:   "Report whether today's streak is already reached",
	Long:    helpCheck,
	Example: exampleCheck,
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

		r := runner.New(cfg, log, nil)
		status, err := r.CheckStreak(ctx)
		if err != nil {
			util.LogError(util.BrowserError, "checking streak", err)
			os.Exit(1)
		}

		if status.Days >= 0 {
			util.Cyan.Printf("Current streak: %d days\n", status.Days)
		}
		if status.Reached {
			util.Green.Println("Today's streak has been reached")
		} else {
			util.Yellow.Println("Today's streak has not been reached yet")
		}
	},
}
