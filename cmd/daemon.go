package cmd

import (
	"os"

	"github.com/jwiersema/streakd/internal/cmdutil"
	"github.com/jwiersema/streakd/internal/daemon"
	"github.com/jwiersema/streakd/internal/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(daemonCmd)

	daemonCmd.AddCommand(daemonStartCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonRestartCmd)
}

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Daemon management commands",
	Long:  `Manage the streakd background daemon that performs one streak run every day at the configured time.`,
}

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the streakd daemon",
	Long: `Start the daemon in the foreground. It waits for the configured time of
day, performs one streak run, and goes back to waiting. Run it under a
service manager to keep it alive across reboots.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := cmdutil.LoadConfigOrExit(cmd)
		if cfg == nil {
			os.Exit(1)
		}

		d, err := daemon.NewDaemon(cfg)
		if err != nil {
			util.LogError(util.DaemonError, "creating daemon", err)
			os.Exit(1)
		}
		if err := d.Start(); err != nil {
			util.LogError(util.DaemonError, "starting daemon", err)
			os.Exit(1)
		}
	},
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the streakd daemon",
	Long:  `Signal the running daemon to shut down and wait until it has exited.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := cmdutil.LoadConfigOrExit(cmd)
		if cfg == nil {
			os.Exit(1)
		}

		d, err := daemon.NewDaemon(cfg)
		if err != nil {
			util.LogError(util.DaemonError, "creating daemon", err)
			os.Exit(1)
		}

		if err := d.Stop(); err != nil {
			util.LogError(util.DaemonError, "stopping daemon", err)
			os.Exit(1)
		}
	},
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check daemon status",
	Long:  `Check if the streakd daemon is currently running and show the next scheduled run.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := cmdutil.LoadConfigOrExit(cmd)
		if cfg == nil {
			os.Exit(1)
		}

		d, err := daemon.NewDaemon(cfg)
		if err != nil {
			util.LogError(util.DaemonError, "creating daemon", err)
			os.Exit(1)
		}
		if err := d.Status(); err != nil {
			os.Exit(1)
		}
	},
}

var daemonRestartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the streakd daemon",
	Long:  `Stop the running daemon, if any, and then start it again.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := cmdutil.LoadConfigOrExit(cmd)
		if cfg == nil {
			os.Exit(1)
		}

		d, err := daemon.NewDaemon(cfg)
		if err != nil {
			util.LogError(util.DaemonError, "creating daemon", err)
			os.Exit(1)
		}

		// Stop if running
		if d.Status() == nil {
			util.Cyan.Println("Stopping existing daemon...")
			if err := d.Stop(); err != nil {
				util.LogError(util.DaemonError, "stopping daemon", err)
				os.Exit(1)
			}
		}

		// Start daemon
		util.Cyan.Println("Starting daemon...")
		if err := d.Start(); err != nil {
			util.LogError(util.DaemonError, "starting daemon", err)
			os.Exit(1)
		}
	},
}
