package cmd

import (
	"fmt"
	"os"

	"github.com/jwiersema/streakd/internal/config"
	"github.com/jwiersema/streakd/internal/util"
	"github.com/spf13/cobra"
)

func init() {
	var configPath string
	configPath, err := config.DefaultConfigPath()
	if err != nil {
		util.Red.Println("Error setting default config path: ", err)
		os.Exit(1)
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", configPath, "Path to config file")

}

var rootCmd = &cobra.Command{
	Use:   "streakd",
	Short: "Background daemon that keeps a Reddit browsing streak alive",
	Long: `streakd is a background daemon that once a day opens the top posts of a
configured community in a real browser session, upvotes one of them, waits a
random interval and removes the upvote again. Reddit counts the visit and the
vote toward the daily streak while no lasting vote is left behind.

The daemon reuses your existing Reddit login, either straight from a
browser profile, from an exported cookie file, or from a dedicated
automation profile:
- Runs every day at the configured time
- Picks one of the top three posts of the day
- Upvotes, waits, removes the upvote
- Reports failures by mail with a screenshot of the page`,
	Run: func(cmd *cobra.Command, args []string) {
		// Show help if no command is provided
		cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
