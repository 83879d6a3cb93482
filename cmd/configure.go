package cmd

import (
	"os"
	"strconv"
	"strings"

	"github.com/jwiersema/streakd/internal/config"
	"github.com/jwiersema/streakd/internal/schedule"
	"github.com/jwiersema/streakd/internal/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configureCmd)
}

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Configure streakd settings",
	Long: `Configure streakd settings including the communities to vote in, the
daily run time, the vote wait window and the Reddit credential source.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")

		if _, err := os.Stat(configPath); err != nil {
			util.CyanBold.Println("Creating new configuration...")
			cfg, err := config.CreateConfig()
			if err != nil {
				util.Red.Printf("Error creating configuration: %v\n", err)
				os.Exit(1)
			}
			if err := config.Save(*cfg, configPath); err != nil {
				util.Red.Printf("Error saving configuration: %v\n", err)
				os.Exit(1)
			}
			util.Green.Printf("Configuration saved to %s\n", configPath)
		} else {
			util.CyanBold.Println("Updating existing configuration...")
			cfg, err := config.Load(configPath)
			if err != nil {
				util.Red.Printf("Error loading configuration: %v\n", err)
				os.Exit(1)
			}

			util.Cyan.Println("\nCurrent settings:")
			util.Cyan.Printf("Communities: r/%s\n", strings.Join(cfg.Subreddits, ", r/"))
			util.Cyan.Printf("Run at: %s\n", cfg.RunAt)
			util.Cyan.Printf("Wait window: %d-%d seconds\n", cfg.WaitSecondsMin, cfg.WaitSecondsMax)
			util.Cyan.Printf("Credential source: %s\n", cfg.CredentialSource)

			util.CyanBold.Println("\nUpdate schedule configuration? (y/n):")
			response := util.ScanlineTrim()

			if response == "y" || response == "Y" || response == "yes" {
				util.Cyan.Printf("Time of day to run, 24h HH:MM (current: %s, empty to keep): ", cfg.RunAt)
				if runAt := util.ScanlineTrim(); runAt != "" {
					if _, err := schedule.Parse(runAt); err == nil {
						cfg.RunAt = runAt
					} else {
						util.LogError(util.ScheduleError, "parsing run time", err)
						util.Cyan.Printf("Keeping %s\n", cfg.RunAt)
					}
				}

				util.Cyan.Printf("Minimum vote wait in seconds (current: %d): ", cfg.WaitSecondsMin)
				if minStr := util.ScanlineTrim(); minStr != "" {
					if secs, err := strconv.Atoi(minStr); err == nil && secs > 0 {
						cfg.WaitSecondsMin = secs
					}
				}
				util.Cyan.Printf("Maximum vote wait in seconds (current: %d): ", cfg.WaitSecondsMax)
				if maxStr := util.ScanlineTrim(); maxStr != "" {
					if secs, err := strconv.Atoi(maxStr); err == nil && secs >= cfg.WaitSecondsMin {
						cfg.WaitSecondsMax = secs
					}
				}

				// Save updated config
				if err := config.Save(cfg, configPath); err != nil {
					util.Red.Printf("Error saving configuration: %v\n", err)
					os.Exit(1)
				}

				util.Green.Println("Configuration updated successfully!")
			}
		}

		util.CyanBold.Println("\nNext steps:")
		util.Cyan.Println("- Run 'streakd run' to try a single run right away")
		util.Cyan.Println("- Run 'streakd daemon start' to start the background daemon")
		util.Cyan.Println("- Run 'streakd daemon status' to check daemon status")
	},
}
