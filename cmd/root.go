/* root.go
 * Contains the root command and the flags shared by every command. For details about the pipeline see `readme.md`
 * Usage: toornament-stats --tournament <name> update all && toornament-stats --tournament <name> stats players
 */

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	tournamentFlag string
	envFile        string
	tournamentsDir string
	workers        int
	logLevel       string
)

var rootCmd = &cobra.Command{
	Use:   "toornament-stats",
	Short: "League of Legends tournament statistics",
	Long: "Download the games of a tournament roster from the Riot api, store them in MongoDB and compute " +
		"per player, per role statistics and scores.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&tournamentFlag, "tournament", "t", "", "tournament name, defaults to TOORNAMENT_NAME")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "path to the .env file")
	rootCmd.PersistentFlags().StringVar(&tournamentsDir, "dir", "tournaments", "directory holding one folder per tournament")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "number of matches flattened in parallel, defaults to 4")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level, defaults to LOG_LEVEL or info")

	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(botCmd)
	rootCmd.AddCommand(serveCmd)
}

// setup loads the .env file and configures logging before any command runs
func setup(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(envFile); err != nil {
		// a missing default .env is fine when the variables come from the environment
		if !errors.Is(err, fs.ErrNotExist) || cmd.Flags().Changed("env") {
			return fmt.Errorf("error loading %s: %w", envFile, err)
		}
	}
	return configureLogging(logLevel, os.Getenv)
}
