package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/homefix/homefix/app"
	"github.com/homefix/homefix/backend"
	"github.com/homefix/homefix/commands"
	"github.com/homefix/homefix/config"
	"github.com/homefix/homefix/keys"
	"github.com/homefix/homefix/log"
	"github.com/homefix/homefix/prefs"
)

var (
	version = "1.0.0"
	rootCmd = &cobra.Command{
		Use:   "homefix",
		Short: "homefix - A terminal home repair assistant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			log.Initialize(false)
			defer log.Close()

			w, err := backend.NewWire(commands.Options())
			if err != nil {
				return err
			}
			keys.UpdateKeyMappings(w.Config.KeyMappings)

			return app.Run(ctx, w)
		},
	}

	resetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Forget the saved server address and display preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize(false)
			defer log.Close()

			state, err := config.NewStateStore("")
			if err != nil {
				return fmt.Errorf("failed to open state store: %w", err)
			}
			if err := removeIfExists(state.Path()); err != nil {
				return fmt.Errorf("failed to reset state: %w", err)
			}
			fmt.Println("Saved server address has been cleared")

			store, err := prefs.NewFileStore("")
			if err != nil {
				return fmt.Errorf("failed to open preferences: %w", err)
			}
			if err := removeIfExists(store.Path()); err != nil {
				return fmt.Errorf("failed to reset preferences: %w", err)
			}
			fmt.Println("Display preferences have been reset")
			return nil
		},
	}

	debugCmd = &cobra.Command{
		Use:   "debug",
		Short: "Print debug information like config paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()

			configDir, err := config.GetConfigDir()
			if err != nil {
				return fmt.Errorf("failed to get config directory: %w", err)
			}
			configJson, _ := json.MarshalIndent(cfg, "", "  ")

			fmt.Printf("Config: %s\n%s\n", filepath.Join(configDir, config.ConfigFileName), configJson)

			state, err := config.NewStateStore(configDir)
			if err != nil {
				return fmt.Errorf("failed to open state store: %w", err)
			}
			st, err := state.Load()
			if err != nil {
				return fmt.Errorf("failed to read state: %w", err)
			}
			stateJson, _ := json.MarshalIndent(st, "", "  ")
			fmt.Printf("State: %s\n%s\n", state.Path(), stateJson)
			fmt.Printf("Log: %s\n", log.FileName())
			return nil
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of homefix",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("homefix version %s\n", version)
		},
	}
)

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func init() {
	commands.AddGlobalFlags(rootCmd)

	rootCmd.AddCommand(debugCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(commands.AskCommand())
	rootCmd.AddCommand(commands.AnalyzeCommand())
	rootCmd.AddCommand(commands.DiscoverCommand())
	rootCmd.AddCommand(commands.PrefsCommand())
	rootCmd.AddCommand(commands.MCPCommand(version))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
