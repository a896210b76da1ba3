// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the zotmd CLI, which exports a
// Zotero library's annotations and notes as per-item Markdown files.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/zotmd/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, then the secret value for
// key, then "".
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the zotmd CLI.
var rootCmd = &cobra.Command{
	Use:   "zotmd",
	Short: "Export Zotero annotations and notes to Markdown",
	Long: `zotmd reads a Zotero library through the Zotero Web API, groups
highlights, page notes, and free-form notes by their parent item, and
writes one Markdown file per item with Metadata, Notes, and Highlights
sections.

Use export for a full run, or pull to cache the library in a local
snapshot for offline exports.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./zotmd.yaml or ~/.config/zotmd/config.yaml)")
	rootCmd.PersistentFlags().String("library-id", "", "Zotero user or group library ID")
	rootCmd.PersistentFlags().String("library-type", "", "Zotero library type: user or group (default user)")
	rootCmd.PersistentFlags().String("api-key", "", "Zotero API key (https://www.zotero.org/settings/keys)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("zotmd")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "zotmd"))
		}
	}

	viper.SetEnvPrefix("ZOTMD")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
