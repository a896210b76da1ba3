// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/zotmd/internal/library"
	"github.com/pdiddy/zotmd/internal/zotero"
)

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Cache the library in a local snapshot for offline exports",
	Long: `Pull fetches all annotations, notes, and referenced item records from
the library and stores them in a local SQLite snapshot. A later
"export --offline" reads the snapshot instead of the API.`,
	RunE: runPull,
}

func init() {
	pullCmd.Flags().String("snapshot", "", "snapshot database path (default zotmd.db)")

	rootCmd.AddCommand(pullCmd)
}

func runPull(cmd *cobra.Command, args []string) error {
	libCfg, err := libraryConfig(cmd)
	if err != nil {
		return err
	}

	store, err := library.Open(snapshotConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	client := zotero.NewClient(libCfg)
	_, err = store.Pull(context.Background(), client, os.Stdout)
	return err
}
