// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/zotmd/internal/export"
	"github.com/pdiddy/zotmd/internal/library"
	"github.com/pdiddy/zotmd/internal/render"
	"github.com/pdiddy/zotmd/internal/zotero"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export annotations and notes as per-item Markdown files",
	Long: `Export fetches all annotations and notes from the library, groups them
by parent item, and writes one Markdown file per item into the output
directory. Items that fail are listed in a failure report; the rest of
the batch continues.

With --offline the records come from the local snapshot written by a
previous pull instead of the API.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("output-dir", "", "directory for Markdown output (default zotero_output)")
	exportCmd.Flags().String("report", "", "path for the failure report (default failed_items.txt)")
	exportCmd.Flags().String("summary", "", "optional path for a YAML run summary")
	exportCmd.Flags().Bool("annotations", true, "include annotations (highlights and page notes)")
	exportCmd.Flags().Bool("notes", true, "include free-form notes")
	exportCmd.Flags().Bool("include-note-only", false, "also export items that have notes but no annotations")
	exportCmd.Flags().Bool("offline", false, "read from the local snapshot instead of the API")
	exportCmd.Flags().String("snapshot", "", "snapshot database path (default zotmd.db)")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	var src export.Source
	offline, _ := cmd.Flags().GetBool("offline")
	if offline {
		store, err := library.Open(snapshotConfig(cmd))
		if err != nil {
			return err
		}
		defer store.Close()
		src = store
	} else {
		libCfg, err := libraryConfig(cmd)
		if err != nil {
			return err
		}
		src = zotero.NewClient(libCfg)
	}

	exporter := export.New(src, render.NewHTMLConverter(), renderConfig(), exportConfig(cmd))

	summary, err := exporter.Run(context.Background(), os.Stdout)
	if err != nil {
		return err
	}

	if summary.HasFailures() {
		if err := export.WriteReport(exporter.Cfg.ReportPath, exporter.Failures()); err != nil {
			return err
		}
		fmt.Printf("Failure report saved to %s\n", exporter.Cfg.ReportPath)
	}

	if summaryPath, _ := cmd.Flags().GetString("summary"); summaryPath != "" {
		if err := export.WriteSummaryYAML(summaryPath, summary, exporter.Failures()); err != nil {
			return err
		}
	}

	if summary.HasFailures() {
		return fmt.Errorf("%d item(s) failed to export", summary.Failed)
	}
	return nil
}
