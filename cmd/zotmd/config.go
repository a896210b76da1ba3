// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/zotmd/pkg/types"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultUserAgent   = "zotmd/0.1"
	defaultLibraryType = "user"
	defaultSnapshot    = "zotmd.db"
)

// libraryConfig resolves library identity and credentials: flags win,
// then the config file, then .secrets/ files.
func libraryConfig(cmd *cobra.Command) (types.LibraryConfig, error) {
	libraryID, _ := cmd.Flags().GetString("library-id")
	if libraryID == "" {
		libraryID = viper.GetString("library.id")
	}
	libraryID = secretDefault("zotero-library-id", libraryID)
	if libraryID == "" {
		return types.LibraryConfig{}, fmt.Errorf("library ID required: use --library-id, library.id in the config file, or .secrets/zotero-library-id")
	}

	libraryType, _ := cmd.Flags().GetString("library-type")
	if libraryType == "" {
		libraryType = viper.GetString("library.type")
	}
	if libraryType == "" {
		libraryType = defaultLibraryType
	}
	if libraryType != "user" && libraryType != "group" {
		return types.LibraryConfig{}, fmt.Errorf("invalid library type %q: use user or group", libraryType)
	}

	apiKey, _ := cmd.Flags().GetString("api-key")
	if apiKey == "" {
		apiKey = viper.GetString("library.api_key")
	}
	apiKey = secretDefault("zotero-api-key", apiKey)

	timeout := viper.GetDuration("library.timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return types.LibraryConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		LibraryID:   libraryID,
		LibraryType: libraryType,
		APIKey:      apiKey,
		MaxRetries:  viper.GetInt("library.max_retries"),
	}, nil
}

// renderConfig resolves formatting options from the config file over the
// shipped defaults.
func renderConfig() types.RenderConfig {
	cfg := types.DefaultRenderConfig()
	if viper.IsSet("render.convert_tags_to_internal_links") {
		cfg.ConvertTagsToInternalLinks = viper.GetBool("render.convert_tags_to_internal_links")
	}
	if viper.IsSet("render.no_link_tags") {
		cfg.NoLinkTags = viper.GetStringSlice("render.no_link_tags")
	}
	if viper.IsSet("render.include_highlight_date") {
		cfg.IncludeHighlightDate = viper.GetBool("render.include_highlight_date")
	}
	if viper.IsSet("render.hide_highlight_date_in_preview") {
		cfg.HideHighlightDateInPreview = viper.GetBool("render.hide_highlight_date_in_preview")
	}
	return cfg
}

// exportConfig resolves batch settings: flags win over the config file
// over the shipped defaults.
func exportConfig(cmd *cobra.Command) types.ExportConfig {
	cfg := types.DefaultExportConfig()
	if viper.IsSet("export.output_dir") {
		cfg.OutputDir = viper.GetString("export.output_dir")
	}
	if viper.IsSet("export.report_path") {
		cfg.ReportPath = viper.GetString("export.report_path")
	}
	if viper.IsSet("export.include_annotations") {
		cfg.IncludeAnnotations = viper.GetBool("export.include_annotations")
	}
	if viper.IsSet("export.include_notes") {
		cfg.IncludeNotes = viper.GetBool("export.include_notes")
	}
	if viper.IsSet("export.include_note_only_items") {
		cfg.IncludeNoteOnlyItems = viper.GetBool("export.include_note_only_items")
	}

	if cmd.Flags().Changed("output-dir") {
		cfg.OutputDir, _ = cmd.Flags().GetString("output-dir")
	}
	if cmd.Flags().Changed("report") {
		cfg.ReportPath, _ = cmd.Flags().GetString("report")
	}
	if cmd.Flags().Changed("annotations") {
		cfg.IncludeAnnotations, _ = cmd.Flags().GetBool("annotations")
	}
	if cmd.Flags().Changed("notes") {
		cfg.IncludeNotes, _ = cmd.Flags().GetBool("notes")
	}
	if cmd.Flags().Changed("include-note-only") {
		cfg.IncludeNoteOnlyItems, _ = cmd.Flags().GetBool("include-note-only")
	}
	return cfg
}

// snapshotConfig resolves the snapshot database path.
func snapshotConfig(cmd *cobra.Command) types.SnapshotConfig {
	path, _ := cmd.Flags().GetString("snapshot")
	if path == "" {
		path = viper.GetString("snapshot.path")
	}
	if path == "" {
		path = defaultSnapshot
	}
	return types.SnapshotConfig{Path: path}
}
