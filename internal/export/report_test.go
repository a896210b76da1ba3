// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.yaml.in/yaml/v3"
)

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failed_items.txt")
	failures := []Failure{
		{Filename: "Paper One.md", ItemKey: "KEY1", Err: errors.New("no title")},
		{Filename: "Paper Two.md", ItemKey: "KEY2", Err: errors.New("disk full")},
	}

	require.NoError(t, WriteReport(path, failures))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Paper One.md | KEY1\nPaper Two.md | KEY2\n", string(data))
}

func TestWriteReportSkipsEmptyFailureList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failed_items.txt")

	require.NoError(t, WriteReport(path, nil))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "report file should not exist for a clean run")
}

func TestWriteSummaryYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.yaml")
	s := Summary{Written: 3, Failed: 1, Warnings: 2}
	failures := []Failure{{Filename: "X.md", ItemKey: "KEY9", Err: errors.New("boom")}}

	require.NoError(t, WriteSummaryYAML(path, s, failures))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got reportSummary
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, 3, got.Written)
	assert.Equal(t, 1, got.Failed)
	assert.Equal(t, 2, got.Warnings)
	require.Len(t, got.Failures, 1)
	assert.Equal(t, "KEY9", got.Failures[0].ItemKey)
	assert.Equal(t, "boom", got.Failures[0].Reason)
}
