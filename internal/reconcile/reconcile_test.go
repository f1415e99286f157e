package reconcile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediascribe/loglens/internal/model"
)

func sources(records map[string]model.DatabaseRecord, artifacts ...string) Sources {
	src := Sources{Records: records, Artifacts: map[string]struct{}{}}
	for _, a := range artifacts {
		src.Artifacts[a] = struct{}{}
	}
	return src
}

func TestCrossReferenceMissingArtifact(t *testing.T) {
	src := sources(map[string]model.DatabaseRecord{
		"abc123": {ID: "abc123", Filename: "talk.mp4", Status: "complete", CompletedAt: "2024-01-15 10:05:00"},
		"def456": {ID: "def456", Status: "failed"},
	})

	missing, orphaned := CrossReference(src)
	require.Len(t, missing, 1)
	assert.Equal(t, "abc123", missing[0].ID)
	assert.Equal(t, "talk.mp4", missing[0].Filename)
	assert.Equal(t, model.SeverityHigh, missing[0].Severity)
	assert.Empty(t, orphaned)
}

func TestCrossReferenceOnlyCompleteRecordsFlagged(t *testing.T) {
	src := sources(map[string]model.DatabaseRecord{
		"a": {ID: "a", Status: "failed"},
		"b": {ID: "b", Status: "processing"},
		"c": {ID: "c", Status: "unknown"},
	})

	missing, _ := CrossReference(src)
	assert.Empty(t, missing, "non-complete records never demand artifacts")
}

func TestCrossReferenceOrphans(t *testing.T) {
	src := sources(map[string]model.DatabaseRecord{
		"a": {ID: "a", Status: "complete"},
	}, "a", "zz", "mm")

	missing, orphaned := CrossReference(src)
	assert.Empty(t, missing)
	assert.Equal(t, []string{"mm", "zz"}, orphaned, "orphans are sorted")
}

func TestCrossReferenceDisjointAndSorted(t *testing.T) {
	src := sources(map[string]model.DatabaseRecord{
		"b": {ID: "b", Status: "complete"},
		"a": {ID: "a", Status: "complete"},
		"c": {ID: "c", Status: "complete"},
	}, "c", "orphan1")

	missing, orphaned := CrossReference(src)
	require.Len(t, missing, 2)
	assert.Equal(t, "a", missing[0].ID)
	assert.Equal(t, "b", missing[1].ID)
	assert.Equal(t, []string{"orphan1"}, orphaned)

	// An id can never appear in both result sets.
	orphanSet := map[string]struct{}{}
	for _, id := range orphaned {
		orphanSet[id] = struct{}{}
	}
	for _, m := range missing {
		_, both := orphanSet[m.ID]
		assert.False(t, both, "id %s in both sets", m.ID)
	}
}

func TestSummarize(t *testing.T) {
	summary := Summarize(map[string]model.DatabaseRecord{
		"a": {Status: "complete"},
		"b": {Status: "complete"},
		"c": {Status: "complete"},
		"d": {Status: "failed"},
	})

	assert.Equal(t, 4, summary.TotalRecords)
	assert.Equal(t, 3, summary.StatusCounts["complete"])
	assert.Equal(t, 1, summary.StatusCounts["failed"])
	assert.InDelta(t, 75.0, summary.SuccessRate, 0.001)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	assert.Equal(t, 0, summary.TotalRecords)
	assert.Zero(t, summary.SuccessRate)
}

func TestScanArtifacts(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "abc123"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "def456"), 0o755))
	// Plain files are not artifacts.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stray.txt"), []byte("x"), 0o644))

	artifacts, err := ScanArtifacts(dir)
	require.NoError(t, err)
	assert.Len(t, artifacts, 2)
	assert.Contains(t, artifacts, "abc123")
	assert.Contains(t, artifacts, "def456")
}

func TestLoadSourcesDegradesGracefully(t *testing.T) {
	// Neither the database nor the output directory exists.
	missingDir := filepath.Join(t.TempDir(), "nope")
	src := LoadSources(context.Background(),
		filepath.Join(missingDir, "processed.db"), missingDir, nil)

	assert.Empty(t, src.Records)
	assert.Empty(t, src.Artifacts)

	// The empty sources still reconcile to a clean integrity report.
	integrity := Integrity(src)
	assert.Empty(t, integrity.MissingRecords)
	assert.Empty(t, integrity.OrphanedEntries)
	assert.Equal(t, 0, integrity.OutputCount)
}

func TestIntegrity(t *testing.T) {
	src := sources(map[string]model.DatabaseRecord{
		"gone": {ID: "gone", Status: "complete"},
	}, "orphan")

	integrity := Integrity(src)
	require.Len(t, integrity.MissingRecords, 1)
	assert.Equal(t, "gone", integrity.MissingRecords[0].ID)
	assert.Equal(t, []string{"orphan"}, integrity.OrphanedEntries)
	assert.Equal(t, 1, integrity.OutputCount)
}
