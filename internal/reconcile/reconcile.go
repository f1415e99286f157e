package reconcile

import (
	"context"
	"os"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mediascribe/loglens/internal/model"
)

// StatusComplete is the record status whose artifacts must exist on disk.
const StatusComplete = "complete"

// Sources holds the two independently loaded ground-truth collections.
type Sources struct {
	Records   map[string]model.DatabaseRecord
	Artifacts map[string]struct{}
}

// ScanArtifacts treats each immediate subdirectory of dir as one processed
// artifact identifier.
func ScanArtifacts(dir string) (map[string]struct{}, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string]struct{})
	for _, entry := range entries {
		if entry.IsDir() {
			artifacts[entry.Name()] = struct{}{}
		}
	}
	return artifacts, nil
}

// LoadSources loads the record store and the artifact listing in parallel.
// Either source missing or failing is non-fatal: it contributes empty data
// and the degradation is logged. Both loads complete before this returns.
func LoadSources(ctx context.Context, dbPath, outputDir string, logger *zap.Logger) Sources {
	if logger == nil {
		logger = zap.NewNop()
	}

	src := Sources{
		Records:   map[string]model.DatabaseRecord{},
		Artifacts: map[string]struct{}{},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if _, err := os.Stat(dbPath); err != nil {
			logger.Info("record store not found, skipping", zap.String("path", dbPath))
			return nil
		}
		store, err := OpenStore(dbPath, logger)
		if err != nil {
			logger.Warn("could not open record store", zap.Error(err))
			return nil
		}
		defer store.Close()

		records, err := store.Records(ctx)
		if err != nil {
			logger.Warn("could not read record store", zap.Error(err))
			return nil
		}
		src.Records = records
		return nil
	})

	g.Go(func() error {
		artifacts, err := ScanArtifacts(outputDir)
		if err != nil {
			logger.Info("output directory not scannable, skipping",
				zap.String("path", outputDir), zap.Error(err))
			return nil
		}
		src.Artifacts = artifacts
		return nil
	})

	// Loads only log failures, they never return errors.
	_ = g.Wait()
	return src
}

// CrossReference computes the pure two-way set difference: records marked
// complete with no artifact directory, and artifact directories with no
// record. The two result sets are disjoint by construction.
func CrossReference(src Sources) ([]model.MissingRecord, []string) {
	var missing []model.MissingRecord
	for id, record := range src.Records {
		if record.Status != StatusComplete {
			continue
		}
		if _, ok := src.Artifacts[id]; ok {
			continue
		}
		missing = append(missing, model.MissingRecord{
			ID:          id,
			Filename:    record.Filename,
			Status:      record.Status,
			CompletedAt: record.CompletedAt,
			Severity:    model.SeverityHigh,
		})
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i].ID < missing[j].ID })

	var orphaned []string
	for id := range src.Artifacts {
		if _, ok := src.Records[id]; !ok {
			orphaned = append(orphaned, id)
		}
	}
	sort.Strings(orphaned)

	return missing, orphaned
}

// Summarize builds the status histogram and success rate over the loaded
// records.
func Summarize(records map[string]model.DatabaseRecord) model.DatabaseSummary {
	summary := model.DatabaseSummary{
		TotalRecords: len(records),
		StatusCounts: map[string]int{},
	}
	if len(records) == 0 {
		return summary
	}

	complete := 0
	for _, record := range records {
		summary.StatusCounts[record.Status]++
		if record.Status == StatusComplete {
			complete++
		}
	}
	summary.SuccessRate = float64(complete) / float64(len(records)) * 100
	return summary
}

// Integrity runs the full reconciliation and packages the output.
func Integrity(src Sources) model.DataIntegrity {
	missing, orphaned := CrossReference(src)
	if missing == nil {
		missing = []model.MissingRecord{}
	}
	if orphaned == nil {
		orphaned = []string{}
	}
	return model.DataIntegrity{
		MissingRecords:  missing,
		OrphanedEntries: orphaned,
		OutputCount:     len(src.Artifacts),
	}
}
