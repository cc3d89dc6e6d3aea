package importer

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/tweetvault/internal/domain"
	"github.com/MrSnakeDoc/tweetvault/internal/logger"
	"github.com/MrSnakeDoc/tweetvault/internal/metrics"
	"github.com/MrSnakeDoc/tweetvault/internal/sources/tweets"
	"github.com/MrSnakeDoc/tweetvault/internal/store"
)

// Result summarizes one successful import.
type Result struct {
	ImportID       string                  `json:"import_id"`
	FileName       string                  `json:"file_name"`
	Format         string                  `json:"format"`
	Count          int                     `json:"count"`
	Categories     map[domain.Category]int `json:"categories"`
	SkippedLines   int                     `json:"skipped_lines"`
	SkippedEntries int                     `json:"skipped_entries"`
}

// Importer normalizes export files and upserts the records in one call.
type Importer struct {
	normalizer *tweets.Normalizer
	store      store.Store
	logger     logger.Logger
}

// New creates an importer writing into s.
func New(s store.Store, log logger.Logger, opts ...tweets.Option) *Importer {
	return &Importer{
		normalizer: tweets.NewNormalizer(opts...),
		store:      s,
		logger:     log,
	}
}

// ImportFile reads the file at path and imports it.
func (im *Importer) ImportFile(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	defer metrics.ObserveImportDuration(start)

	records, report, err := im.normalizer.NormalizeFile(path)
	return im.save(ctx, filepath.Base(path), start, records, report, err)
}

// Import normalizes data and stores every record. Nothing is stored when
// normalization fails.
func (im *Importer) Import(ctx context.Context, data []byte, fileName string) (Result, error) {
	start := time.Now()
	defer metrics.ObserveImportDuration(start)

	records, report, err := im.normalizer.Normalize(data, fileName)
	return im.save(ctx, fileName, start, records, report, err)
}

// save upserts a normalized batch, or records the normalization failure.
func (im *Importer) save(ctx context.Context, fileName string, start time.Time, records []*domain.Record, report tweets.Report, err error) (Result, error) {
	if err != nil {
		metrics.ImportRuns.WithLabelValues(metrics.ResultFailure).Inc()
		im.logger.Warn("import rejected",
			logger.String("file", fileName),
			logger.Error(err))
		return Result{}, err
	}

	if report.SkippedLines > 0 {
		metrics.ImportSkippedLines.Add(float64(report.SkippedLines))
		im.logger.Warn("skipped unparsable lines",
			logger.String("file", fileName),
			logger.Int("skipped_lines", report.SkippedLines))
	}

	if err := im.store.Upsert(ctx, records); err != nil {
		metrics.ImportRuns.WithLabelValues(metrics.ResultFailure).Inc()
		var se *domain.StorageError
		if !errors.As(err, &se) {
			err = &domain.StorageError{Op: "upsert", Err: err}
		}
		im.logger.Error("failed to store imported records",
			logger.String("file", fileName),
			logger.Int("records", len(records)),
			logger.Error(err))
		return Result{}, err
	}

	res := Result{
		ImportID:       uuid.NewString(),
		FileName:       fileName,
		Format:         report.Format,
		Count:          len(records),
		Categories:     make(map[domain.Category]int, len(domain.Categories)),
		SkippedLines:   report.SkippedLines,
		SkippedEntries: report.SkippedEntries,
	}
	for _, r := range records {
		res.Categories[r.Category]++
	}
	for c, n := range res.Categories {
		metrics.RecordsImported.WithLabelValues(string(c)).Add(float64(n))
	}
	metrics.ImportRuns.WithLabelValues(metrics.ResultSuccess).Inc()

	im.logger.Info("import complete",
		logger.String("import_id", res.ImportID),
		logger.String("file", fileName),
		logger.String("format", res.Format),
		logger.Int("records", res.Count),
		logger.Duration("took", time.Since(start)))
	return res, nil
}
