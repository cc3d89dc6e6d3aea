package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/tweetvault/internal/domain"
	"github.com/MrSnakeDoc/tweetvault/internal/logger"
	"github.com/MrSnakeDoc/tweetvault/internal/metrics"
)

// DefaultBatchSize is the number of records whose media are fetched together.
const DefaultBatchSize = 5

// ProgressFunc is called once per finished unit with the running count.
type ProgressFunc func(completed, total int)

// Archiver downloads record media in sequential batches and zips them.
type Archiver struct {
	fetcher   Fetcher
	logger    logger.Logger
	batchSize int
}

// New creates an archiver. batchSize < 1 selects DefaultBatchSize.
func New(f Fetcher, log logger.Logger, batchSize int) *Archiver {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	return &Archiver{
		fetcher:   f,
		logger:    log,
		batchSize: batchSize,
	}
}

// fetched is the outcome of one unit.
type fetched struct {
	unit Unit
	data []byte
	ok   bool
}

// Archive fetches the media of records and writes a zip to w.
// A failed unit is logged and skipped. The zip is only written when at
// least one unit succeeded; the number of archived files is returned.
func (a *Archiver) Archive(ctx context.Context, records []*domain.Record, owner string, w io.Writer, onProgress ProgressFunc) (int, error) {
	candidates := Candidates(records)
	if len(candidates) == 0 {
		metrics.ArchiveRuns.WithLabelValues(metrics.ResultFailure).Inc()
		return 0, domain.ErrNoMediaFound
	}

	owner = OwnerLabel(owner)
	plans := make([][]Unit, len(candidates))
	total := 0
	for i, r := range candidates {
		plans[i] = PlanUnits(r, owner)
		total += len(plans[i])
	}
	dedupeNames(plans)

	a.logger.Info("archive started",
		logger.String("owner", owner),
		logger.Int("records", len(candidates)),
		logger.Int("units", total),
		logger.Int("batch_size", a.batchSize))

	var (
		mu        sync.Mutex
		completed int
		results   = make([]fetched, 0, total)
	)

	for start := 0; start < len(candidates); start += a.batchSize {
		end := min(start+a.batchSize, len(candidates))

		var g errgroup.Group
		for _, units := range plans[start:end] {
			for _, u := range units {
				g.Go(func() error {
					media, err := a.fetcher.Fetch(ctx, u.URL)
					metrics.IncMediaFetch(err == nil)
					if err != nil {
						a.logger.Warn("media fetch failed",
							logger.String("record_id", u.RecordID),
							logger.String("url", u.URL),
							logger.Error(err))
					}

					mu.Lock()
					defer mu.Unlock()
					results = append(results, fetched{unit: u, data: media.Data, ok: err == nil})
					completed++
					if onProgress != nil {
						onProgress(completed, total)
					}
					return nil
				})
			}
		}
		// units never return an error, Wait only settles the batch
		_ = g.Wait()
	}

	buf, count, err := zipResults(results)
	if err != nil {
		metrics.ArchiveRuns.WithLabelValues(metrics.ResultFailure).Inc()
		return 0, err
	}
	if count == 0 {
		metrics.ArchiveRuns.WithLabelValues(metrics.ResultFailure).Inc()
		a.logger.Error("archive failed, no media could be downloaded",
			logger.Int("units", total))
		return 0, domain.ErrAllDownloadsFailed
	}

	if _, err := buf.WriteTo(w); err != nil {
		metrics.ArchiveRuns.WithLabelValues(metrics.ResultFailure).Inc()
		return 0, fmt.Errorf("failed to write archive: %w", err)
	}

	result := metrics.ResultSuccess
	if count < total {
		result = metrics.ResultPartial
	}
	metrics.ArchiveRuns.WithLabelValues(result).Inc()
	a.logger.Info("archive complete",
		logger.String("owner", owner),
		logger.Int("archived", count),
		logger.Int("failed", total-count))
	return count, nil
}

// zipResults packs the successful units, ordered by file name.
func zipResults(results []fetched) (*bytes.Buffer, int, error) {
	sortByName(results)

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	count := 0
	for _, res := range results {
		if !res.ok {
			continue
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     res.unit.Name,
			Method:   zip.Deflate,
			Modified: res.unit.Modified,
		})
		if err != nil {
			return nil, 0, fmt.Errorf("failed to add %s to archive: %w", res.unit.Name, err)
		}
		if _, err := fw.Write(res.data); err != nil {
			return nil, 0, fmt.Errorf("failed to add %s to archive: %w", res.unit.Name, err)
		}
		count++
	}
	if err := zw.Close(); err != nil {
		return nil, 0, fmt.Errorf("failed to finalize archive: %w", err)
	}
	return buf, count, nil
}
