package ingest

import (
	"context"

	"go.uber.org/zap"

	"github.com/hmrtn/gtc-api/internal/domain"
	"github.com/hmrtn/gtc-api/internal/repository"
)

// DefaultBatchSize bounds the rows sent in one insert statement.
const DefaultBatchSize = 1000

// LoadResult summarizes one load. Attempted minus Inserted is the number
// of rows skipped as already present.
type LoadResult struct {
	Batches   int
	Attempted int
	Inserted  int64
}

// Loader writes rows in bounded, insert-or-ignore batches
type Loader struct {
	writer    repository.RecordWriter
	batchSize int
	log       *zap.Logger
}

// NewLoader creates a new loader
func NewLoader(writer repository.RecordWriter, batchSize int, log *zap.Logger) *Loader {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Loader{
		writer:    writer,
		batchSize: batchSize,
		log:       log,
	}
}

// BatchSize returns the configured batch limit
func (l *Loader) BatchSize() int {
	return l.batchSize
}

// Load splits rows into consecutive batches and inserts them in order.
// The first failing batch stops the load; earlier batches remain written.
func (l *Loader) Load(ctx context.Context, kind domain.Kind, rows [][]interface{}) (LoadResult, error) {
	var result LoadResult

	for start := 0; start < len(rows); start += l.batchSize {
		end := start + l.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		inserted, err := l.writer.InsertBatch(ctx, kind, batch)
		if err != nil {
			l.log.Error("Failed to insert batch",
				zap.String("kind", string(kind)),
				zap.Int("batch", result.Batches),
				zap.Int("size", len(batch)),
				zap.Error(err))
			return result, &StoreWriteError{Kind: kind, Batch: result.Batches, Size: len(batch), Err: err}
		}

		result.Batches++
		result.Attempted += len(batch)
		result.Inserted += inserted

		l.log.Debug("Batch written",
			zap.String("kind", string(kind)),
			zap.Int("size", len(batch)),
			zap.Int64("inserted", inserted))
	}

	return result, nil
}

// LoadRecords converts records to rows in column order and loads them
func LoadRecords[T domain.Record[T]](ctx context.Context, l *Loader, kind domain.Kind, records []T) (LoadResult, error) {
	rows := make([][]interface{}, len(records))
	for i, r := range records {
		rows[i] = r.Values()
	}
	return l.Load(ctx, kind, rows)
}
