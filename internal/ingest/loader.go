// Package ingest loads the accident and taxi-trip CSV exports into the database.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pzaman/portfolio-backend-go/internal/models"
)

// DefaultBatchSize is the number of rows written per transaction.
const DefaultBatchSize = 1000

// ErrUnknownDataset is returned for a dataset name outside models.Datasets.
var ErrUnknownDataset = errors.New("unknown dataset")

// Store persists parsed rows. Each Insert call is one transaction and returns the
// number of rows actually written.
type Store interface {
	CreateBatch(ctx context.Context, b *models.IngestBatch) error
	FinishBatch(ctx context.Context, b *models.IngestBatch) error
	InsertCharacteristics(ctx context.Context, batchID string, rows []models.AccidentCharacteristic) (int, error)
	InsertUsers(ctx context.Context, batchID string, rows []models.AccidentUser) (int, error)
	InsertTaxiTrips(ctx context.Context, batchID string, rows []models.TaxiTrip) (int, error)
}

// Loader streams a CSV file into a Store.
type Loader struct {
	store     Store
	batchSize int
	logger    *slog.Logger
}

// NewLoader creates a loader writing DefaultBatchSize rows per transaction.
func NewLoader(store Store, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{store: store, batchSize: DefaultBatchSize, logger: logger}
}

// WithBatchSize overrides the rows-per-transaction count.
func (l *Loader) WithBatchSize(n int) *Loader {
	if n > 0 {
		l.batchSize = n
	}
	return l
}

// Load reads dataset rows from r. Rows that fail to parse, or taxi trips that
// fail the cleaning rules, are counted as skipped. source names the input in the
// batch record.
func (l *Loader) Load(ctx context.Context, dataset, source string, r io.Reader) (*models.IngestBatch, error) {
	batch := &models.IngestBatch{
		ID:      uuid.NewString(),
		Dataset: dataset,
		Source:  source,
	}

	var err error
	switch dataset {
	case models.DatasetAccidentCharacteristics:
		err = l.start(ctx, batch, func() error {
			return loadRows(ctx, l, batch, r, characteristicColumns, []string{"num_acc"},
				func(rec record) (models.AccidentCharacteristic, bool, error) {
					c, err := parseCharacteristic(rec)
					return c, true, err
				},
				l.store.InsertCharacteristics)
		})
	case models.DatasetAccidentUsers:
		err = l.start(ctx, batch, func() error {
			return loadRows(ctx, l, batch, r, userColumns, []string{"num_acc"},
				func(rec record) (models.AccidentUser, bool, error) {
					u, err := parseUser(rec)
					return u, true, err
				},
				l.store.InsertUsers)
		})
	case models.DatasetTaxiTrips:
		err = l.start(ctx, batch, func() error {
			return loadRows(ctx, l, batch, r, taxiColumns, taxiRequired,
				func(rec record) (models.TaxiTrip, bool, error) {
					t, err := parseTaxiTrip(rec)
					if err != nil {
						return t, false, err
					}
					return t, t.Clean(), nil
				},
				l.store.InsertTaxiTrips)
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDataset, dataset)
	}
	if err != nil {
		return batch, err
	}

	l.logger.Info("ingest finished",
		"dataset", dataset,
		"batch_id", batch.ID,
		"read", batch.RowsRead,
		"inserted", batch.RowsInserted,
		"skipped", batch.RowsSkipped,
	)
	return batch, nil
}

func (l *Loader) start(ctx context.Context, batch *models.IngestBatch, run func() error) error {
	if err := l.store.CreateBatch(ctx, batch); err != nil {
		return fmt.Errorf("create ingest batch: %w", err)
	}
	runErr := run()
	if err := l.store.FinishBatch(ctx, batch); err != nil && runErr == nil {
		runErr = fmt.Errorf("finish ingest batch: %w", err)
	}
	return runErr
}

// loadRows parses every record with parse and flushes full buffers with insert.
// parse returns keep=false for rows that parse but must not be stored.
func loadRows[T any](
	ctx context.Context,
	l *Loader,
	batch *models.IngestBatch,
	r io.Reader,
	cols columns,
	required []string,
	parse func(record) (T, bool, error),
	insert func(context.Context, string, []T) (int, error),
) error {
	table, err := newTableReader(r, cols, required...)
	if err != nil {
		return err
	}

	buf := make([]T, 0, l.batchSize)
	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		n, err := insert(ctx, batch.ID, buf)
		if err != nil {
			return fmt.Errorf("insert %s rows: %w", batch.Dataset, err)
		}
		batch.RowsInserted += n
		batch.RowsSkipped += len(buf) - n
		buf = buf[:0]
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := table.next()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if err != nil && !errors.As(err, &parseErr) {
			return fmt.Errorf("read %s: %w", batch.Dataset, err)
		}
		batch.RowsRead++
		if err != nil {
			batch.RowsSkipped++
			l.logger.Debug("skipping unreadable row", "dataset", batch.Dataset, "row", batch.RowsRead, "error", err)
			continue
		}

		row, keep, err := parse(rec)
		if err != nil {
			batch.RowsSkipped++
			l.logger.Debug("skipping invalid row", "dataset", batch.Dataset, "row", batch.RowsRead, "error", err)
			continue
		}
		if !keep {
			batch.RowsSkipped++
			continue
		}

		buf = append(buf, row)
		if len(buf) >= l.batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}
