package importers

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/brewhouse/cafe-admin/internal/tabular"
)

// Outcome is what happened to a single row.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeCreated
	OutcomeUpdated
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeUpdated:
		return "updated"
	case OutcomeFailed:
		return "failed"
	default:
		return "pending"
	}
}

// BatchState is the lifecycle of a Batch.
type BatchState int32

const (
	BatchIdle BatchState = iota
	BatchRunning
	BatchCompleted
)

func (s BatchState) String() string {
	switch s {
	case BatchRunning:
		return "running"
	case BatchCompleted:
		return "completed"
	default:
		return "idle"
	}
}

// ImportRow is the working state of one data row. It lives only for the
// duration of a batch.
type ImportRow[D any] struct {
	Line     int
	Position int
	Fields   map[string]string
	Draft    D
	ID       string
	Key      string
	Outcome  Outcome
	Err      error
}

// prepareFunc maps and resolves a row, filling Draft, ID and Key.
type prepareFunc[D any] func(row *ImportRow[D]) error

// Batch imports the data rows of one CSV document. A Batch runs once.
type Batch[D any] struct {
	kind        string
	rows        []*ImportRow[D]
	prepare     prepareFunc[D]
	reconciler  *reconciler[D]
	concurrency int
	state       atomic.Int32
}

func newBatch[D any](kind, csvText string, prepare prepareFunc[D], rec *reconciler[D], concurrency int) *Batch[D] {
	b := &Batch[D]{
		kind:        kind,
		prepare:     prepare,
		reconciler:  rec,
		concurrency: concurrency,
	}

	records := tabular.DecodeRecords(csvText)
	if len(records) == 0 {
		return b
	}

	headers := NormalizeHeaders(records[0].Cells)
	for i, rec := range records[1:] {
		b.rows = append(b.rows, &ImportRow[D]{
			Line:     rec.Line,
			Position: i + 1,
			Fields:   FieldMap(headers, rec.Cells),
		})
	}
	return b
}

// State reports where the batch is in its lifecycle.
func (b *Batch[D]) State() BatchState {
	return BatchState(b.state.Load())
}

// Len is the number of data rows in the batch.
func (b *Batch[D]) Len() int {
	return len(b.rows)
}

// Run processes every row and returns the aggregated result. Row failures
// never stop the batch. Only an abort (store unavailable, cancellation or a
// panic) leaves rows unprocessed; they are reported under one message.
func (b *Batch[D]) Run(ctx context.Context) ImportResult {
	if !b.state.CompareAndSwap(int32(BatchIdle), int32(BatchRunning)) {
		return ImportResult{Errors: []string{fmt.Sprintf("%s batch already %s", b.kind, b.State())}}
	}
	defer b.state.Store(int32(BatchCompleted))

	logger := zap.L().With(zap.String("kind", b.kind), zap.Int("rows", len(b.rows)))
	logger.Info("Import batch started", zap.Int("concurrency", b.concurrency))

	var abortErr error
	if b.concurrency > 1 {
		abortErr = b.runConcurrent(ctx)
	} else {
		abortErr = b.runSequential(ctx)
	}

	result := b.aggregate(abortErr)
	for _, row := range b.rows {
		if row.Outcome == OutcomeFailed {
			logger.Debug("Import row failed", zap.Int("line", row.Line), zap.Error(row.Err))
		}
	}
	if abortErr != nil {
		logger.Warn("Import batch aborted", zap.Error(abortErr))
	}
	logger.Info("Import batch completed",
		zap.Int("success", result.SuccessCount),
		zap.Int("failed", result.FailedCount),
		zap.Int("created", result.CreatedCount),
		zap.Int("updated", result.UpdatedCount),
	)
	return result
}

func (b *Batch[D]) runSequential(ctx context.Context) error {
	for _, row := range b.rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.process(ctx, row); err != nil {
			return err
		}
	}
	return nil
}

// runConcurrent prepares every row up front, then commits groups of rows in
// parallel. Rows that target the same entity or natural key share a group and
// are committed in source order by one worker.
func (b *Batch[D]) runConcurrent(ctx context.Context) error {
	var groups [][]*ImportRow[D]
	groupIndex := make(map[string]int)

	for _, row := range b.rows {
		if err := b.safely(row, func() error { return b.prepareRow(row) }); err != nil {
			return err
		}
		if row.Outcome == OutcomeFailed {
			continue
		}
		key := b.reconciler.groupKey(row.ID, row.Key)
		i, ok := groupIndex[key]
		if !ok {
			i = len(groups)
			groupIndex[key] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], row)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for _, group := range groups {
		g.Go(func() error {
			for _, row := range group {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := b.safely(row, func() error { return b.commitRow(gctx, row) }); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// process runs map, resolve and reconcile for one row.
func (b *Batch[D]) process(ctx context.Context, row *ImportRow[D]) error {
	return b.safely(row, func() error {
		if err := b.prepareRow(row); err != nil {
			return err
		}
		if row.Outcome == OutcomeFailed {
			return nil
		}
		return b.commitRow(ctx, row)
	})
}

func (b *Batch[D]) prepareRow(row *ImportRow[D]) error {
	if err := b.prepare(row); err != nil {
		if isAbort(err) {
			return err
		}
		row.Outcome, row.Err = OutcomeFailed, err
	}
	return nil
}

func (b *Batch[D]) commitRow(ctx context.Context, row *ImportRow[D]) error {
	outcome, err := b.reconciler.reconcile(ctx, row.ID, row.Key, row.Draft)
	if err != nil && isAbort(err) {
		return err
	}
	row.Outcome, row.Err = outcome, err
	return nil
}

// safely runs fn and turns a panic or an abort into a batch abort, leaving
// the row unprocessed.
func (b *Batch[D]) safely(row *ImportRow[D], fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrBatchAborted, r)
		}
		if err != nil {
			row.Outcome, row.Err = OutcomePending, nil
		}
	}()
	return fn()
}

func (b *Batch[D]) aggregate(abortErr error) ImportResult {
	result := newImportResult()
	unprocessed := 0

	for _, row := range b.rows {
		switch row.Outcome {
		case OutcomeCreated, OutcomeUpdated:
			result.recordOutcome(row.Outcome)
		case OutcomeFailed:
			result.recordFailure(row.Line, row.Err)
		default:
			unprocessed++
		}
	}

	if abortErr != nil {
		result.recordAbort(unprocessed, abortErr)
	}
	return result
}
