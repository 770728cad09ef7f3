// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert runs the extract, transform and load stages for one input
// file.
package convert

import (
	"context"
	"fmt"
	"time"

	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/pdiddy/csv2parquet/internal/extract"
	"github.com/pdiddy/csv2parquet/internal/load"
	"github.com/pdiddy/csv2parquet/internal/notify"
	"github.com/pdiddy/csv2parquet/internal/storage"
	"github.com/pdiddy/csv2parquet/internal/transform"
	"github.com/pdiddy/csv2parquet/pkg/types"
)

// StageError records which stage failed.
type StageError struct {
	Stage types.Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Result describes a completed conversion.
type Result struct {
	Input   string
	Output  string
	Columns []string
	Rows    int64
	Bytes   int64
}

// Pipeline converts delimited text files into Parquet. The zero value is not
// usable; Store must be set.
type Pipeline struct {
	Store storage.Store

	// Policy resolves column label collisions (default suffix).
	Policy types.CollisionPolicy

	// Now supplies the processing date (default time.Now).
	Now func() time.Time

	// Allocator backs all Arrow buffers (default memory.DefaultAllocator).
	Allocator memory.Allocator

	// Notifier receives progress and load failures. May be nil.
	Notifier *notify.Notifier
}

// Run converts the file at input and writes the result to output. A failure
// is returned as a *StageError.
func (p *Pipeline) Run(ctx context.Context, input, output string) (Result, error) {
	return p.run(ctx, p.Notifier, input, output)
}

// RunWith is Run with a caller-supplied notifier, used by the dispatcher to
// tag lines with the current invocation.
func (p *Pipeline) RunWith(ctx context.Context, n *notify.Notifier, input, output string) (Result, error) {
	return p.run(ctx, n, input, output)
}

func (p *Pipeline) run(ctx context.Context, n *notify.Notifier, input, output string) (Result, error) {
	inLoc, err := storage.ParseLocator(input)
	if err != nil {
		return Result{}, &StageError{Stage: types.StageExtract, Err: fmt.Errorf("%w: %w", extract.ErrResourceUnavailable, err)}
	}
	outLoc, err := storage.ParseLocator(output)
	if err != nil {
		return Result{}, &StageError{Stage: types.StageLoad, Err: fmt.Errorf("%w: %w", load.ErrLoad, err)}
	}

	raw, err := extract.Extract(ctx, p.Store, inLoc, extract.Options{Allocator: p.Allocator})
	if err != nil {
		return Result{}, &StageError{Stage: types.StageExtract, Err: err}
	}
	defer raw.Release()
	n.Debugf("extracted %d rows, columns %v", raw.NumRows(), raw.Columns())

	ds, err := transform.Transform(raw, transform.Options{
		Today:     p.now(),
		Policy:    p.Policy,
		Allocator: p.Allocator,
	})
	if err != nil {
		return Result{}, &StageError{Stage: types.StageTransform, Err: err}
	}
	defer ds.Release()
	n.Debugf("transformed columns %v", ds.Columns())

	done, err := load.Load(ctx, p.Store, ds, outLoc, n, load.Options{Allocator: p.Allocator})
	if err != nil {
		return Result{}, &StageError{Stage: types.StageLoad, Err: err}
	}

	return Result{
		Input:   inLoc.String(),
		Output:  done.Output,
		Columns: ds.Columns(),
		Rows:    done.Rows,
		Bytes:   done.Bytes,
	}, nil
}

func (p *Pipeline) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}
