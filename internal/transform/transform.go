// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package transform normalizes column labels and stamps each row with the
// processing date.
package transform

import (
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/pdiddy/csv2parquet/internal/table"
	"github.com/pdiddy/csv2parquet/pkg/types"
)

// ProcessingDateColumn is the label of the appended date column.
const ProcessingDateColumn = "processing_date"

// Options control a single transform.
type Options struct {
	// Today supplies the processing date. Only its calendar date in its own
	// location is used. Zero means time.Now().
	Today time.Time

	// Policy resolves label collisions (default suffix).
	Policy types.CollisionPolicy

	// Allocator backs the new date column (default memory.DefaultAllocator).
	Allocator memory.Allocator
}

// Transform returns a new Dataset with normalized labels and a trailing
// processing_date column. Column values and order are unchanged. ds is not
// modified and still has to be released by the caller.
func Transform(ds *table.Dataset, opts Options) (*table.Dataset, error) {
	cols, err := Rename(ds.Columns(), opts.Policy)
	if err != nil {
		return nil, err
	}

	rec := ds.Record()
	schema := rec.Schema()

	fields := make([]arrow.Field, 0, len(cols)+1)
	arrays := make([]arrow.Array, 0, len(cols)+1)
	for _, c := range cols {
		f := schema.Field(c.Source)
		f.Name = c.Name
		fields = append(fields, f)
		arrays = append(arrays, rec.Column(c.Source))
	}

	dates := dateColumn(allocator(opts.Allocator), processingDate(opts.Today), rec.NumRows())
	defer dates.Release()

	fields = append(fields, arrow.Field{Name: ProcessingDateColumn, Type: arrow.FixedWidthTypes.Date32})
	arrays = append(arrays, dates)

	md := schema.Metadata()
	out := array.NewRecord(arrow.NewSchema(fields, &md), arrays, rec.NumRows())
	return table.New(out), nil
}

// processingDate converts t to the Arrow day count of its calendar date.
func processingDate(t time.Time) arrow.Date32 {
	if t.IsZero() {
		t = time.Now()
	}
	y, m, d := t.Date()
	return arrow.Date32FromTime(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func dateColumn(mem memory.Allocator, day arrow.Date32, rows int64) arrow.Array {
	b := array.NewDate32Builder(mem)
	defer b.Release()

	b.Reserve(int(rows))
	for i := int64(0); i < rows; i++ {
		b.Append(day)
	}
	return b.NewArray()
}

func allocator(mem memory.Allocator) memory.Allocator {
	if mem == nil {
		return memory.DefaultAllocator
	}
	return mem
}
