// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package table holds the in-memory tabular dataset passed between the
// extract, transform and load stages.
package table

import (
	"github.com/apache/arrow/go/v17/arrow"
)

// Dataset is an ordered set of named, equal-length columns backed by a
// single Arrow record. A Dataset owns one reference to its record; call
// Release when done with it.
type Dataset struct {
	record arrow.Record
}

// New wraps rec. The Dataset takes over the caller's reference.
func New(rec arrow.Record) *Dataset {
	return &Dataset{record: rec}
}

// Record returns the underlying record. The reference stays owned by the Dataset.
func (d *Dataset) Record() arrow.Record { return d.record }

// Schema returns the column names and types.
func (d *Dataset) Schema() *arrow.Schema { return d.record.Schema() }

// NumRows returns the row count shared by all columns.
func (d *Dataset) NumRows() int64 { return d.record.NumRows() }

// NumCols returns the number of columns.
func (d *Dataset) NumCols() int { return int(d.record.NumCols()) }

// Columns returns the column labels in order.
func (d *Dataset) Columns() []string {
	fields := d.record.Schema().Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// Release drops the Dataset's reference to its record. It is safe to call on
// a nil Dataset.
func (d *Dataset) Release() {
	if d == nil || d.record == nil {
		return
	}
	d.record.Release()
	d.record = nil
}
