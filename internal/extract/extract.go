// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract loads delimited text into a Dataset. The first row is the
// header; column types are inferred from all rows.
package extract

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/apache/arrow/go/v17/arrow"
	arrowcsv "github.com/apache/arrow/go/v17/arrow/csv"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/pdiddy/csv2parquet/internal/storage"
	"github.com/pdiddy/csv2parquet/internal/table"
)

var (
	// ErrResourceUnavailable is returned when the input cannot be opened or read.
	ErrResourceUnavailable = errors.New("resource unavailable")

	// ErrParse is returned when the input is not valid delimited text.
	ErrParse = errors.New("parse error")
)

var utf8BOM = []byte("\xef\xbb\xbf")

// nullValues are the cell contents read as missing values, in every column type.
var nullValues = []string{"", "NA", "N/A", "NULL", "null", "NaN", "nan"}

// Options tune how input is parsed. The zero value reads comma-separated
// text with the default Go allocator.
type Options struct {
	// Comma is the field delimiter (default ',').
	Comma rune

	// Allocator backs the Arrow buffers (default memory.DefaultAllocator).
	Allocator memory.Allocator
}

func (o Options) comma() rune {
	if o.Comma == 0 {
		return ','
	}
	return o.Comma
}

func (o Options) allocator() memory.Allocator {
	if o.Allocator == nil {
		return memory.DefaultAllocator
	}
	return o.Allocator
}

// Extract reads the object at loc from store and parses it into a Dataset.
func Extract(ctx context.Context, store storage.Store, loc storage.Locator, opts Options) (*table.Dataset, error) {
	rc, err := store.Open(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResourceUnavailable, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrResourceUnavailable, loc, err)
	}

	ds, err := Parse(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", loc, err)
	}
	return ds, nil
}

// Parse converts delimited text into a Dataset holding every data row in
// a single record. Each column gets the narrowest type that fits all of its
// values; a header with no data rows yields string columns.
func Parse(data []byte, opts Options) (*table.Dataset, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	schema, err := scan(data, opts.comma())
	if err != nil {
		return nil, err
	}

	r := arrowcsv.NewReader(bytes.NewReader(data), schema,
		arrowcsv.WithHeader(true),
		arrowcsv.WithChunk(-1),
		arrowcsv.WithComma(opts.comma()),
		arrowcsv.WithNullReader(true, nullValues...),
		arrowcsv.WithAllocator(opts.allocator()),
	)
	defer r.Release()

	if !r.Next() {
		if err := r.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		return nil, fmt.Errorf("%w: no records read", ErrParse)
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	rec := r.Record()
	rec.Retain()
	return table.New(rec), nil
}

// scan reads the header and every row, rejecting rows whose field count
// differs from the header's, and infers the column types.
func scan(data []byte, comma rune) (*arrow.Schema, error) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = comma
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: no columns to parse", ErrParse)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %w", ErrParse, err)
	}
	header = append([]string(nil), header...)

	kinds := make([]columnKind, len(header))
	for i := range kinds {
		kinds[i] = newColumnKind()
	}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		for i, v := range row {
			kinds[i].observe(v)
		}
	}

	fields := make([]arrow.Field, len(header))
	for i, name := range header {
		fields[i] = arrow.Field{Name: name, Type: kinds[i].dataType(), Nullable: true}
	}
	return arrow.NewSchema(fields, nil), nil
}
