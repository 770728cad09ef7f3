// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package load writes a Dataset as a Snappy-compressed Parquet file.
package load

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet"
	"github.com/apache/arrow/go/v17/parquet/compress"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"

	"github.com/pdiddy/csv2parquet/internal/notify"
	"github.com/pdiddy/csv2parquet/internal/storage"
	"github.com/pdiddy/csv2parquet/internal/table"
)

// ErrLoad wraps every failure to serialize or store the output.
var ErrLoad = errors.New("load failed")

// Completion describes a written output file.
type Completion struct {
	Output string
	Rows   int64
	Bytes  int64
}

// Options tune the Parquet writer.
type Options struct {
	// Allocator backs the writer's buffers (default memory.DefaultAllocator).
	Allocator memory.Allocator
}

// Load serializes ds and writes it to loc through store. Failures are logged
// with their error type and message on n and returned wrapping ErrLoad.
func Load(ctx context.Context, store storage.Store, ds *table.Dataset, loc storage.Locator, n *notify.Notifier, opts Options) (Completion, error) {
	data, err := Encode(ds, opts)
	if err == nil {
		err = store.Write(ctx, loc, bytes.NewReader(data))
	}
	if err != nil {
		n.Errorf("exception %s, %v occurred during load of %s", errorClass(err), err, loc)
		return Completion{}, fmt.Errorf("%w: %s: %w", ErrLoad, loc, err)
	}

	n.Debugf("wrote %d rows (%d bytes) to %s", ds.NumRows(), len(data), loc)
	return Completion{
		Output: loc.String(),
		Rows:   ds.NumRows(),
		Bytes:  int64(len(data)),
	}, nil
}

// Encode renders ds as a Parquet file in memory. The Arrow schema is stored
// in the file metadata so readers recover the original column types.
func Encode(ds *table.Dataset, opts Options) ([]byte, error) {
	mem := opts.Allocator
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	props := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Snappy),
		parquet.WithAllocator(mem),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(
		pqarrow.WithStoreSchema(),
		pqarrow.WithAllocator(mem),
	)

	var buf bytes.Buffer
	w, err := pqarrow.NewFileWriter(ds.Schema(), &buf, props, arrowProps)
	if err != nil {
		return nil, fmt.Errorf("creating parquet writer: %w", err)
	}
	if err := w.Write(ds.Record()); err != nil {
		w.Close()
		return nil, fmt.Errorf("writing parquet row group: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing parquet writer: %w", err)
	}
	return buf.Bytes(), nil
}

// errorClass names the type of the first error in err's chain that is not
// an fmt.Errorf wrapper, e.g. *fs.PathError rather than *fmt.wrapError.
func errorClass(err error) string {
	for {
		t := reflect.TypeOf(err)
		if t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		if t.PkgPath() != "fmt" {
			return fmt.Sprintf("%T", err)
		}

		var next error
		switch u := err.(type) {
		case interface{ Unwrap() error }:
			next = u.Unwrap()
		case interface{ Unwrap() []error }:
			if errs := u.Unwrap(); len(errs) > 0 {
				next = errs[0]
			}
		}
		if next == nil {
			return fmt.Sprintf("%T", err)
		}
		err = next
	}
}
