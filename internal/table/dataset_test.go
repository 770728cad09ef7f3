// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/assert"
)

func TestDataset(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	schema := arrow.NewSchema([]arrow.Field{
		{Name: "region", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "total", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
	}, nil)
	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()
	b.Field(0).(*array.StringBuilder).AppendValues([]string{"eu", "us", "apac"}, nil)
	b.Field(1).(*array.Int64Builder).AppendValues([]int64{10, 20, 30}, nil)

	ds := New(b.NewRecord())
	assert.Equal(t, []string{"region", "total"}, ds.Columns())
	assert.Equal(t, int64(3), ds.NumRows())
	assert.Equal(t, 2, ds.NumCols())
	assert.True(t, ds.Schema().Equal(schema))

	ds.Release()
	assert.Nil(t, ds.Record())
	ds.Release()
}

func TestDataset_ReleaseNil(t *testing.T) {
	var ds *Dataset
	assert.NotPanics(t, ds.Release)
}
