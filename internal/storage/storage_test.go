// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocator(t *testing.T) {
	tests := []struct {
		in      string
		want    Locator
		wantErr bool
	}{
		{in: "s3://bucket/data/sales.csv", want: Locator{Scheme: SchemeS3, Bucket: "bucket", Key: "data/sales.csv"}},
		{in: "file:///tmp/in.csv", want: Locator{Scheme: SchemeFile, Key: "/tmp/in.csv"}},
		{in: "relative/in.csv", want: Locator{Scheme: SchemeFile, Key: "relative/in.csv"}},
		{in: "/abs/in.csv", want: Locator{Scheme: SchemeFile, Key: "/abs/in.csv"}},
		{in: "s3://bucket", wantErr: true},
		{in: "s3:///key", wantErr: true},
		{in: "gs://bucket/key", wantErr: true},
		{in: "file://", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLocator(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLocatorUnsupportedScheme(t *testing.T) {
	_, err := ParseLocator("gs://bucket/key")
	assert.ErrorIs(t, err, ErrUnsupportedScheme)
}

func TestLocatorString(t *testing.T) {
	assert.Equal(t, "s3://b/k/x.csv", Locator{Scheme: SchemeS3, Bucket: "b", Key: "k/x.csv"}.String())
	assert.Equal(t, "file:///tmp/x.csv", Locator{Scheme: SchemeFile, Key: "/tmp/x.csv"}.String())
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	loc := Locator{Scheme: SchemeFile, Key: filepath.Join(dir, "output", "a.parquet")}
	fs := NewFileStore()

	require.NoError(t, fs.Write(ctx, loc, bytes.NewReader([]byte("payload"))))

	rc, err := fs.Open(ctx, loc)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	entries, err := os.ReadDir(filepath.Join(dir, "output"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should be renamed away")
}

func TestFileStoreOpenMissing(t *testing.T) {
	_, err := NewFileStore().Open(context.Background(), Locator{Scheme: SchemeFile, Key: filepath.Join(t.TempDir(), "nope.csv")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestMuxRoutesByScheme(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fake := &fakeS3{objects: map[string]string{"b/in.csv": "a,b\n1,2\n"}}
	m := NewMux().Handle(SchemeFile, NewFileStore()).Handle(SchemeS3, NewS3Store(fake))

	rc, err := m.Open(ctx, Locator{Scheme: SchemeS3, Bucket: "b", Key: "in.csv"})
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "a,b\n1,2\n", string(data))

	local := Locator{Scheme: SchemeFile, Key: filepath.Join(dir, "x")}
	require.NoError(t, m.Write(ctx, local, strings.NewReader("x")))
	_, err = os.Stat(local.Key)
	assert.NoError(t, err)

	_, err = m.Open(ctx, Locator{Scheme: "gs", Bucket: "b", Key: "k"})
	assert.ErrorIs(t, err, ErrUnsupportedScheme)
}

func TestS3StoreWrite(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{}}
	s := NewS3Store(fake)

	err := s.Write(context.Background(), Locator{Scheme: SchemeS3, Bucket: "b", Key: "output/x.parquet"}, strings.NewReader("PAR1"))
	require.NoError(t, err)
	assert.Equal(t, "PAR1", fake.objects["b/output/x.parquet"])
	assert.Equal(t, parquetContentType, fake.lastContentType)
}

func TestS3StoreErrors(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{}, err: errors.New("access denied")}
	s := NewS3Store(fake)
	loc := Locator{Scheme: SchemeS3, Bucket: "b", Key: "k.csv"}

	_, err := s.Open(context.Background(), loc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://b/k.csv")
	assert.Contains(t, err.Error(), "access denied")

	err = s.Write(context.Background(), loc, strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

// fakeS3 implements the two S3 calls the store makes, keyed by "bucket/key".
type fakeS3 struct {
	s3iface.S3API
	objects         map[string]string
	lastContentType string
	err             error
}

func (f *fakeS3) GetObjectWithContext(_ aws.Context, in *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.objects[aws.StringValue(in.Bucket)+"/"+aws.StringValue(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.StringValue(in.Bucket)+"/"+aws.StringValue(in.Key)] = string(data)
	f.lastContentType = aws.StringValue(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}
