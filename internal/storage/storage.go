// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package storage resolves resource locators and reads or writes the objects
// they name. Locators are "s3://bucket/key", "file:///abs/path" or a bare
// filesystem path.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	SchemeS3   = "s3"
	SchemeFile = "file"
)

// ErrUnsupportedScheme is returned for locators no store is registered for.
var ErrUnsupportedScheme = errors.New("unsupported locator scheme")

// Locator identifies one stored object. For the file scheme Bucket is empty
// and Key holds the filesystem path.
type Locator struct {
	Scheme string
	Bucket string
	Key    string
}

// ParseLocator splits s into its scheme, bucket and key. Strings without a
// "scheme://" prefix are filesystem paths.
func ParseLocator(s string) (Locator, error) {
	scheme, rest, found := strings.Cut(s, "://")
	if !found {
		if s == "" {
			return Locator{}, fmt.Errorf("empty locator")
		}
		return Locator{Scheme: SchemeFile, Key: s}, nil
	}

	switch scheme {
	case SchemeFile:
		if rest == "" {
			return Locator{}, fmt.Errorf("locator %q has no path", s)
		}
		return Locator{Scheme: SchemeFile, Key: rest}, nil
	case SchemeS3:
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" || key == "" {
			return Locator{}, fmt.Errorf("locator %q needs both bucket and key", s)
		}
		return Locator{Scheme: SchemeS3, Bucket: bucket, Key: key}, nil
	default:
		return Locator{}, fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
	}
}

// String renders the locator back into its textual form.
func (l Locator) String() string {
	if l.Scheme == SchemeFile {
		return SchemeFile + "://" + l.Key
	}
	return l.Scheme + "://" + l.Bucket + "/" + l.Key
}

// Store reads and writes objects.
type Store interface {
	// Open returns a reader for the object at loc. The caller closes it.
	Open(ctx context.Context, loc Locator) (io.ReadCloser, error)

	// Write stores the content of r at loc, replacing any existing object.
	Write(ctx context.Context, loc Locator, r io.ReadSeeker) error
}

// Mux routes each call to the store registered for the locator's scheme.
type Mux struct {
	stores map[string]Store
}

// NewMux creates an empty Mux.
func NewMux() *Mux {
	return &Mux{stores: make(map[string]Store)}
}

// Handle registers s for scheme, replacing any earlier registration.
func (m *Mux) Handle(scheme string, s Store) *Mux {
	m.stores[scheme] = s
	return m
}

func (m *Mux) lookup(loc Locator) (Store, error) {
	s, ok := m.stores[loc.Scheme]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, loc.Scheme)
	}
	return s, nil
}

func (m *Mux) Open(ctx context.Context, loc Locator) (io.ReadCloser, error) {
	s, err := m.lookup(loc)
	if err != nil {
		return nil, err
	}
	return s.Open(ctx, loc)
}

func (m *Mux) Write(ctx context.Context, loc Locator, r io.ReadSeeker) error {
	s, err := m.lookup(loc)
	if err != nil {
		return err
	}
	return s.Write(ctx, loc, r)
}
