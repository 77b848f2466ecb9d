// Package fileio provides transparent gzip-aware readers and writers over
// grailbio/base/file, so every reader in this module can be pointed at a
// local path or its .gz-suffixed variant without caring which. This module
// registers no s3 implementation with grailbio/base/file, so s3:// paths
// are not supported.
package fileio

import (
	"context"
	"io"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// ReadCloser wraps the underlying file.File alongside whatever decompressing
// reader sits on top of it, so Close releases both.
type ReadCloser struct {
	ctx   context.Context
	f     file.File
	gz    *gzip.Reader
	inner io.Reader
}

// Open opens path for reading, transparently gunzipping when
// fileio.DetermineType reports a gzip file by its name.
func Open(ctx context.Context, path string) (*ReadCloser, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "fileio: open %s", path)
	}
	r := io.Reader(f.Reader(ctx))
	rc := &ReadCloser{ctx: ctx, f: f, inner: r}
	if fileio.DetermineType(path) == fileio.Gzip {
		gz, err := gzip.NewReader(r)
		if err != nil {
			_ = f.Close(ctx)
			return nil, errors.Wrapf(err, "fileio: gzip header %s", path)
		}
		rc.gz = gz
		rc.inner = gz
	}
	return rc, nil
}

// Read implements io.Reader.
func (r *ReadCloser) Read(p []byte) (int, error) { return r.inner.Read(p) }

// Close closes the gzip stream (if any) and the underlying file.
func (r *ReadCloser) Close() error {
	if r.gz != nil {
		if err := r.gz.Close(); err != nil {
			_ = r.f.Close(r.ctx)
			return errors.Wrap(err, "fileio: close gzip stream")
		}
	}
	return r.f.Close(r.ctx)
}

// WriteCloser wraps the underlying file.File alongside whatever compressing
// writer sits on top of it, so Close flushes and releases both.
type WriteCloser struct {
	ctx   context.Context
	f     file.File
	gz    *gzip.Writer
	inner io.Writer
}

// Create creates path for writing, transparently gzipping when
// fileio.DetermineType reports a gzip file by its name.
func Create(ctx context.Context, path string) (*WriteCloser, error) {
	f, err := file.Create(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "fileio: create %s", path)
	}
	w := io.Writer(f.Writer(ctx))
	wc := &WriteCloser{ctx: ctx, f: f, inner: w}
	if fileio.DetermineType(path) == fileio.Gzip {
		gz := gzip.NewWriter(w)
		wc.gz = gz
		wc.inner = gz
	}
	return wc, nil
}

// Write implements io.Writer.
func (w *WriteCloser) Write(p []byte) (int, error) { return w.inner.Write(p) }

// Close flushes the gzip stream (if any) and closes the underlying file.
func (w *WriteCloser) Close() error {
	if w.gz != nil {
		if err := w.gz.Close(); err != nil {
			_ = w.f.Close(w.ctx)
			return errors.Wrap(err, "fileio: close gzip stream")
		}
	}
	return w.f.Close(w.ctx)
}
