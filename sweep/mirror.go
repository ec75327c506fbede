// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweep

import (
	"context"
	"fmt"
	"path"

	"cloud.google.com/go/storage"
)

// A Mirror stores copies of exported files. name is slash-separated
// and relative to the output directory.
type Mirror interface {
	Put(ctx context.Context, name string, data []byte, contentType string) error
}

// A GCSMirror copies exported files into a Cloud Storage bucket.
type GCSMirror struct {
	client *storage.Client
	bucket *storage.BucketHandle
	prefix string
}

// NewGCSMirror returns a mirror writing objects named prefix/name into
// bucket, using application default credentials.
func NewGCSMirror(ctx context.Context, bucket, prefix string) (*GCSMirror, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("cloud storage: %w", err)
	}
	return &GCSMirror{client: client, bucket: client.Bucket(bucket), prefix: prefix}, nil
}

// Put implements Mirror.
func (m *GCSMirror) Put(ctx context.Context, name string, data []byte, contentType string) error {
	w := m.bucket.Object(path.Join(m.prefix, name)).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// Close releases the mirror's client.
func (m *GCSMirror) Close() error {
	return m.client.Close()
}
