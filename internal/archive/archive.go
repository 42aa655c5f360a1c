// Package archive stores scheduled run reports in a Google Cloud Storage bucket.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"

	gcsstorage "cloud.google.com/go/storage"
)

// GCSSink writes JSON documents under prefix in a bucket.
type GCSSink struct {
	prefix string
	open   func(ctx context.Context, object string) io.WriteCloser
}

// NewGCSSink returns a sink writing to bucket/prefix/<name>.
func NewGCSSink(bucket *gcsstorage.BucketHandle, prefix string) *GCSSink {
	return &GCSSink{
		prefix: strings.Trim(prefix, "/"),
		open: func(ctx context.Context, object string) io.WriteCloser {
			w := bucket.Object(object).NewWriter(ctx)
			w.ContentType = "application/json"
			return w
		},
	}
}

// ObjectName returns the object path name is stored at.
func (s *GCSSink) ObjectName(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

// WriteJSON encodes v and uploads it. On an encode failure the upload context
// is cancelled before closing, which aborts the object.
func (s *GCSSink) WriteJSON(ctx context.Context, name string, v any) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	object := s.ObjectName(name)
	w := s.open(ctx, object)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		cancel()
		w.Close()
		return fmt.Errorf("encode %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("upload %s: %w", object, err)
	}
	return nil
}
