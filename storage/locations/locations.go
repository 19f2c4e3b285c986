// Package locations opens sort inputs and creates sort outputs on the local
// file system or in S3.
package locations

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"reduction.dev/csvsort/storage/objstore"
)

const s3Protocol = "s3://"

// Resolver dispatches paths to local files or S3 objects. The S3 service is
// only needed when s3:// paths are used.
type Resolver struct {
	S3 objstore.S3Service
}

func NewResolver(s3 objstore.S3Service) *Resolver {
	return &Resolver{S3: s3}
}

// Open returns a reader for the file or object at path.
func (r *Resolver) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if IsS3(path) {
		bucket, key, err := r.s3Target(path)
		if err != nil {
			return nil, err
		}
		return openS3Object(ctx, r.S3, bucket, key)
	}
	return openLocalFile(path)
}

// Create returns an uncommitted output for path.
func (r *Resolver) Create(ctx context.Context, path string) (Output, error) {
	if IsS3(path) {
		bucket, key, err := r.s3Target(path)
		if err != nil {
			return nil, err
		}
		return newS3Output(r.S3, bucket, key)
	}
	return newLocalOutput(path)
}

func (r *Resolver) s3Target(path string) (bucket, key string, err error) {
	if r == nil || r.S3 == nil {
		return "", "", fmt.Errorf("no S3 client configured for %s", path)
	}
	return ParseS3URI(path)
}

// IsS3 reports whether the path is an s3:// URI.
func IsS3(path string) bool {
	return strings.HasPrefix(path, s3Protocol)
}

// ParseS3URI splits s3://bucket/key into bucket and key.
func ParseS3URI(uri string) (bucket, key string, err error) {
	path := strings.TrimPrefix(uri, s3Protocol)
	parts := strings.SplitN(path, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.New("invalid S3 path, must include bucket and key: " + uri)
	}
	return parts[0], parts[1], nil
}

func s3URI(bucket, key string) string {
	return s3Protocol + bucket + "/" + key
}
