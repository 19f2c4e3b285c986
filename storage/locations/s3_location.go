package locations

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"reduction.dev/csvsort/storage/objstore"
)

func openS3Object(ctx context.Context, client objstore.S3Service, bucket, key string) (io.ReadCloser, error) {
	output, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("reading %s: %w", s3URI(bucket, key), ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read object %s: %w", s3URI(bucket, key), err)
	}
	return output.Body, nil
}

// S3Output spools the written content to a local temporary file and uploads
// it in one PutObject call on Commit, so a failed sort never leaves a partial
// object behind.
type S3Output struct {
	client    objstore.S3Service
	bucket    string
	key       string
	spool     *os.File
	committed bool
	aborted   bool
}

func newS3Output(client objstore.S3Service, bucket, key string) (*S3Output, error) {
	spool, err := os.CreateTemp("", "csvsort-upload-*")
	if err != nil {
		return nil, fmt.Errorf("creating upload spool for %s: %w", s3URI(bucket, key), err)
	}
	return &S3Output{client: client, bucket: bucket, key: key, spool: spool}, nil
}

func (o *S3Output) Write(p []byte) (int, error) {
	return o.spool.Write(p)
}

func (o *S3Output) Commit(ctx context.Context) error {
	if o.committed || o.aborted {
		return fmt.Errorf("output %s already closed", o.URI())
	}
	defer o.discardSpool()

	if _, err := o.spool.Seek(0, io.SeekStart); err != nil {
		o.aborted = true
		return fmt.Errorf("rewinding upload spool: %w", err)
	}
	_, err := o.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &o.bucket,
		Key:    &o.key,
		Body:   o.spool,
	})
	if err != nil {
		o.aborted = true
		return fmt.Errorf("failed to write object %s: %w", o.URI(), err)
	}
	o.committed = true
	return nil
}

func (o *S3Output) Abort() error {
	if o.committed || o.aborted {
		return nil
	}
	o.aborted = true
	return o.discardSpool()
}

func (o *S3Output) discardSpool() error {
	o.spool.Close()
	if err := os.Remove(o.spool.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing upload spool: %w", err)
	}
	return nil
}

func (o *S3Output) URI() string {
	return s3URI(o.bucket, o.key)
}

var _ Output = (*S3Output)(nil)
