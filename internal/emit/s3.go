package emit

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/nickerso/cellml-decompose/internal/ctxlog"
)

const contentType = "application/xml"

// PutObjectAPI is the part of *s3.Client the S3Writer uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Writer uploads documents under a key prefix of one bucket.
type S3Writer struct {
	client PutObjectAPI
	bucket string
	prefix string
}

// NewS3Writer creates a writer for bucket. Keys are prefix/name.
func NewS3Writer(client PutObjectAPI, bucket, prefix string) *S3Writer {
	return &S3Writer{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// ParseS3URL splits s3://bucket/prefix. ok is false for any other scheme.
func ParseS3URL(raw string) (bucket, prefix string, ok bool, err error) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "s3" {
		return "", "", false, nil
	}
	if u.Host == "" {
		return "", "", true, fmt.Errorf("s3 location %q has no bucket", raw)
	}
	return u.Host, strings.Trim(u.Path, "/"), true, nil
}

// Key returns the object key name is stored under.
func (w *S3Writer) Key(name string) string {
	if w.prefix == "" {
		return name
	}
	return path.Join(w.prefix, name)
}

// Write uploads data.
func (w *S3Writer) Write(ctx context.Context, name string, data []byte) error {
	key := w.Key(name)
	logger := ctxlog.FromContext(ctx).With("bucket", w.bucket, "key", key)
	logger.Debug("Uploading fragment to S3", "size", len(data), "contentType", contentType)

	_, err := w.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(w.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("S3 upload of s3://%s/%s failed: %w", w.bucket, key, err)
	}
	return nil
}
