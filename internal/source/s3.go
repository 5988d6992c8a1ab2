package source

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_object_getter.go -package=mocks vinylchat/internal/source ObjectGetter

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectGetter is the subset of the S3 client used to read the export.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads the collection export from an S3 object.
type S3Source struct {
	client ObjectGetter
	bucket string
	key    string
}

// NewS3Source creates a source for s3://bucket/key.
func NewS3Source(client ObjectGetter, bucket, key string) *S3Source {
	return &S3Source{client: client, bucket: bucket, key: key}
}

// Fetch downloads the whole object.
func (s *S3Source) Fetch(ctx context.Context) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", s.bucket, s.key, err)
	}
	if out == nil || out.Body == nil {
		return nil, fmt.Errorf("get s3://%s/%s: empty response body", s.bucket, s.key)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return data, nil
}

// String describes the source for logs.
func (s *S3Source) String() string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.key)
}
