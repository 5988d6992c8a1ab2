// Package source provides the fetchers that read the raw collection export.
package source

import (
	"context"
	"errors"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"vinylchat/internal/catalog"
)

// DefaultKey is the object key used when only a bucket is configured.
const DefaultKey = "discogs.csv"

// ErrNoSource is returned when neither a bucket nor a file is configured.
var ErrNoSource = errors.New("no collection source configured")

// Options selects where the export lives. A bucket takes precedence over a file.
type Options struct {
	Bucket string
	Key    string
	File   string
	Region string
}

// New builds the fetcher described by opts. For S3 it loads the default AWS
// credential chain.
func New(ctx context.Context, opts Options) (catalog.Fetcher, error) {
	switch {
	case opts.Bucket != "":
		var loadOpts []func(*awsconfig.LoadOptions) error
		if opts.Region != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		key := opts.Key
		if key == "" {
			key = DefaultKey
		}
		return NewS3Source(s3.NewFromConfig(awsCfg), opts.Bucket, key), nil
	case opts.File != "":
		return NewFileSource(opts.File), nil
	default:
		return nil, ErrNoSource
	}
}
