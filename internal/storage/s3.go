package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"

	"github.com/amorell/av1batch/internal/metrics"
)

// DefaultS3Timeout bounds a single object upload.
const DefaultS3Timeout = 10 * time.Minute

// S3Client defines the S3 operations the uploader needs.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader pushes converted files to an S3 bucket.
type Uploader struct {
	client S3Client
	bucket string
}

// NewUploader builds an Uploader from the default AWS config with OTel
// middleware attached.
func NewUploader(ctx context.Context, region, bucket string) (*Uploader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	otelaws.AppendMiddlewares(&cfg.APIOptions)

	return &Uploader{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
	}, nil
}

// NewUploaderWithClient is used by tests.
func NewUploaderWithClient(client S3Client, bucket string) *Uploader {
	return &Uploader{client: client, bucket: bucket}
}

// Upload stores the file under its base name in the configured bucket.
func (u *Uploader) Upload(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultS3Timeout)
	defer cancel()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	start := time.Now()
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(filepath.Base(path)),
		Body:        f,
		ContentType: aws.String("video/mp4"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", path, err)
	}
	metrics.UploadDuration.Observe(time.Since(start).Seconds())

	return nil
}
