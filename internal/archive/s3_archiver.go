package archive

import (
	"bytes"
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// s3Archiver implements Archiver by writing payloads to an S3 bucket.
type s3Archiver struct {
	client *s3.Client
	bucket string
	prefix string
	logger zerolog.Logger
}

// NewS3Archiver creates a new S3-based webhook payload archiver.
func NewS3Archiver(ctx context.Context, bucket, region, prefix string, logger zerolog.Logger) (Archiver, error) {
	logger = logger.With().Str("component", "s3-archiver").Logger()

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Str("prefix", prefix).
		Msg("S3 archiver initialised")

	return &s3Archiver{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}, nil
}

// Archive writes the payload under prefix+key as an S3 object.
func (a *s3Archiver) Archive(ctx context.Context, key string, payload []byte) error {
	fullKey := a.prefix + key

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      awssdk.String(a.bucket),
		Key:         awssdk.String(fullKey),
		Body:        bytes.NewReader(payload),
		ContentType: awssdk.String("application/json"),
	})
	if err != nil {
		a.logger.Error().
			Err(err).
			Str("bucket", a.bucket).
			Str("key", fullKey).
			Msg("failed to archive webhook payload")
		return fmt.Errorf("failed to archive webhook payload (bucket=%s, key=%s): %w", a.bucket, fullKey, err)
	}

	a.logger.Debug().
		Str("bucket", a.bucket).
		Str("key", fullKey).
		Int("bytes", len(payload)).
		Msg("webhook payload archived")

	return nil
}
