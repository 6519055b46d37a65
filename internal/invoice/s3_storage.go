package invoice

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// s3Storage implements Storage for writing invoice documents to AWS S3.
type s3Storage struct {
	client *s3.Client
	bucket string
	logger zerolog.Logger
}

// NewS3Storage creates a new S3-backed invoice storage.
func NewS3Storage(ctx context.Context, bucket, region string, logger zerolog.Logger) (Storage, error) {
	logger = logger.With().Str("component", "s3-invoice-storage").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 invoice storage initialised")

	return &s3Storage{
		client: client,
		bucket: bucket,
		logger: logger,
	}, nil
}

// Put writes an invoice document to the bucket.
func (s *s3Storage) Put(ctx context.Context, key, contentType string, body []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        bytes.NewReader(body),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", key).
			Msg("failed to write invoice object")
		return fmt.Errorf("failed to write invoice object %s: %w", key, err)
	}

	s.logger.Debug().
		Str("key", key).
		Int("bytes", len(body)).
		Msg("invoice object written")

	return nil
}
