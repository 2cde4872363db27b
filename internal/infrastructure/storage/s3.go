package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/dromsync/backend/internal/infrastructure/config"
)

// s3API is the slice of the S3 client the CDN store uses
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3CDN stores published listing images in an S3-compatible bucket.
// It works against AWS S3 as well as MinIO-style endpoints.
type S3CDN struct {
	client s3API
	bucket string
	logger *zap.Logger
}

// NewS3CDN creates a CDN store from the storage section of the config
func NewS3CDN(cfg config.StorageConfig, logger *zap.Logger) (*S3CDN, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("cdn bucket is required")
	}
	if cfg.S3AccessKey == "" || cfg.S3SecretKey == "" {
		return nil, fmt.Errorf("cdn credentials are required")
	}

	region := cfg.S3Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("create aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			endpoint := cfg.S3Endpoint
			if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
				endpoint = "https://" + endpoint
			}
			o.BaseEndpoint = aws.String(endpoint)
			// Custom endpoints are typically MinIO-style and need path addressing.
			o.UsePathStyle = true
		}
	})

	return &S3CDN{client: client, bucket: cfg.S3Bucket, logger: logger}, nil
}

// Put uploads one object under the given key
func (c *S3CDN) Put(ctx context.Context, key, contentType string, data []byte) error {
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put cdn object %s: %w", key, err)
	}

	c.logger.Debug("cdn object stored",
		zap.String("key", key),
		zap.Int("bytes", len(data)))
	return nil
}
