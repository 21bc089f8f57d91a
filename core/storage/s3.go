package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"meetly/core/config"
	"meetly/core/logger"
)

// Storage uploads user-supplied files (profile images) to S3.
type Storage struct {
	client *s3.Client
	bucket string
	region string
}

func NewStorage(cfg config.AWSConfig) *Storage {
	creds := credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")

	client := s3.New(s3.Options{
		Region:      cfg.Region,
		Credentials: creds,
	})

	return &Storage{
		client: client,
		bucket: cfg.Bucket,
		region: cfg.Region,
	}
}

// Upload stores the object and returns its public URL.
func (s *Storage) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		logger.Error("Storage:Upload:Error", "key", key, "error", err)
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
	logger.Info("Storage:Upload:Success", "key", key)
	return url, nil
}

// Delete removes an object, used when replacing a profile image.
func (s *Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}
