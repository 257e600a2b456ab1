package s3

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	cfg "github.com/langtutor/content-pipeline/config"
	"github.com/langtutor/content-pipeline/pkg/logger"
)

type S3Storage struct {
	client     *s3.Client
	bucketName string
	logger     logger.Logger
}

func NewS3Storage(log logger.Logger) (*S3Storage, error) {
	s3Config := cfg.GetS3Config()

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(s3Config.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s3Config.AccessKey,
			s3Config.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if s3Config.Endpoint != "" {
			o.BaseEndpoint = aws.String(s3Config.Endpoint)
		}
	})

	_, err = client.HeadBucket(context.Background(), &s3.HeadBucketInput{
		Bucket: aws.String(s3Config.BucketName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to verify bucket existence: %w", err)
	}

	return &S3Storage{
		client:     client,
		bucketName: s3Config.BucketName,
		logger:     log,
	}, nil
}

func GetClient(log logger.Logger) (*S3Storage, error) {
	return NewS3Storage(log)
}

func (s *S3Storage) Store(ctx context.Context, reader io.Reader, key string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
		Body:   reader,
	})
	if err != nil {
		s.logger.Error("Failed to store object to S3",
			logger.String("bucket", s.bucketName),
			logger.String("key", key),
			logger.Error(err),
		)
		return "", fmt.Errorf("failed to store object: %w", err)
	}
	return key, nil
}

func (s *S3Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		s.logger.Error("Failed to get object from S3",
			logger.String("bucket", s.bucketName),
			logger.String("key", key),
			logger.Error(err),
		)
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	return result.Body, nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		s.logger.Error("Failed to delete object from S3",
			logger.String("bucket", s.bucketName),
			logger.String("key", key),
			logger.Error(err),
		)
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (s *S3Storage) CleanupBefore(ctx context.Context, threshold time.Time) error {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucketName),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to list objects: %w", err)
		}

		for _, obj := range page.Contents {
			if obj.LastModified.Before(threshold) {
				if err := s.Delete(ctx, *obj.Key); err != nil {
					continue
				}
				s.logger.Info("Deleted expired object",
					logger.String("key", *obj.Key),
					logger.Time("lastModified", *obj.LastModified),
				)
			}
		}
	}
	return nil
}
