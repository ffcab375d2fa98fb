package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	aws_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/luis-hernandez01/service-notifications/internal/config"
)

// StoredObject describes one blob in the file store.
type StoredObject struct {
	Key         string `json:"key"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type,omitempty"`
}

// IBlobStorage defines the interface for the S3-backed file store.
type IBlobStorage interface {
	// Upload stores the content under a uuid-prefixed key derived from
	// filename and returns the final key.
	Upload(ctx context.Context, filename, contentType string, content io.Reader) (string, error)
	// Download streams an object. The caller must close the reader.
	Download(ctx context.Context, key string) (io.ReadCloser, *StoredObject, error)
	List(ctx context.Context, prefix string) ([]StoredObject, error)
	Delete(ctx context.Context, key string) error
}

// blobStorage implements IBlobStorage.
type blobStorage struct {
	cfg      *config.Config
	s3Client *s3.Client
}

// NewBlobStorage creates the S3-backed file store.
func NewBlobStorage(cfg *config.Config) (IBlobStorage, error) {
	awsCfg, err := aws_config.LoadDefaultConfig(context.TODO(),
		aws_config.WithRegion(cfg.AwsRegion),
		// Use static credentials from config for simplicity
		// For production, prefer IAM roles or other secure credential methods
		aws_config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AwsAccessKeyID,
			cfg.AwsSecretAccessKey,
			"", // session token
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &blobStorage{
		cfg:      cfg,
		s3Client: s3.NewFromConfig(awsCfg),
	}, nil
}

// Upload stores the blob. Keys get a uuid prefix so two uploads with the same
// filename never overwrite each other.
func (s *blobStorage) Upload(ctx context.Context, filename, contentType string, content io.Reader) (string, error) {
	safeName := strings.ReplaceAll(filename, "/", "_")
	objectKey := fmt.Sprintf("files/%s_%s", uuid.NewString(), safeName)

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.cfg.AwsS3Bucket),
		Key:    aws.String(objectKey),
		Body:   content,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.s3Client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", objectKey, err)
	}
	return objectKey, nil
}

func (s *blobStorage) Download(ctx context.Context, key string) (io.ReadCloser, *StoredObject, error) {
	out, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.AwsS3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to download object %s: %w", key, err)
	}

	obj := &StoredObject{Key: key}
	if out.ContentLength != nil {
		obj.Size = *out.ContentLength
	}
	if out.ContentType != nil {
		obj.ContentType = *out.ContentType
	}
	return out.Body, obj, nil
}

func (s *blobStorage) List(ctx context.Context, prefix string) ([]StoredObject, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.cfg.AwsS3Bucket),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	var objects []StoredObject
	paginator := s3.NewListObjectsV2Paginator(s.s3Client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		for _, item := range page.Contents {
			obj := StoredObject{}
			if item.Key != nil {
				obj.Key = *item.Key
			}
			if item.Size != nil {
				obj.Size = *item.Size
			}
			objects = append(objects, obj)
		}
	}
	return objects, nil
}

func (s *blobStorage) Delete(ctx context.Context, key string) error {
	_, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.AwsS3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}
