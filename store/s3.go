package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/readytoruncq/fieldservice-uploads/logging"
)

type S3ObjectStorageImpl struct {
	client     *s3.Client
	bucketName string

	logger logging.Logger
}

func NewS3ObjectStorageImpl(client *s3.Client, bucketName string, l logging.Logger) *S3ObjectStorageImpl {
	return &S3ObjectStorageImpl{
		client:     client,
		bucketName: bucketName,
		logger:     l,
	}
}

func (s *S3ObjectStorageImpl) Bucket() string {
	return s.bucketName
}

// Put writes one fully-buffered object together with its content type and
// custom metadata. Keys are derived so that re-submissions never collide;
// an existing object under the same key is overwritten, not versioned.
func (s *S3ObjectStorageImpl) Put(ctx context.Context, key string, body []byte, contentType string, metadata map[string]string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
		Metadata:      metadata,
	})
	if err != nil {
		s.logger.Error("failed to put object", "key", key, "size", len(body), "error", err)
		return fmt.Errorf("failed to put object: %w", err)
	}

	s.logger.Info("object stored", "key", key, "size", len(body), "content_type", contentType)
	return nil
}

func (s *S3ObjectStorageImpl) GetMetadata(ctx context.Context, key string) (*ObjectMetadata, error) {
	if key == "" {
		return nil, fmt.Errorf("key cannot be empty")
	}

	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
			s.logger.Debug("object does not exist", "key", key)
			return nil, ErrObjectNotFound
		}
		s.logger.Error("failed to head object", "key", key, "error", err)
		return nil, fmt.Errorf("failed to head object: %w", err)
	}

	md := &ObjectMetadata{
		Custom: out.Metadata,
	}
	if out.ContentType != nil {
		md.ContentType = *out.ContentType
	}
	if out.ContentLength != nil {
		md.Size = *out.ContentLength
	}

	return md, nil
}

func (s *S3ObjectStorageImpl) GenerateDownloadUrl(ctx context.Context, key string, ttl time.Duration) (string, error) {
	presigner := s3.NewPresignClient(s.client)

	presigned, err := presigner.PresignGetObject(
		ctx,
		&s3.GetObjectInput{
			Bucket: aws.String(s.bucketName),
			Key:    aws.String(key),
		},
		s3.WithPresignExpires(ttl),
	)
	if err != nil {
		return "", err
	}

	return presigned.URL, nil
}

func (s *S3ObjectStorageImpl) IsReady(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucketName),
	})

	return err
}

func (s *S3ObjectStorageImpl) Name() string {
	return fmt.Sprintf("ObjectStorage[%s]", s.bucketName)
}
