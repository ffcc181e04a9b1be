package files

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the part of the S3 client the store uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Store struct {
	client S3API
	bucket string
	prefix string
}

func NewS3Store(client S3API, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

// NewS3StoreFromEnv loads the default AWS credential chain for region.
func NewS3StoreFromEnv(ctx context.Context, region, bucket, prefix string) (*S3Store, error) {
	cfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewS3Store(s3.NewFromConfig(cfg), bucket, prefix), nil
}

func (s *S3Store) Put(ctx context.Context, folder string, up Upload) (string, error) {
	key := ObjectKey(s.prefix, folder, up.Name, time.Now())

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   up.Body,
	}
	if up.ContentType != "" {
		input.ContentType = aws.String(up.ContentType)
	}
	if up.Size > 0 {
		input.ContentLength = aws.Int64(up.Size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", ErrFileStorage.WithCause(err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

func (s *S3Store) Delete(ctx context.Context, ref string) error {
	key := strings.TrimPrefix(ref, fmt.Sprintf("s3://%s/", s.bucket))
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return ErrFileStorage.WithCause(err)
	}
	return nil
}
