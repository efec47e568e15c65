package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	sc "github.com/dmitrijs2005/videotube/internal/server/config"
)

// MediaService stores uploaded avatar/cover images in an S3-compatible
// bucket and returns their public URLs. The bucket is expected to allow
// public reads; the returned URL is stable and stored on the account.
type MediaService struct {
	config *sc.Config
}

// NewMediaService constructs a MediaService.
func NewMediaService(cfg *sc.Config) *MediaService {
	return &MediaService{config: cfg}
}

// RandomStorageKey produces a date-partitioned object key with a uuid leaf.
func RandomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("media/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *MediaService) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return client, nil
}

// Upload puts the object into the bucket under a fresh storage key and
// returns its public URL.
func (s *MediaService) Upload(ctx context.Context, r io.Reader, contentType string) (string, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	key := RandomStorageKey()

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}

	return s.ObjectURL(key), nil
}

// ObjectURL returns the public URL of a stored object.
func (s *MediaService) ObjectURL(key string) string {
	base := strings.TrimSuffix(s.config.S3BaseEndpoint, "/")
	return fmt.Sprintf("%s/%s/%s", base, s.config.S3Bucket, key)
}
