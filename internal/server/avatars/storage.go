package avatars

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Storage persists user avatar images and returns a publicly reachable URL.
type Storage interface {
	Upload(ctx context.Context, userID string, contentType string, body io.Reader) (string, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
)

// S3Config holds the object storage settings for avatar uploads.
type S3Config struct {
	RootUser     string
	RootPassword string
	Bucket       string
	Region       string
	BaseEndpoint string
}

// S3Storage uploads avatars to an S3-compatible bucket (MinIO in local setups).
type S3Storage struct {
	cfg S3Config
}

func NewS3Storage(cfg S3Config) *S3Storage {
	return &S3Storage{cfg: cfg}
}

func getRandomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("avatars/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *S3Storage) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.RootUser,     // MINIO_ROOT_USER
			s.cfg.RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.cfg.BaseEndpoint)
		o.UsePathStyle = true
	})

	return client, nil
}

// Upload stores the avatar under a date-partitioned random key and returns
// its public URL built from the bucket endpoint.
func (s *S3Storage) Upload(ctx context.Context, userID string, contentType string, body io.Reader) (string, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.cfg.Bucket
	key := getRandomStorageKey()

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        body,
		ContentType: &contentType,
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.cfg.BaseEndpoint, "/"), bucket, key), nil
}
