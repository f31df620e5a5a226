package avatars

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() S3Config {
	return S3Config{
		RootUser:     "user",
		RootPassword: "password",
		Bucket:       "avatars",
		Region:       "us-east-1",
		BaseEndpoint: "http://127.0.0.1:9000",
	}
}

func TestGetRandomStorageKey(t *testing.T) {
	k1 := getRandomStorageKey()
	k2 := getRandomStorageKey()
	assert.True(t, strings.HasPrefix(k1, "avatars/"))
	assert.NotEqual(t, k1, k2)
}

func TestUpload(t *testing.T) {
	origNewClient := newS3ClientFromConfig
	origPut := putObject
	defer func() {
		newS3ClientFromConfig = origNewClient
		putObject = origPut
	}()

	var capturedBaseEndpoint string
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		if opts.BaseEndpoint == nil {
			t.Fatalf("BaseEndpoint not set")
		}
		capturedBaseEndpoint = *opts.BaseEndpoint
		return &s3.Client{}
	}

	var capturedKey string
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		capturedKey = *in.Key
		assert.Equal(t, "avatars", *in.Bucket)
		assert.Equal(t, "image/png", *in.ContentType)
		return &s3.PutObjectOutput{}, nil
	}

	s := NewS3Storage(testConfig())
	url, err := s.Upload(context.Background(), "u1", "image/png", strings.NewReader("img"))
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:9000", capturedBaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000/avatars/"+capturedKey, url)
}

func TestUploadPutError(t *testing.T) {
	origNewClient := newS3ClientFromConfig
	origPut := putObject
	defer func() {
		newS3ClientFromConfig = origNewClient
		putObject = origPut
	}()

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return &s3.Client{}
	}
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return nil, errors.New("put failed")
	}

	s := NewS3Storage(testConfig())
	_, err := s.Upload(context.Background(), "u1", "image/png", io.Reader(strings.NewReader("img")))
	assert.Error(t, err)
}
