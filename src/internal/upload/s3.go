// FILE: src/internal/upload/s3.go
package upload

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

// S3Config configures a generic S3-compatible Uploader: AWS S3, MinIO,
// or any provider's S3-compatible endpoint (including OSS's own S3
// compatibility mode). Endpoint may be left empty to use AWS's default
// endpoint resolution for Region.
type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	ForcePathStyle  bool
}

// S3Uploader uploads batches via the AWS SDK v2 S3 client.
type S3Uploader struct {
	client *s3.Client
	bucket string
}

// NewS3Uploader constructs an S3-backed Uploader from cfg.
func NewS3Uploader(ctx context.Context, cfg S3Config) (*S3Uploader, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.AccessKeySecret, "")),
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	return &S3Uploader{client: client, bucket: cfg.Bucket}, nil
}

// Upload implements Uploader.
func (u *S3Uploader) Upload(ctx context.Context, objectKey string, content []byte, contentType, contentEncoding string) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(objectKey),
		Body:        bytesReader(content),
		ContentType: aws.String(contentType),
	}
	if contentEncoding != "" {
		input.ContentEncoding = aws.String(contentEncoding)
	}

	_, err := u.client.PutObject(ctx, input)
	if err != nil {
		return &statusError{err: err, code: s3StatusCode(err)}
	}
	return nil
}

// Close implements Uploader. The SDK's HTTP client pools connections
// internally and needs no explicit teardown.
func (u *S3Uploader) Close() error {
	return nil
}

// s3StatusCode extracts the HTTP status code from an AWS SDK v2
// transport error, when present, for retry.NonRetriable's 4xx
// classification.
func s3StatusCode(err error) int {
	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) {
		return respErr.HTTPStatusCode()
	}
	return 0
}
