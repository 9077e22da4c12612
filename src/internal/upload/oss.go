// FILE: src/internal/upload/oss.go
package upload

import (
	"context"
	"fmt"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

// OSSConfig configures an Aliyun OSS-backed Uploader, the reference
// target this specification is written against.
type OSSConfig struct {
	Endpoint        string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
}

// OSSUploader uploads batches to an Aliyun OSS bucket. It reuses a
// single long-lived client/bucket handle across calls, matching the
// reference implementation's "long connection reuse" design.
type OSSUploader struct {
	bucket *oss.Bucket
}

// NewOSSUploader constructs an OSS-backed Uploader from cfg.
func NewOSSUploader(cfg OSSConfig) (*OSSUploader, error) {
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("create OSS client: %w", err)
	}

	bucket, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("open OSS bucket %q: %w", cfg.Bucket, err)
	}

	return &OSSUploader{bucket: bucket}, nil
}

// Upload implements Uploader.
func (u *OSSUploader) Upload(ctx context.Context, objectKey string, content []byte, contentType, contentEncoding string) error {
	options := []oss.Option{
		oss.ContentType(contentType),
		oss.ContentLength(int64(len(content))),
	}
	if contentEncoding != "" {
		options = append(options, oss.ContentEncoding(contentEncoding))
	}

	err := u.bucket.PutObject(objectKey, bytesReader(content), options...)
	if err != nil {
		return &statusError{err: err, code: ossStatusCode(err)}
	}
	return nil
}

// Close implements Uploader. The OSS SDK's client holds no long-lived
// connections that require explicit teardown beyond GC, but the method
// exists so Sender.Stop has a uniform shutdown path across Uploader
// implementations.
func (u *OSSUploader) Close() error {
	return nil
}

// ossStatusCode extracts the HTTP status code from an oss.ServiceError,
// used by retry.NonRetriable to classify 4xx failures as terminal.
func ossStatusCode(err error) int {
	if svcErr, ok := err.(oss.ServiceError); ok {
		return svcErr.StatusCode
	}
	return 0
}
