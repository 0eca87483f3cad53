// Package storage puts uploaded files and backups into object storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectStore stores an object and returns the URL it can be fetched from
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store stores objects in a single S3 bucket
type S3Store struct {
	client        s3API
	bucket        string
	region        string
	publicBaseURL string
}

// NewS3Store creates a store for bucket. publicBaseURL, when set, is used to build object URLs
// (a CDN in front of the bucket, for example).
func NewS3Store(awsCfg aws.Config, bucket, publicBaseURL string) *S3Store {
	return &S3Store{
		client:        s3.NewFromConfig(awsCfg),
		bucket:        bucket,
		region:        awsCfg.Region,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// Put uploads body under key
func (s *S3Store) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload %s to s3://%s: %w", key, s.bucket, err)
	}
	return s.URL(key), nil
}

// URL returns the public URL of key
func (s *S3Store) URL(key string) string {
	escaped := (&url.URL{Path: key}).EscapedPath()
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + escaped
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, escaped)
}
