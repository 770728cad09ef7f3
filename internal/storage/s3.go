// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/pdiddy/csv2parquet/internal/secrets"
	"github.com/pdiddy/csv2parquet/pkg/types"
)

const parquetContentType = "application/vnd.apache.parquet"

// S3Store reads and writes objects in Amazon S3 or an S3-compatible service.
type S3Store struct {
	client s3iface.S3API
}

// NewS3Store wraps an S3 client.
func NewS3Store(client s3iface.S3API) *S3Store {
	return &S3Store{client: client}
}

// NewS3Client builds an S3 client from cfg. Static credentials are used when
// keys holds both an access key ID and a secret access key; otherwise the
// SDK default credential chain applies (environment, shared config, Lambda
// execution role).
func NewS3Client(cfg types.StorageConfig, keys map[string]string) (*s3.S3, error) {
	awsCfg := aws.NewConfig()
	if cfg.Region != "" {
		awsCfg = awsCfg.WithRegion(cfg.Region)
	}
	if cfg.Endpoint != "" {
		awsCfg = awsCfg.WithEndpoint(cfg.Endpoint)
	}
	if cfg.ForcePathStyle {
		awsCfg = awsCfg.WithS3ForcePathStyle(true)
	}

	if id, secret, token, ok := secrets.AWSCredentials(keys); ok {
		awsCfg = awsCfg.WithCredentials(credentials.NewStaticCredentials(id, secret, token))
	}

	sess, err := session.NewSessionWithOptions(session.Options{
		Config:            *awsCfg,
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, fmt.Errorf("creating AWS session: %w", err)
	}
	return s3.New(sess), nil
}

func (s *S3Store) Open(ctx context.Context, loc Locator) (io.ReadCloser, error) {
	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("getting %s: %w", loc, err)
	}
	return out.Body, nil
}

func (s *S3Store) Write(ctx context.Context, loc Locator, r io.ReadSeeker) error {
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(loc.Bucket),
		Key:         aws.String(loc.Key),
		Body:        r,
		ContentType: aws.String(parquetContentType),
	})
	if err != nil {
		return fmt.Errorf("putting %s: %w", loc, err)
	}
	return nil
}
