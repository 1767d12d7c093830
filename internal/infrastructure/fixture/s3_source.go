package fixture

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dreschagin/support-dashboard/internal/infrastructure/awsconfig"
)

const maxFixtureBytes = 32 * 1024 * 1024

type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type S3Config struct {
	AWS          awsconfig.Options
	UsePathStyle bool
}

// S3Source reads fixture objects from S3 or an S3-compatible store.
type S3Source struct {
	client objectGetter
}

var _ ObjectReader = (*S3Source)(nil)

func NewS3Source(ctx context.Context, cfg S3Config) (*S3Source, error) {
	awsCfg, err := awsconfig.Load(ctx, cfg.AWS)
	if err != nil {
		return nil, fmt.Errorf("failed to create aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(options *s3.Options) {
		options.UsePathStyle = cfg.UsePathStyle
	})

	return &S3Source{client: client}, nil
}

func (s *S3Source) ReadObject(ctx context.Context, bucket, key string) ([]byte, error) {
	if strings.TrimSpace(bucket) == "" || strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("bucket and key are required")
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object failed: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, maxFixtureBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read object failed: %w", err)
	}
	if len(data) > maxFixtureBytes {
		return nil, fmt.Errorf("object s3://%s/%s exceeds %d bytes", bucket, key, maxFixtureBytes)
	}
	return data, nil
}
