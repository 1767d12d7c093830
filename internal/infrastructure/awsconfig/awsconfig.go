package awsconfig

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// Options describe how to reach AWS (or a compatible endpoint such as LocalStack).
type Options struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// Load builds an AWS config. Static credentials are used only when both parts are set,
// otherwise the default provider chain applies.
func Load(ctx context.Context, opts Options) (aws.Config, error) {
	if strings.TrimSpace(opts.Region) == "" {
		return aws.Config{}, fmt.Errorf("region is required")
	}

	optFns := []func(*config.LoadOptions) error{
		config.WithRegion(opts.Region),
	}

	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		optFns = append(optFns, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}

	// Override endpoint if specified (for LocalStack testing)
	if endpoint := strings.TrimSpace(opts.Endpoint); endpoint != "" {
		cfg.BaseEndpoint = aws.String(endpoint)
	}

	return cfg, nil
}
