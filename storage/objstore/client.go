package objstore

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type ClientParams struct {
	Region   string
	Profile  string
	Endpoint string
	// Static credentials, mostly for S3 compatible stores running locally.
	// When empty the default credential chain is used.
	AccessKeyID     string
	SecretAccessKey string
}

// NewClient loads AWS configuration and returns an S3 client. A custom
// endpoint switches the client to path-style addressing.
func NewClient(ctx context.Context, params ClientParams) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		func(lo *config.LoadOptions) error {
			if params.Region != "" {
				lo.Region = params.Region
			}
			if params.Profile != "" {
				lo.SharedConfigProfile = params.Profile
			}
			if params.AccessKeyID != "" {
				lo.Credentials = credentials.NewStaticCredentialsProvider(params.AccessKeyID, params.SecretAccessKey, "")
			}
			return nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return s3.NewFromConfig(cfg, func(opts *s3.Options) {
		if params.Endpoint != "" {
			opts.BaseEndpoint = aws.String(params.Endpoint)
			opts.UsePathStyle = true
		}
	}), nil
}
