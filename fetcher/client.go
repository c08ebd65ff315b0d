package fetcher

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi"

	"github.com/yairfalse/tagscope/credentials"
)

// NewClient builds a tagging API client bound to one environment's
// credentials. Credentials are passed as explicit values, never through
// process environment variables, so environments cannot race on shared state.
func NewClient(ctx context.Context, creds credentials.Credentials) (*resourcegroupstaggingapi.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(creds.Region),
		awsconfig.WithCredentialsProvider(awscreds.NewStaticCredentialsProvider(
			creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken)),
		// The fetcher owns the retry budget; the SDK must not retry underneath it.
		awsconfig.WithRetryer(func() aws.Retryer { return aws.NopRetryer{} }),
	)
	if err != nil {
		return nil, fmt.Errorf("load AWS config for %s: %w", creds.Environment, err)
	}

	return resourcegroupstaggingapi.NewFromConfig(cfg), nil
}
