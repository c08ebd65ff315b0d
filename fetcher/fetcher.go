// Package fetcher retrieves all tagged-resource records for one region,
// handling cursor-based pagination and bounded retry on transient failure.
package fetcher

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi"
	rgtatypes "github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi/types"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/yairfalse/tagscope/telemetry"
	"github.com/yairfalse/tagscope/types"
)

// DefaultMaxRetries bounds transient failures per fetch when unset.
const DefaultMaxRetries = 3

// TaggingAPI is the slice of the resourcegroupstaggingapi client the fetcher
// needs. Narrow on purpose so tests can fake pagination and failures.
type TaggingAPI interface {
	GetResources(ctx context.Context, params *resourcegroupstaggingapi.GetResourcesInput,
		optFns ...func(*resourcegroupstaggingapi.Options)) (*resourcegroupstaggingapi.GetResourcesOutput, error)
}

// Fetcher pulls every tagged resource of one environment's region.
type Fetcher struct {
	client      TaggingAPI
	environment string
	region      string
	maxRetries  int
	logger      *telemetry.Logger
}

// New creates a Fetcher for one environment.
func New(client TaggingAPI, environment, region string, maxRetries int, logger *telemetry.Logger) *Fetcher {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Fetcher{
		client:      client,
		environment: environment,
		region:      region,
		maxRetries:  maxRetries,
		logger:      logger,
	}
}

// Fetch retrieves all tagged resources, following pagination cursors until
// the API stops returning one. The retry budget is shared across the whole
// fetch, not per page: a transient failure re-issues the same page request
// with the cursor unchanged, so no page already fetched is ever discarded.
// An empty first page with no cursor is a valid empty result, not an error.
func (f *Fetcher) Fetch(ctx context.Context) ([]types.Resource, error) {
	ctx, span := telemetry.Tracer.Start(ctx, "tagscope.fetch",
		trace.WithAttributes(
			attribute.String("aws.region", f.region),
			attribute.String("environment", f.environment),
		),
	)
	defer span.End()

	start := time.Now()
	f.logger.LogFetchStart(ctx, f.environment, f.region)

	var resources []types.Resource
	var cursor *string
	retries := 0

	for {
		out, err := f.fetchPage(ctx, cursor, &retries)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}

		telemetry.PagesFetched.Add(ctx, 1)
		for _, mapping := range out.ResourceTagMappingList {
			resources = append(resources, convertMapping(mapping))
		}
		f.logger.LogFetchPage(ctx, f.environment, len(out.ResourceTagMappingList), len(resources))

		cursor = out.PaginationToken
		if aws.ToString(cursor) == "" {
			break
		}
	}

	duration := time.Since(start)
	telemetry.ResourcesFetched.Add(ctx, int64(len(resources)),
		metric.WithAttributes(attribute.String("environment", f.environment)))
	telemetry.FetchDuration.Record(ctx, duration.Seconds())
	f.logger.LogFetchComplete(ctx, f.environment, len(resources), float64(duration.Milliseconds()))
	span.SetAttributes(attribute.Int("resources.total", len(resources)))

	return resources, nil
}

// fetchPage issues one page request under the shared retry budget.
func (f *Fetcher) fetchPage(ctx context.Context, cursor *string, retries *int) (*resourcegroupstaggingapi.GetResourcesOutput, error) {
	input := &resourcegroupstaggingapi.GetResourcesInput{PaginationToken: cursor}

	var out *resourcegroupstaggingapi.GetResourcesOutput
	op := func() error {
		var err error
		out, err = f.client.GetResources(ctx, input)
		return err
	}

	if err := f.withRetry(ctx, op, retries); err != nil {
		return nil, err
	}
	return out, nil
}

// withRetry runs op, retrying transient failures while the shared budget
// lasts. The counter is owned by the Fetch loop so the budget spans every
// page of one fetch. Protocol violations and context cancellation surface
// immediately, never retried.
func (f *Fetcher) withRetry(ctx context.Context, op func() error, retries *int) error {
	for {
		err := op()
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !isRetryable(err) {
			return &ProtocolError{Err: err}
		}

		*retries++
		telemetry.FetchRetries.Add(ctx, 1)
		if *retries >= f.maxRetries {
			return &FetchError{Region: f.region, Retries: *retries, Err: err}
		}
		f.logger.LogFetchRetry(ctx, f.environment, *retries, f.maxRetries, err)
	}
}

func convertMapping(mapping rgtatypes.ResourceTagMapping) types.Resource {
	tags := make([]types.Tag, 0, len(mapping.Tags))
	for _, tag := range mapping.Tags {
		tags = append(tags, types.Tag{
			Key:   aws.ToString(tag.Key),
			Value: aws.ToString(tag.Value),
		})
	}
	return types.NewResource(aws.ToString(mapping.ResourceARN), tags)
}
