// Package orchestrator sequences the per-environment scan pipeline:
// fetch, filter, project, report, then cross-environment aggregation.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/yairfalse/tagscope/credentials"
	"github.com/yairfalse/tagscope/fetcher"
	"github.com/yairfalse/tagscope/filter"
	"github.com/yairfalse/tagscope/matrix"
	"github.com/yairfalse/tagscope/report"
	"github.com/yairfalse/tagscope/storage"
	"github.com/yairfalse/tagscope/summary"
	"github.com/yairfalse/tagscope/telemetry"
	"github.com/yairfalse/tagscope/types"
)

// ClientFactory builds a tagging API client for one environment's
// credentials. Injected so tests can fake the upstream.
type ClientFactory func(ctx context.Context, creds credentials.Credentials) (fetcher.TaggingAPI, error)

// Config wires an Orchestrator.
type Config struct {
	Credentials []credentials.Credentials
	Rule        *filter.Rule   // nil when no rule document is configured
	Writer      *report.Writer
	Store       *storage.Store // nil disables run history
	MaxRetries  int
	Logger      *telemetry.Logger
	NewClient   ClientFactory // defaults to the real AWS client
}

// Orchestrator runs the scan pipeline over every environment in order.
type Orchestrator struct {
	creds      []credentials.Credentials
	rule       *filter.Rule
	writer     *report.Writer
	store      *storage.Store
	maxRetries int
	logger     *telemetry.Logger
	newClient  ClientFactory
}

// New creates an Orchestrator from a Config.
func New(cfg Config) *Orchestrator {
	newClient := cfg.NewClient
	if newClient == nil {
		newClient = func(ctx context.Context, creds credentials.Credentials) (fetcher.TaggingAPI, error) {
			return fetcher.NewClient(ctx, creds)
		}
	}

	return &Orchestrator{
		creds:      cfg.Credentials,
		rule:       cfg.Rule,
		writer:     cfg.Writer,
		store:      cfg.Store,
		maxRetries: cfg.MaxRetries,
		logger:     cfg.Logger,
		newClient:  newClient,
	}
}

// Run processes environments sequentially, strictly in credential-discovery
// order. Each environment gets its own client built from its own credential
// values, so nothing is shared across environments. A failure in any
// environment aborts the whole run; no partial report is presented as
// complete.
func (o *Orchestrator) Run(ctx context.Context) error {
	environments := make([]string, 0, len(o.creds))
	data := make(map[string][]types.Resource, len(o.creds))

	for _, creds := range o.creds {
		resources, err := o.processEnvironment(ctx, creds)
		if err != nil {
			o.logger.LogEnvironmentError(ctx, creds.Environment, err)
			return fmt.Errorf("environment %s: %w", creds.Environment, err)
		}
		environments = append(environments, creds.Environment)
		data[creds.Environment] = resources
	}

	if err := o.writeSummaries(ctx, environments, data); err != nil {
		return err
	}

	if o.store != nil {
		if _, err := o.store.RecordRun(environments, data); err != nil {
			return fmt.Errorf("record run history: %w", err)
		}
	}

	o.logger.LogRunComplete(ctx, len(environments), o.writer.Dir())
	return nil
}

// processEnvironment fetches one environment and writes its per-environment
// reports. The fetched (pre-filter) set is returned for aggregation, so each
// environment is fetched exactly once per run.
func (o *Orchestrator) processEnvironment(ctx context.Context, creds credentials.Credentials) ([]types.Resource, error) {
	client, err := o.newClient(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("build client: %w", err)
	}

	f := fetcher.New(client, creds.Environment, creds.Region, o.maxRetries, o.logger)
	resources, err := f.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	scoped := resources
	if o.rule != nil {
		scoped = o.rule.Apply(resources)
	}

	if _, err := o.writer.WriteEnvironment(ctx, creds.Environment, matrix.Project(scoped)); err != nil {
		return nil, err
	}

	if o.rule != nil && o.rule.FocusKey() != "" {
		focused := matrix.ProjectFocused(scoped, o.rule.FocusKey(), o.rule.ExcludeValues)
		if _, err := o.writer.WriteEnvironmentFocused(ctx, creds.Environment, focused); err != nil {
			return nil, err
		}
	}

	return resources, nil
}

// writeSummaries emits the cross-environment views. Summaries aggregate the
// fetched sets, not the filtered ones: coverage counting needs the resources
// the filter would drop.
func (o *Orchestrator) writeSummaries(ctx context.Context, environments []string, data map[string][]types.Resource) error {
	if _, err := o.writer.WriteSummary(ctx, environments, summary.Build(environments, data)); err != nil {
		return err
	}

	if o.rule != nil && !o.rule.IsEmpty() {
		rows := summary.BuildCoverage(environments, data, o.rule)
		if _, err := o.writer.WriteCoverage(ctx, rows, o.rule); err != nil {
			return err
		}
	}

	return nil
}
