// Package assistant implements the three request pipelines: translating a
// natural-language question into executed SQL, summarizing a table, and
// explaining a SQL statement.
package assistant

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/datapilotco/datapilot/pkg/llm"
	"github.com/datapilotco/datapilot/pkg/logger"
	"github.com/datapilotco/datapilot/pkg/sqlstore"
)

// MaxQuestionLen caps the accepted question length in characters.
const MaxQuestionLen = 1000

// MaxSampleSize caps the sample rows gathered for a table summary.
const MaxSampleSize = 20

// Detail levels accepted by Explain.
const (
	DetailBeginner     = "beginner"
	DetailIntermediate = "intermediate"
	DetailAdvanced     = "advanced"
)

// Assistant runs the pipelines against one LLM client and one store.
type Assistant struct {
	client    llm.Client
	store     *sqlstore.Store
	log       *slog.Logger
	extractor Extractor
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log *slog.Logger) Option {
	return func(a *Assistant) {
		a.log = log
	}
}

// WithExtractor overrides the SQL extraction strategy.
func WithExtractor(e Extractor) Option {
	return func(a *Assistant) {
		a.extractor = e
	}
}

// New builds an Assistant around the given model client and store.
func New(client llm.Client, store *sqlstore.Store, opts ...Option) *Assistant {
	a := &Assistant{
		client:    client,
		store:     store,
		log:       logger.Nop(),
		extractor: DefaultExtractor{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// QueryParams carries one natural-language query request.
type QueryParams struct {
	Question  string
	TableName string
	Execute   bool
	Limit     int
}

// QueryResult is the outcome of a query pipeline run. Rows and timing are
// zero when execution was skipped.
type QueryResult struct {
	Question    string
	SQL         string
	Explanation string
	Columns     []string
	Rows        []map[string]any
	RowCount    int
	ElapsedMs   float64
	Executed    bool
}

// Query translates the question into SQL via the model, validates it, and
// (unless params.Execute is false) runs it against the sample database.
func (a *Assistant) Query(ctx context.Context, params QueryParams) (*QueryResult, error) {
	question := strings.TrimSpace(params.Question)
	if question == "" {
		return nil, &ValidationError{Field: "question", Reason: "must not be empty"}
	}
	if len(question) > MaxQuestionLen {
		return nil, &ValidationError{Field: "question", Reason: "too long"}
	}

	if params.TableName != "" {
		exists, err := a.store.TableExists(ctx, params.TableName)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, &sqlstore.UnknownTableError{Table: params.TableName}
		}
	}

	schemaText, err := a.store.SchemaText(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := a.generate(ctx, querySystemPrompt, buildQueryPrompt(question, schemaText, params.TableName))
	if err != nil {
		return nil, err
	}

	extraction, err := a.extractor.Extract(raw)
	if err != nil {
		a.log.Warn("no SQL in model output", "provider", a.client.Name())
		return nil, err
	}

	result := &QueryResult{
		Question:    question,
		SQL:         extraction.SQL,
		Explanation: extraction.Explanation,
	}

	if !params.Execute {
		if err := sqlstore.ValidateReadOnly(extraction.SQL); err != nil {
			return nil, err
		}
		return result, nil
	}

	execResult, err := a.store.Execute(ctx, extraction.SQL)
	if err != nil {
		return nil, err
	}

	rows := execResult.Rows
	if params.Limit > 0 && params.Limit < len(rows) {
		rows = rows[:params.Limit]
	}

	result.Columns = execResult.Columns
	result.Rows = rows
	result.RowCount = len(rows)
	result.ElapsedMs = execResult.ElapsedMs()
	result.Executed = true

	a.log.Debug("query pipeline complete",
		"rows", result.RowCount,
		"elapsed_ms", result.ElapsedMs,
	)
	return result, nil
}

// SummarizeParams carries one table summary request.
type SummarizeParams struct {
	Table             string
	IncludeSampleData bool
	SampleSize        int
	FocusAreas        []string
}

// SummarizeResult bundles the narrative with the statistics it was built
// from.
type SummarizeResult struct {
	Table       string
	RowCount    int
	ColumnCount int
	Columns     []sqlstore.ColumnStats
	Quality     *sqlstore.QualityMetrics
	Summary     string
	Insights    []string
	SampleData  []map[string]any
}

// Summarize gathers statistics for the table and asks the model for a
// narrative summary. Unknown tables fail before any model call.
func (a *Assistant) Summarize(ctx context.Context, params SummarizeParams) (*SummarizeResult, error) {
	table := strings.TrimSpace(params.Table)
	if table == "" {
		return nil, &ValidationError{Field: "table_name", Reason: "must not be empty"}
	}

	info, err := a.store.Table(ctx, table)
	if err != nil {
		return nil, err
	}

	stats, err := a.store.ColumnStatistics(ctx, table)
	if err != nil {
		return nil, err
	}

	quality, err := a.store.DataQuality(ctx, table)
	if err != nil {
		return nil, err
	}

	var sample *sqlstore.Result
	if params.IncludeSampleData {
		size := params.SampleSize
		if size > MaxSampleSize {
			size = MaxSampleSize
		}
		sample, err = a.store.Sample(ctx, table, size)
		if err != nil {
			return nil, err
		}
	}

	raw, err := a.generate(ctx, summarizeSystemPrompt, buildSummarizePrompt(info, stats, quality, sample, params.FocusAreas))
	if err != nil {
		return nil, err
	}

	summary, insights := extractSummary(raw)
	result := &SummarizeResult{
		Table:       table,
		RowCount:    info.RowCount,
		ColumnCount: len(info.Columns),
		Columns:     stats,
		Quality:     quality,
		Summary:     summary,
		Insights:    insights,
	}
	if sample != nil {
		result.SampleData = sample.Rows
	}
	return result, nil
}

// ExplainParams carries one SQL explanation request.
type ExplainParams struct {
	SQL         string
	DetailLevel string
	IncludeTips bool
}

// ExplainResult is the model's description of a SQL statement.
type ExplainResult struct {
	SQL         string
	Explanation string
	DetailLevel string
	Tables      []string
}

// Explain asks the model to describe the statement at the requested detail
// level. The statement is never executed.
func (a *Assistant) Explain(ctx context.Context, params ExplainParams) (*ExplainResult, error) {
	sqlQuery := strings.TrimSpace(params.SQL)
	if sqlQuery == "" {
		return nil, &ValidationError{Field: "sql_query", Reason: "must not be empty"}
	}

	level := params.DetailLevel
	if level == "" {
		level = DetailIntermediate
	}
	switch level {
	case DetailBeginner, DetailIntermediate, DetailAdvanced:
	default:
		return nil, &ValidationError{Field: "detail_level", Reason: "must be beginner, intermediate or advanced"}
	}

	raw, err := a.generate(ctx, explainSystemPrompt, buildExplainPrompt(sqlQuery, level, params.IncludeTips))
	if err != nil {
		return nil, err
	}

	return &ExplainResult{
		SQL:         sqlQuery,
		Explanation: strings.TrimSpace(raw),
		DetailLevel: level,
		Tables:      tablesInvolved(sqlQuery),
	}, nil
}

func (a *Assistant) generate(ctx context.Context, system, prompt string) (string, error) {
	raw, err := a.client.Generate(ctx, llm.Request{System: system, Prompt: prompt})
	if err != nil {
		var llmErr *llm.Error
		if errors.As(err, &llmErr) {
			a.log.Error("llm call failed",
				"provider", llmErr.Provider,
				"kind", llmErr.Kind,
				"error", llmErr.Err,
			)
		}
		return "", &UpstreamLLMError{Provider: a.client.Name(), Err: err}
	}
	return raw, nil
}
