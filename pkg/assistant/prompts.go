package assistant

import (
	"fmt"
	"strings"

	"github.com/datapilotco/datapilot/pkg/sqlstore"
)

const querySystemPrompt = `You are a SQL assistant for a SQLite database.
Given a schema and a question, respond with a single JSON object of the form
{"sql": "<one SELECT statement>", "explanation": "<one or two sentences>"}.
Only SELECT statements are allowed. Do not wrap the JSON in markdown.`

const summarizeSystemPrompt = `You are a data analyst. Given statistics about
a database table, respond with a single JSON object of the form
{"summary": "<a concise narrative paragraph>", "insights": ["<notable finding>", ...]}.
Call out notable distributions, data quality issues, and anything surprising.
Do not wrap the JSON in markdown.`

const explainSystemPrompt = `You are a SQL tutor. Explain the given SQL
statement in plain prose at the requested level of detail. Do not execute or
correct the statement.`

func buildQueryPrompt(question, schemaText, tableHint string) string {
	var b strings.Builder
	b.WriteString("Database schema:\n\n")
	b.WriteString(schemaText)
	if tableHint != "" {
		fmt.Fprintf(&b, "\nThe question is about the %q table.\n", tableHint)
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	return b.String()
}

func buildSummarizePrompt(info *sqlstore.TableInfo, stats []sqlstore.ColumnStats, quality *sqlstore.QualityMetrics, sample *sqlstore.Result, focusAreas []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Table %q has %d rows and %d columns.\n\nColumns:\n", info.Name, info.RowCount, len(info.Columns))
	for _, cs := range stats {
		fmt.Fprintf(&b, "  - %s (%s): %d nulls, %d distinct values", cs.Name, cs.Type, cs.NullCount, cs.DistinctCount)
		if cs.Min != nil && cs.Max != nil {
			fmt.Fprintf(&b, ", min %g, max %g", *cs.Min, *cs.Max)
		}
		if cs.Avg != nil {
			fmt.Fprintf(&b, ", avg %g", *cs.Avg)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nData quality: %.2f%% complete, %d null cells, %d duplicated row groups, first-column unique ratio %.4f.\n",
		quality.Completeness, quality.NullCount, quality.DuplicateCount, quality.UniqueRatio)

	if sample != nil && sample.RowCount > 0 {
		fmt.Fprintf(&b, "\nSample rows (%d):\n", sample.RowCount)
		for _, row := range sample.Rows {
			parts := make([]string, 0, len(sample.Columns))
			for _, col := range sample.Columns {
				parts = append(parts, fmt.Sprintf("%s=%v", col, row[col]))
			}
			fmt.Fprintf(&b, "  %s\n", strings.Join(parts, ", "))
		}
	}

	if len(focusAreas) > 0 {
		fmt.Fprintf(&b, "\nFocus the summary on: %s.\n", strings.Join(focusAreas, ", "))
	}

	b.WriteString("\nSummarize this table.")
	return b.String()
}

func buildExplainPrompt(sqlQuery, detailLevel string, includeTips bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Explain this SQL at a %s level:\n\n%s\n", detailLevel, sqlQuery)
	switch detailLevel {
	case DetailBeginner:
		b.WriteString("\nAssume the reader has never written SQL. Avoid jargon.\n")
	case DetailAdvanced:
		b.WriteString("\nThe reader is an experienced engineer. Cover join order, index use, and evaluation details.\n")
	}
	if includeTips {
		b.WriteString("\nEnd with concrete optimization suggestions for this statement.\n")
	}
	return b.String()
}
