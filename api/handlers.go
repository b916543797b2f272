package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/datapilotco/datapilot/pkg/assistant"
	"github.com/datapilotco/datapilot/pkg/sqlstore"
	"github.com/datapilotco/datapilot/pkg/utils"
)

// QueryRequest is the body of POST /api/query. Execute defaults to true.
type QueryRequest struct {
	Question  string `json:"question"`
	TableName string `json:"table_name,omitempty"`
	Execute   *bool  `json:"execute,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

// QueryResponse is the success body of POST /api/query.
type QueryResponse struct {
	Success          bool             `json:"success"`
	OriginalQuestion string           `json:"original_question"`
	GeneratedSQL     string           `json:"generated_sql"`
	Explanation      string           `json:"explanation"`
	Columns          []string         `json:"columns,omitempty"`
	Results          []map[string]any `json:"results"`
	RowCount         int              `json:"row_count"`
	ExecutionTimeMs  float64          `json:"execution_time_ms"`
}

// SummarizeRequest is the body of POST /api/summarize. IncludeSampleData
// defaults to true with five sample rows.
type SummarizeRequest struct {
	TableName         string   `json:"table_name"`
	IncludeSampleData *bool    `json:"include_sample_data,omitempty"`
	SampleSize        int      `json:"sample_size,omitempty"`
	FocusAreas        []string `json:"focus_areas,omitempty"`
}

// SummarizeResponse is the success body of POST /api/summarize.
type SummarizeResponse struct {
	Success     bool                     `json:"success"`
	TableName   string                   `json:"table_name"`
	RowCount    int                      `json:"row_count"`
	ColumnCount int                      `json:"column_count"`
	Columns     []sqlstore.ColumnStats   `json:"columns"`
	DataQuality *sqlstore.QualityMetrics `json:"data_quality"`
	Summary     string                   `json:"summary"`
	Insights    []string                 `json:"insights,omitempty"`
	SampleData  []map[string]any         `json:"sample_data,omitempty"`
}

// ExplainRequest is the body of POST /api/explain.
type ExplainRequest struct {
	SQLQuery                string `json:"sql_query"`
	DetailLevel             string `json:"detail_level,omitempty"`
	IncludeOptimizationTips bool   `json:"include_optimization_tips,omitempty"`
}

// ExplainResponse is the success body of POST /api/explain.
type ExplainResponse struct {
	Success        bool     `json:"success"`
	OriginalQuery  string   `json:"original_query"`
	Explanation    string   `json:"explanation"`
	TablesInvolved []string `json:"tables_involved"`
	DetailLevel    string   `json:"detail_level"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status            string `json:"status"`
	Version           string `json:"version"`
	LLMProvider       string `json:"llm_provider"`
	DatabaseConnected bool   `json:"database_connected"`
}

func (s *Server) handleQuery(c *fiber.Ctx) error {
	var req QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return s.writeError(c, &assistant.ValidationError{Field: "body", Reason: "malformed JSON"})
	}

	execute := true
	if req.Execute != nil {
		execute = *req.Execute
	}

	result, err := s.assistant.Query(c.Context(), assistant.QueryParams{
		Question:  req.Question,
		TableName: req.TableName,
		Execute:   execute,
		Limit:     req.Limit,
	})
	if err != nil {
		return s.writeError(c, err)
	}

	resp := QueryResponse{
		Success:          true,
		OriginalQuestion: result.Question,
		GeneratedSQL:     result.SQL,
		Explanation:      result.Explanation,
		Columns:          result.Columns,
		Results:          result.Rows,
		RowCount:         result.RowCount,
		ExecutionTimeMs:  result.ElapsedMs,
	}
	if resp.Results == nil {
		resp.Results = []map[string]any{}
	}
	return c.JSON(resp)
}

func (s *Server) handleSummarize(c *fiber.Ctx) error {
	var req SummarizeRequest
	if err := c.BodyParser(&req); err != nil {
		return s.writeError(c, &assistant.ValidationError{Field: "body", Reason: "malformed JSON"})
	}

	includeSample := true
	if req.IncludeSampleData != nil {
		includeSample = *req.IncludeSampleData
	}

	result, err := s.assistant.Summarize(c.Context(), assistant.SummarizeParams{
		Table:             req.TableName,
		IncludeSampleData: includeSample,
		SampleSize:        req.SampleSize,
		FocusAreas:        req.FocusAreas,
	})
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(SummarizeResponse{
		Success:     true,
		TableName:   result.Table,
		RowCount:    result.RowCount,
		ColumnCount: result.ColumnCount,
		Columns:     result.Columns,
		DataQuality: result.Quality,
		Summary:     result.Summary,
		Insights:    result.Insights,
		SampleData:  result.SampleData,
	})
}

func (s *Server) handleExplain(c *fiber.Ctx) error {
	var req ExplainRequest
	if err := c.BodyParser(&req); err != nil {
		return s.writeError(c, &assistant.ValidationError{Field: "body", Reason: "malformed JSON"})
	}

	result, err := s.assistant.Explain(c.Context(), assistant.ExplainParams{
		SQL:         req.SQLQuery,
		DetailLevel: req.DetailLevel,
		IncludeTips: req.IncludeOptimizationTips,
	})
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(ExplainResponse{
		Success:        true,
		OriginalQuery:  result.SQL,
		Explanation:    result.Explanation,
		TablesInvolved: result.Tables,
		DetailLevel:    result.DetailLevel,
	})
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	resp := HealthResponse{
		Status:      "healthy",
		Version:     utils.Version,
		LLMProvider: s.client.Name(),
	}
	if err := s.store.Ping(c.Context()); err == nil {
		resp.DatabaseConnected = true
	} else {
		resp.Status = "degraded"
	}
	return c.JSON(resp)
}

func (s *Server) handleSchema(c *fiber.Ctx) error {
	schema, err := s.store.SchemaInfo(c.Context())
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(schema)
}

func (s *Server) handleIndex(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": "datapilot",
		"version": utils.Version,
		"endpoints": fiber.Map{
			"query":     "POST /api/query",
			"summarize": "POST /api/summarize",
			"explain":   "POST /api/explain",
			"health":    "GET /health",
			"schema":    "GET /schema",
		},
	})
}
