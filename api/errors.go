package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/datapilotco/datapilot/pkg/assistant"
	"github.com/datapilotco/datapilot/pkg/llm"
	"github.com/datapilotco/datapilot/pkg/sqlstore"
)

// Error codes returned in the failure envelope.
const (
	CodeValidationFailed    = "VALIDATION_FAILED"
	CodeUnsafeQuery         = "UNSAFE_QUERY"
	CodeQueryFailed         = "QUERY_FAILED"
	CodeQueryTimeout        = "QUERY_TIMEOUT"
	CodeTableNotFound       = "TABLE_NOT_FOUND"
	CodeLLMUnavailable      = "LLM_UNAVAILABLE"
	CodeSQLGenerationFailed = "SQL_GENERATION_FAILED"
	CodeInternalError       = "INTERNAL_ERROR"
)

// ErrorResponse is the failure envelope shared by every endpoint.
type ErrorResponse struct {
	Success   bool           `json:"success"`
	ErrorCode string         `json:"error_code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
}

// writeError maps a pipeline error to its HTTP status and envelope.
func (s *Server) writeError(c *fiber.Ctx, err error) error {
	status, resp := classifyError(err)

	if status >= fiber.StatusInternalServerError {
		s.logger.Error("request failed",
			"request_id", c.Locals("request_id"),
			"error_code", resp.ErrorCode,
			"error", err,
		)
	}

	return c.Status(status).JSON(resp)
}

func classifyError(err error) (int, ErrorResponse) {
	var (
		validationErr *assistant.ValidationError
		parseErr      *assistant.ResponseParseError
		upstreamErr   *assistant.UpstreamLLMError
		unsafeErr     *sqlstore.UnsafeQueryError
		syntaxErr     *sqlstore.QuerySyntaxError
		timeoutErr    *sqlstore.QueryTimeoutError
		unknownErr    *sqlstore.UnknownTableError
	)

	switch {
	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest, ErrorResponse{
			ErrorCode: CodeValidationFailed,
			Message:   validationErr.Error(),
			Details:   map[string]any{"field": validationErr.Field},
		}
	case errors.As(err, &unsafeErr):
		return fiber.StatusBadRequest, ErrorResponse{
			ErrorCode: CodeUnsafeQuery,
			Message:   unsafeErr.Error(),
		}
	case errors.As(err, &unknownErr):
		return fiber.StatusNotFound, ErrorResponse{
			ErrorCode: CodeTableNotFound,
			Message:   unknownErr.Error(),
			Details:   map[string]any{"table": unknownErr.Table},
		}
	case errors.As(err, &timeoutErr):
		return fiber.StatusGatewayTimeout, ErrorResponse{
			ErrorCode: CodeQueryTimeout,
			Message:   timeoutErr.Error(),
		}
	case errors.As(err, &syntaxErr):
		return fiber.StatusBadRequest, ErrorResponse{
			ErrorCode: CodeQueryFailed,
			Message:   syntaxErr.Error(),
		}
	case errors.As(err, &parseErr):
		return fiber.StatusBadGateway, ErrorResponse{
			ErrorCode: CodeSQLGenerationFailed,
			Message:   "the model did not produce a usable SQL statement",
		}
	case errors.As(err, &upstreamErr):
		resp := ErrorResponse{
			ErrorCode: CodeLLMUnavailable,
			Message:   "the language model is unavailable",
		}
		if kind, ok := llm.KindOf(err); ok {
			resp.Details = map[string]any{"kind": string(kind)}
		}
		return fiber.StatusBadGateway, resp
	default:
		return fiber.StatusInternalServerError, ErrorResponse{
			ErrorCode: CodeInternalError,
			Message:   "internal error",
		}
	}
}
