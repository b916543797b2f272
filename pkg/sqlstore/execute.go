package sqlstore

import (
	"context"
	"errors"
	"time"
)

// Result is the outcome of a successful query execution. Rows preserve the
// result column order via the Columns slice; each row maps column name to
// value.
type Result struct {
	Columns  []string         `json:"columns"`
	Rows     []map[string]any `json:"rows"`
	RowCount int              `json:"row_count"`
	Elapsed  time.Duration    `json:"-"`
}

// ElapsedMs returns the execution time in milliseconds.
func (r *Result) ElapsedMs() float64 {
	return float64(r.Elapsed.Microseconds()) / 1000.0
}

// Execute validates sqlText against the read-only allow-list and runs it
// with the configured timeout. A configured row cap is appended as a LIMIT
// when the statement has none. Deadline overruns map to *QueryTimeoutError,
// database rejections to *QuerySyntaxError.
func (s *Store) Execute(ctx context.Context, sqlText string) (*Result, error) {
	if err := ValidateReadOnly(sqlText); err != nil {
		return nil, err
	}

	sqlText = ensureLimit(sqlText, s.maxRows)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()

	rows, err := s.db.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, s.mapExecError(ctx, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, s.mapExecError(ctx, err)
	}

	resultRows := make([]map[string]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, s.mapExecError(ctx, err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = normalizeValue(values[i])
		}
		resultRows = append(resultRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, s.mapExecError(ctx, err)
	}

	return &Result{
		Columns:  columns,
		Rows:     resultRows,
		RowCount: len(resultRows),
		Elapsed:  time.Since(start),
	}, nil
}

func (s *Store) mapExecError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &QueryTimeoutError{Timeout: s.timeout}
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return &QuerySyntaxError{Err: err}
}

// normalizeValue converts driver-specific values into JSON-friendly ones.
func normalizeValue(v any) any {
	switch value := v.(type) {
	case []byte:
		return string(value)
	case time.Time:
		return value.Format(time.RFC3339)
	default:
		return v
	}
}
