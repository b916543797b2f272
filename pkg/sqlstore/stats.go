package sqlstore

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// ColumnStats holds per-column statistics used by the summarize pipeline.
// Min, Max and Avg are only populated for numeric columns.
type ColumnStats struct {
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	Nullable      bool     `json:"nullable"`
	NullCount     int      `json:"null_count"`
	DistinctCount int      `json:"distinct_count"`
	Min           *float64 `json:"min,omitempty"`
	Max           *float64 `json:"max,omitempty"`
	Avg           *float64 `json:"avg,omitempty"`
}

// QualityMetrics summarizes data quality for a table.
type QualityMetrics struct {
	// Completeness is the percentage of non-null cells.
	Completeness float64 `json:"completeness"`
	NullCount    int     `json:"null_count"`
	// DuplicateCount is the number of fully-duplicated row groups.
	DuplicateCount int `json:"duplicate_count"`
	// UniqueRatio is distinct values of the first column over row count.
	UniqueRatio float64 `json:"unique_ratio"`
}

// ColumnStatistics computes per-column statistics for the named table.
// Returns *UnknownTableError when the table doesn't exist.
func (s *Store) ColumnStatistics(ctx context.Context, table string) ([]ColumnStats, error) {
	info, err := s.Table(ctx, table)
	if err != nil {
		return nil, err
	}

	stats := make([]ColumnStats, 0, len(info.Columns))
	for _, col := range info.Columns {
		cs := ColumnStats{
			Name:     col.Name,
			Type:     col.Type,
			Nullable: col.Nullable,
		}

		quotedCol := quoteIdent(col.Name)
		quotedTable := quoteIdent(table)

		err := s.db.QueryRowContext(ctx, fmt.Sprintf(
			"SELECT COUNT(*) FROM %s WHERE %s IS NULL", quotedTable, quotedCol,
		)).Scan(&cs.NullCount)
		if err != nil {
			return nil, fmt.Errorf("null count for %s.%s: %w", table, col.Name, err)
		}

		err = s.db.QueryRowContext(ctx, fmt.Sprintf(
			"SELECT COUNT(DISTINCT %s) FROM %s", quotedCol, quotedTable,
		)).Scan(&cs.DistinctCount)
		if err != nil {
			return nil, fmt.Errorf("distinct count for %s.%s: %w", table, col.Name, err)
		}

		if isNumericType(col.Type) {
			var minVal, maxVal, avgVal *float64
			err = s.db.QueryRowContext(ctx, fmt.Sprintf(
				"SELECT MIN(%s), MAX(%s), AVG(%s) FROM %s",
				quotedCol, quotedCol, quotedCol, quotedTable,
			)).Scan(&minVal, &maxVal, &avgVal)
			if err != nil {
				return nil, fmt.Errorf("numeric stats for %s.%s: %w", table, col.Name, err)
			}
			cs.Min = minVal
			cs.Max = maxVal
			if avgVal != nil {
				rounded := math.Round(*avgVal*100) / 100
				cs.Avg = &rounded
			}
		}

		stats = append(stats, cs)
	}

	return stats, nil
}

// DataQuality computes table-level quality metrics.
// Returns *UnknownTableError when the table doesn't exist.
func (s *Store) DataQuality(ctx context.Context, table string) (*QualityMetrics, error) {
	info, err := s.Table(ctx, table)
	if err != nil {
		return nil, err
	}

	metrics := &QualityMetrics{Completeness: 100, UniqueRatio: 1}
	if len(info.Columns) == 0 {
		return metrics, nil
	}

	quotedTable := quoteIdent(table)

	for _, col := range info.Columns {
		var nulls int
		err := s.db.QueryRowContext(ctx, fmt.Sprintf(
			"SELECT COUNT(*) FROM %s WHERE %s IS NULL", quotedTable, quoteIdent(col.Name),
		)).Scan(&nulls)
		if err != nil {
			return nil, fmt.Errorf("null count for %s.%s: %w", table, col.Name, err)
		}
		metrics.NullCount += nulls
	}

	totalCells := info.RowCount * len(info.Columns)
	if totalCells > 0 {
		metrics.Completeness = math.Round(float64(totalCells-metrics.NullCount)/float64(totalCells)*10000) / 100
	}

	cols := make([]string, 0, len(info.Columns))
	for _, col := range info.Columns {
		cols = append(cols, quoteIdent(col.Name))
	}
	colList := strings.Join(cols, ", ")
	err = s.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT COUNT(*) FROM (
			SELECT %s, COUNT(*) AS cnt
			FROM %s
			GROUP BY %s
			HAVING cnt > 1
		)`, colList, quotedTable, colList,
	)).Scan(&metrics.DuplicateCount)
	if err != nil {
		return nil, fmt.Errorf("duplicate count for %s: %w", table, err)
	}

	if info.RowCount > 0 {
		var distinct int
		err = s.db.QueryRowContext(ctx, fmt.Sprintf(
			"SELECT COUNT(DISTINCT %s) FROM %s", quoteIdent(info.Columns[0].Name), quotedTable,
		)).Scan(&distinct)
		if err != nil {
			return nil, fmt.Errorf("unique ratio for %s: %w", table, err)
		}
		metrics.UniqueRatio = math.Round(float64(distinct)/float64(info.RowCount)*10000) / 10000
	}

	return metrics, nil
}

func isNumericType(colType string) bool {
	switch strings.ToUpper(colType) {
	case "INTEGER", "REAL", "NUMERIC", "FLOAT", "DOUBLE":
		return true
	}
	return false
}
