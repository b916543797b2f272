package assistant

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Extraction is what an Extractor pulls out of raw model output. The
// explanation is empty when the model didn't provide one.
type Extraction struct {
	SQL         string
	Explanation string
}

// Extractor pulls a SQL statement out of raw model output.
type Extractor interface {
	Extract(raw string) (*Extraction, error)
}

// DefaultExtractor tries, in order: a JSON object carrying a "sql" key, a
// fenced ```sql code block, and finally the first line that starts with
// SELECT. When nothing matches it returns *ResponseParseError.
type DefaultExtractor struct{}

var (
	fencedSQL  = regexp.MustCompile("(?is)```sql\\s*(.+?)```")
	selectLine = regexp.MustCompile(`(?im)^\s*select\b`)
)

func (DefaultExtractor) Extract(raw string) (*Extraction, error) {
	if ex := extractJSON(raw); ex != nil {
		return ex, nil
	}

	if m := fencedSQL.FindStringSubmatch(raw); m != nil {
		if sql := strings.TrimSpace(m[1]); sql != "" {
			return &Extraction{SQL: sql}, nil
		}
	}

	if loc := selectLine.FindStringIndex(raw); loc != nil {
		rest := raw[loc[0]:]
		if idx := strings.IndexByte(rest, ';'); idx >= 0 {
			rest = rest[:idx+1]
		} else if idx := strings.Index(rest, "```"); idx >= 0 {
			rest = rest[:idx]
		}
		if sql := strings.TrimSpace(rest); sql != "" {
			return &Extraction{SQL: sql}, nil
		}
	}

	return nil, &ResponseParseError{Raw: raw}
}

// extractSummary pulls the summary narrative and insights list out of raw
// model output. Replies that carry no decodable summary object are used
// verbatim as the narrative, with no insights.
func extractSummary(raw string) (string, []string) {
	for i := 0; i < len(raw); i++ {
		if raw[i] != '{' {
			continue
		}
		var payload struct {
			Summary  string   `json:"summary"`
			Insights []string `json:"insights"`
		}
		dec := json.NewDecoder(strings.NewReader(raw[i:]))
		if err := dec.Decode(&payload); err != nil {
			continue
		}
		if summary := strings.TrimSpace(payload.Summary); summary != "" {
			return summary, payload.Insights
		}
	}
	return strings.TrimSpace(raw), nil
}

// extractJSON scans for the first decodable JSON object that carries a
// non-empty "sql" field. Models often wrap the object in prose or a fenced
// block, so every '{' is a candidate start.
func extractJSON(raw string) *Extraction {
	for i := 0; i < len(raw); i++ {
		if raw[i] != '{' {
			continue
		}
		var payload struct {
			SQL         string `json:"sql"`
			Explanation string `json:"explanation"`
		}
		dec := json.NewDecoder(strings.NewReader(raw[i:]))
		if err := dec.Decode(&payload); err != nil {
			continue
		}
		if sql := strings.TrimSpace(payload.SQL); sql != "" {
			return &Extraction{SQL: sql, Explanation: strings.TrimSpace(payload.Explanation)}
		}
	}
	return nil
}
