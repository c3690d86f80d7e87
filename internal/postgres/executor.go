package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// ResultSet holds the rows returned by an executed statement, formatted for display
type ResultSet struct {
	Columns       []string   `json:"columns"`
	Rows          [][]string `json:"rows"`
	RowCount      int        `json:"row_count"`
	Truncated     bool       `json:"truncated,omitempty"`
	ExecutionTime float64    `json:"execution_time_ms"`
}

// Execute runs query against db and reads at most limit rows.
// The statement is wrapped in a LIMIT subquery first; if that is rejected
// (non-SELECT statements) the original statement is run as-is.
func Execute(ctx context.Context, db *sql.DB, query string, limit int) (*ResultSet, error) {
	if db == nil {
		return nil, fmt.Errorf("no database connection")
	}

	stmt := stripTerminator(query)
	start := time.Now()

	rows, err := db.QueryContext(ctx, limitQuery(stmt, limit))
	if err != nil {
		rows, err = db.QueryContext(ctx, stmt)
		if err != nil {
			return nil, fmt.Errorf("query failed: %w", err)
		}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	result := &ResultSet{Columns: columns}
	for rows.Next() {
		if limit > 0 && len(result.Rows) >= limit {
			result.Truncated = true
			break
		}

		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make([]string, len(columns))
		for i, val := range values {
			row[i] = formatValue(val)
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	result.RowCount = len(result.Rows)
	result.ExecutionTime = time.Since(start).Seconds() * 1000
	return result, nil
}

func stripTerminator(query string) string {
	return strings.TrimRight(strings.TrimSpace(query), "; \n\t")
}

// limitQuery fetches one row past limit so truncation can be detected
func limitQuery(stmt string, limit int) string {
	if limit <= 0 {
		return stmt
	}
	return fmt.Sprintf("SELECT * FROM (%s) AS limited_query LIMIT %d", stmt, limit+1)
}

func formatValue(val interface{}) string {
	if val == nil {
		return "NULL"
	}

	switch v := val.(type) {
	case []byte:
		return string(v)
	case time.Time:
		return v.Format("2006-01-02 15:04:05")
	case float64:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
