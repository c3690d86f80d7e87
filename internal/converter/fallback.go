package converter

import "strings"

// fallbackTriggers are the substrings the fallback generator reacts to.
var fallbackTriggers = []string{"count", "where", "from new york"}

// fallbackSQL builds a plain customers query for text no pattern matched.
func fallbackSQL(text string) string {
	cols := "*"
	if strings.Contains(text, "count") {
		cols = "COUNT(*) as total_count"
	}

	var sql strings.Builder
	sql.WriteString("SELECT ")
	sql.WriteString(cols)
	sql.WriteString(" FROM customers")
	if strings.Contains(text, "where") || strings.Contains(text, "from new york") {
		sql.WriteString(" WHERE city = 'New York'")
	}
	sql.WriteString(";")
	return sql.String()
}
