package converter

import (
	"regexp"
	"strconv"
)

const (
	// DefaultWindowDays is the moving-average window used when the question names no day count.
	DefaultWindowDays = 7
	// DefaultTopN is the per-category limit used when the question has no "top N".
	DefaultTopN = 3
)

var (
	windowDaysPattern = regexp.MustCompile(`(\d+)[- ]day`)
	topNPattern       = regexp.MustCompile(`top (\d+)`)
)

// WindowDays extracts the N from "N-day" or "N day", defaulting to DefaultWindowDays.
// Zero and values that do not fit an int also fall back to the default.
func WindowDays(text string) int {
	return extractOrDefault(windowDaysPattern, text, DefaultWindowDays)
}

// TopN extracts the N from "top N", defaulting to DefaultTopN.
func TopN(text string) int {
	return extractOrDefault(topNPattern, text, DefaultTopN)
}

func extractOrDefault(re *regexp.Regexp, text string, def int) int {
	matches := re.FindStringSubmatch(text)
	if len(matches) < 2 {
		return def
	}
	n, err := strconv.Atoi(matches[1])
	if err != nil || n < 1 {
		return def
	}
	return n
}
