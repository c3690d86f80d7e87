// Package eval checks the converter's dispatch table against known
// question/SQL pairs.
package eval

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kartoza/kartoza-sql-lab/internal/converter"
)

// Case is a natural-language question plus what the converter must produce for it.
// Empty expectation fields are not checked.
type Case struct {
	Name               string   `yaml:"name"`
	Query              string   `yaml:"query"`
	ExpectedSQL        string   `yaml:"expected_sql,omitempty"`
	ExpectedPattern    string   `yaml:"expected_pattern,omitempty"`
	ExpectedComplexity string   `yaml:"expected_complexity,omitempty"`
	Contains           []string `yaml:"contains,omitempty"`
	ExpectEmpty        bool     `yaml:"expect_empty,omitempty"`
}

// CaseResult holds pass/fail for a single case
type CaseResult struct {
	Name         string `json:"name"`
	Passed       bool   `json:"passed"`
	Query        string `json:"query"`
	Pattern      string `json:"pattern,omitempty"`
	Complexity   string `json:"complexity,omitempty"`
	GeneratedSQL string `json:"generated_sql,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Summary is just counts
type Summary struct {
	Total    int     `json:"total"`
	Passed   int     `json:"passed"`
	Failed   int     `json:"failed"`
	PassRate float64 `json:"pass_rate"`
}

// Converter is the part of converter.QueryEngine the runner needs.
type Converter interface {
	Convert(ctx context.Context, text string) (*converter.Result, error)
}

type caseFile struct {
	Cases []Case `yaml:"cases"`
}

// LoadCases reads cases from a YAML file with a top-level "cases" list.
func LoadCases(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cases: %w", err)
	}

	var f caseFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse cases %s: %w", path, err)
	}

	for i, c := range f.Cases {
		if c.Name == "" {
			return nil, fmt.Errorf("case %d in %s has no name", i+1, path)
		}
	}
	return f.Cases, nil
}

// Run evaluates every case and returns an error if any failed.
func Run(ctx context.Context, conv Converter, cases []Case) ([]CaseResult, error) {
	results := make([]CaseResult, 0, len(cases))
	var failed []string

	for _, c := range cases {
		r := runCase(ctx, conv, c)
		if !r.Passed {
			failed = append(failed, c.Name)
		}
		results = append(results, r)
	}

	if len(failed) > 0 {
		return results, fmt.Errorf("%d of %d evals failed: %s", len(failed), len(cases), strings.Join(failed, ", "))
	}
	return results, nil
}

func runCase(ctx context.Context, conv Converter, c Case) CaseResult {
	r := CaseResult{Name: c.Name, Query: c.Query}

	res, err := conv.Convert(ctx, c.Query)
	if c.ExpectEmpty {
		if errors.Is(err, converter.ErrEmptyQuery) {
			r.Passed = true
			return r
		}
		r.Error = "expected no conversion for blank input"
		if res != nil {
			r.GeneratedSQL = res.SQL
		}
		return r
	}
	if err != nil {
		r.Error = err.Error()
		return r
	}

	r.Pattern = res.Pattern
	r.Complexity = string(res.Complexity)
	r.GeneratedSQL = res.SQL

	var problems []string
	if c.ExpectedSQL != "" && res.SQL != c.ExpectedSQL {
		problems = append(problems, "sql mismatch")
	}
	if c.ExpectedPattern != "" && res.Pattern != c.ExpectedPattern {
		problems = append(problems, fmt.Sprintf("pattern %q, want %q", res.Pattern, c.ExpectedPattern))
	}
	if c.ExpectedComplexity != "" && string(res.Complexity) != c.ExpectedComplexity {
		problems = append(problems, fmt.Sprintf("complexity %q, want %q", res.Complexity, c.ExpectedComplexity))
	}
	for _, s := range c.Contains {
		if !strings.Contains(res.SQL, s) {
			problems = append(problems, fmt.Sprintf("missing %q", s))
		}
	}

	if len(problems) > 0 {
		r.Error = strings.Join(problems, "; ")
		return r
	}
	r.Passed = true
	return r
}

// Summarize counts results
func Summarize(results []CaseResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Passed {
			s.Passed++
		}
	}
	s.Failed = s.Total - s.Passed
	if s.Total > 0 {
		s.PassRate = float64(s.Passed) / float64(s.Total)
	}
	return s
}
