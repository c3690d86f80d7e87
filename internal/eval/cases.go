package eval

import "github.com/kartoza/kartoza-sql-lab/internal/converter"

const (
	hard   = string(converter.ComplexityHard)
	medium = string(converter.ComplexityMedium)
)

// DefaultCases returns the built-in cases
func DefaultCases() []Case {
	return []Case{
		{
			Name:               "running_total",
			Query:              "Show the running total of sales by date",
			ExpectedPattern:    converter.PatternWindow,
			ExpectedComplexity: hard,
			Contains:           []string{"SUM(amount) OVER (ORDER BY date ROWS UNBOUNDED PRECEDING)"},
		},
		{
			Name:               "moving_average_explicit_7_day",
			Query:              "Calculate the 7-day moving average of daily sales",
			ExpectedComplexity: hard,
			Contains:           []string{"6 PRECEDING", "moving_avg_7d"},
		},
		{
			Name:               "moving_average_default_window",
			Query:              "moving average of revenue",
			ExpectedComplexity: hard,
			Contains:           []string{"6 PRECEDING", "moving_avg_7d"},
		},
		{
			Name:               "moving_average_30_day",
			Query:              "30 day moving average",
			ExpectedComplexity: hard,
			Contains:           []string{"29 PRECEDING", "moving_avg_30d"},
		},
		{
			Name:               "market_basket",
			Query:              "Find products frequently bought together, confidence scores above 70%",
			ExpectedPattern:    converter.PatternBasket,
			ExpectedComplexity: hard,
			Contains:           []string{"times_bought_together", "> 0.7"},
		},
		{
			Name:               "fallback_count",
			Query:              "count customers",
			ExpectedSQL:        "SELECT COUNT(*) as total_count FROM customers;",
			ExpectedPattern:    converter.PatternFallback,
			ExpectedComplexity: medium,
		},
		{
			Name:               "fallback_new_york",
			Query:              "customers from New York",
			ExpectedSQL:        "SELECT * FROM customers WHERE city = 'New York';",
			ExpectedComplexity: medium,
		},
		{
			Name:        "blank_input",
			Query:       "   ",
			ExpectEmpty: true,
		},
		{
			Name:            "window_before_analytics",
			Query:           "cohort retention as a running total",
			ExpectedPattern: converter.PatternWindow,
		},
		{
			Name:            "cte_before_pivot",
			Query:           "pivot sales with totals",
			ExpectedPattern: converter.PatternCTE,
		},
		{
			Name:            "groups_before_phrases",
			Query:           "transpose the top 3 products in each category",
			ExpectedPattern: converter.PatternPivot,
		},
		{
			Name:               "top_n_per_category",
			Query:              "Top 5 products in each category by revenue",
			ExpectedPattern:    converter.PatternTopPerCategory,
			ExpectedComplexity: hard,
			Contains:           []string{"rn <= 5"},
		},
		{
			Name:            "second_highest",
			Query:           "second highest salary",
			ExpectedPattern: converter.PatternNthHighest,
		},
		{
			Name:            "negative_existence",
			Query:           "customers who haven't ordered in six months",
			ExpectedPattern: converter.PatternNegativeExistence,
			Contains:        []string{"NOT EXISTS"},
		},
		{
			Name:            "above_average",
			Query:           "products priced above average for their category",
			ExpectedPattern: converter.PatternAboveAverage,
		},
		{
			Name:            "inventory_turnover",
			Query:           "inventory turnover by product",
			ExpectedPattern: converter.PatternInventoryTurnover,
		},
	}
}
