package converter

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestConvertGoldenTemplates(t *testing.T) {
	tests := []struct {
		golden string
		query  string
	}{
		{"running_total", "Show me the running total of sales"},
		{"moving_average_7d", "Calculate the 7-day moving average of daily sales"},
		{"market_basket", "Which products are frequently bought together, showing confidence scores above 70%?"},
		{"top_5_per_category", "Top 5 products in each category"},
		{"recursive_hierarchy", "Show the recursive org chart"},
	}

	g := newGoldie(t)
	for _, tt := range tests {
		t.Run(tt.golden, func(t *testing.T) {
			res, err := Convert(tt.query)
			require.NoError(t, err)
			assert.Equal(t, ComplexityHard, res.Complexity)
			g.Assert(t, tt.golden, []byte(res.SQL))
		})
	}
}

func TestConvertRunningTotal(t *testing.T) {
	for _, q := range []string{
		"running total",
		"What is the RUNNING TOTAL of revenue by day?",
		"  give me a running total please  ",
	} {
		res, err := Convert(q)
		require.NoError(t, err, q)
		assert.Contains(t, res.SQL, "SUM(amount) OVER (ORDER BY date ROWS UNBOUNDED PRECEDING)", q)
		assert.Equal(t, ComplexityHard, res.Complexity, q)
		assert.Equal(t, PatternWindow, res.Pattern, q)
		assert.Equal(t, "running total", res.Trigger, q)
	}
}

func TestConvertMovingAverageWindow(t *testing.T) {
	tests := []struct {
		query     string
		preceding string
		alias     string
	}{
		{"7-day moving average of sales", "6 PRECEDING", "moving_avg_7d"},
		{"moving average of sales", "6 PRECEDING", "moving_avg_7d"},
		{"14-day moving average", "13 PRECEDING", "moving_avg_14d"},
		{"30 day moving average of revenue", "29 PRECEDING", "moving_avg_30d"},
		{"1-day moving average", "0 PRECEDING", "moving_avg_1d"},
	}

	for _, tt := range tests {
		res, err := Convert(tt.query)
		require.NoError(t, err, tt.query)
		assert.Contains(t, res.SQL, "ROWS BETWEEN "+tt.preceding+" AND CURRENT ROW", tt.query)
		assert.Contains(t, res.SQL, tt.alias, tt.query)
		assert.Equal(t, ComplexityHard, res.Complexity)
	}
}

func TestConvertFallback(t *testing.T) {
	tests := []struct {
		query string
		sql   string
	}{
		{"count all customers", "SELECT COUNT(*) as total_count FROM customers;"},
		{"show all customers", "SELECT * FROM customers;"},
		{"customers from New York", "SELECT * FROM customers WHERE city = 'New York';"},
		{"customers where they live", "SELECT * FROM customers WHERE city = 'New York';"},
		{"count customers from new york", "SELECT COUNT(*) as total_count FROM customers WHERE city = 'New York';"},
		{"hello", "SELECT * FROM customers;"},
	}

	for _, tt := range tests {
		res, err := Convert(tt.query)
		require.NoError(t, err, tt.query)
		assert.Equal(t, tt.sql, res.SQL, tt.query)
		assert.Equal(t, ComplexityMedium, res.Complexity, tt.query)
		assert.Equal(t, PatternFallback, res.Pattern, tt.query)
		assert.Empty(t, res.Trigger, tt.query)
	}
}

func TestConvertEmptyInput(t *testing.T) {
	for _, q := range []string{"", "   ", "\n\t "} {
		res, err := Convert(q)
		assert.ErrorIs(t, err, ErrEmptyQuery)
		assert.Nil(t, res)
	}
}

func TestConvertIsDeterministic(t *testing.T) {
	queries := []string{
		"Top 10 products in each category",
		"cohort retention by signup month",
		"count customers",
		"pivot sales by quarter",
	}
	for _, q := range queries {
		first, err := Convert(q)
		require.NoError(t, err)
		second, err := Convert(q)
		require.NoError(t, err)
		assert.Equal(t, first, second, q)
	}
}

func TestConvertPatternSelection(t *testing.T) {
	tests := []struct {
		query   string
		pattern string
		trigger string
		want    string
	}{
		{"rank customers by spending", PatternWindow, "rank", "RANK() OVER"},
		{"give each order a row number", PatternWindow, "row number", "ROW_NUMBER() OVER"},
		{"compare revenue to the previous month using lag", PatternWindow, "lag", "LAG(revenue)"},
		{"show next month revenue using lead", PatternWindow, "lead", "LEAD(revenue)"},
		{"split buyers into quartiles using ntile", PatternWindow, "ntile", "NTILE(4)"},
		{"step by step revenue growth", PatternCTE, "step by step", "WITH monthly_sales AS"},
		{"hierarchical employees", PatternCTE, "hierarchical", "WITH RECURSIVE"},
		{"monthly cohort analysis", PatternAnalytics, "cohort", "cohort_month"},
		{"show customer churn", PatternAnalytics, "churn", "churn_status"},
		{"monthly retention", PatternAnalytics, "retention", "retention_rate"},
		{"customer lifetime value", PatternAnalytics, "lifetime value", "lifetime_value"},
		{"z-score of transaction amounts", PatternAnalytics, "z-score", "z_score"},
		{"90th percentile of order amounts", PatternWindow, "ntile", "NTILE(4)"},
		{"market basket analysis", PatternBasket, "market basket", "times_bought_together"},
		{"association rules for products", PatternBasket, "association rules", "times_bought_together"},
		{"crosstab of sales by quarter", PatternPivot, "crosstab", "EXTRACT(QUARTER"},
		{"transpose sales", PatternPivot, "transpose", "EXTRACT(QUARTER"},
		{"top products in each category", PatternTopPerCategory, "top+each+category", "rn <= 3"},
		{"what is the second highest salary", PatternNthHighest, "second highest", "DENSE_RANK()"},
		{"customers who haven't ordered recently", PatternNegativeExistence, "haven't", "NOT EXISTS"},
		{"bought last year but not this year", PatternNegativeExistence, "but not", "NOT EXISTS"},
		{"products priced above average", PatternAboveAverage, "above average", "SELECT AVG(p2.price)"},
		{"products above median price", PatternAboveAverage, "above median", "SELECT AVG(p2.price)"},
		{"inventory turnover by product", PatternInventoryTurnover, "inventory turnover", "turnover_ratio"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			res, err := Convert(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.pattern, res.Pattern)
			assert.Equal(t, tt.trigger, res.Trigger)
			assert.Contains(t, res.SQL, tt.want)
			assert.Equal(t, ComplexityHard, res.Complexity)
		})
	}
}

func TestConvertTableOrderBeatsInputOrder(t *testing.T) {
	tests := []struct {
		query   string
		pattern string
		trigger string
	}{
		// "rank" appears first in the text but "moving average" is tested first.
		{"rank stores by moving average", PatternWindow, "moving average"},
		// group 1 outranks group 3
		{"cohort analysis with a running total", PatternWindow, "running total"},
		// group 2 outranks group 5
		{"pivot revenue with churn", PatternCTE, "with"},
		// groups outrank phrases
		{"pivot the top 3 products in each category", PatternPivot, "pivot"},
		// phrases keep their own order
		{"second highest salary but not managers", PatternNthHighest, "second highest"},
		// plain substrings, not words
		{"flag suspicious accounts", PatternWindow, "lag"},
		{"customers without orders", PatternCTE, "with"},
		// "percentile" contains "ntile", so the analytics rule is shadowed
		{"percentile", PatternWindow, "ntile"},
	}

	for _, tt := range tests {
		res, err := Convert(tt.query)
		require.NoError(t, err, tt.query)
		assert.Equal(t, tt.pattern, res.Pattern, tt.query)
		assert.Equal(t, tt.trigger, res.Trigger, tt.query)
	}
}

func TestPercentileRuleIsShadowed(t *testing.T) {
	for _, q := range []string{"percentile", "PERCENTILE of amounts", "median and 95th percentile"} {
		res, err := Convert(q)
		require.NoError(t, err)
		assert.NotEqual(t, percentileSQL, res.SQL, q)
		assert.Equal(t, ntileSQL, res.SQL, q)
	}
}

func TestConvertNeverProducesLow(t *testing.T) {
	queries := []string{"running total", "with", "cohort", "pivot", "top 2 in each category", "count"}
	for _, q := range queries {
		res, err := Convert(q)
		require.NoError(t, err)
		assert.NotEqual(t, ComplexityLow, res.Complexity, q)
	}
}

func TestTemplatesLookLikeSQL(t *testing.T) {
	for _, entry := range Catalog() {
		for _, trigger := range entry.Triggers {
			res, err := Convert(trigger)
			require.NoError(t, err)
			sql := res.SQL
			assert.True(t, strings.HasPrefix(sql, "SELECT") || strings.HasPrefix(sql, "WITH"), trigger)
			assert.True(t, strings.HasSuffix(sql, ";"), trigger)
			assert.Equal(t, strings.Count(sql, "("), strings.Count(sql, ")"), trigger)
		}
	}
}

func TestQueryEngineConvert(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	engine := NewQueryEngine(WithLogger(zap.New(core)))

	res, err := engine.Convert(context.Background(), "inventory turnover")
	require.NoError(t, err)

	direct, err := Convert("inventory turnover")
	require.NoError(t, err)
	assert.Equal(t, direct, res)

	entries := logs.FilterMessage("converted query").All()
	require.Len(t, entries, 1)
	assert.Equal(t, PatternInventoryTurnover, entries[0].ContextMap()["pattern"])
}

func TestQueryEngineDelay(t *testing.T) {
	engine := NewQueryEngine(WithDelay(20 * time.Millisecond))
	assert.Equal(t, 20*time.Millisecond, engine.Delay())

	start := time.Now()
	res, err := engine.Convert(context.Background(), "count customers")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.Equal(t, ComplexityMedium, res.Complexity)
}

func TestQueryEngineDelayCancelled(t *testing.T) {
	engine := NewQueryEngine(WithDelay(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := engine.Convert(ctx, "running total")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

func TestQueryEngineEmptySkipsDelay(t *testing.T) {
	engine := NewQueryEngine(WithDelay(time.Hour), WithLogger(nil))

	res, err := engine.Convert(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Nil(t, res)
}
