package converter

import "fmt"

// Window function templates

const runningTotalSQL = `SELECT
    date,
    amount,
    SUM(amount) OVER (ORDER BY date ROWS UNBOUNDED PRECEDING) AS running_total
FROM sales
ORDER BY date;`

const movingAverageSQL = `SELECT
    date,
    amount,
    AVG(amount) OVER (
        ORDER BY date
        ROWS BETWEEN %d PRECEDING AND CURRENT ROW
    ) AS moving_avg_%dd
FROM daily_sales
ORDER BY date;`

const rankSQL = `SELECT
    customer_id,
    SUM(amount) AS total_spent,
    RANK() OVER (ORDER BY SUM(amount) DESC) AS spending_rank
FROM orders
GROUP BY customer_id
ORDER BY spending_rank;`

const rowNumberSQL = `SELECT
    order_id,
    customer_id,
    order_date,
    ROW_NUMBER() OVER (PARTITION BY customer_id ORDER BY order_date) AS order_sequence
FROM orders
ORDER BY customer_id, order_sequence;`

const lagLeadSQL = `SELECT
    month,
    revenue,
    LAG(revenue) OVER (ORDER BY month) AS previous_month,
    LEAD(revenue) OVER (ORDER BY month) AS next_month,
    ROUND(100.0 * (revenue - LAG(revenue) OVER (ORDER BY month)) / NULLIF(LAG(revenue) OVER (ORDER BY month), 0), 2) AS growth_pct
FROM monthly_revenue
ORDER BY month;`

const ntileSQL = `SELECT
    customer_id,
    total_spent,
    NTILE(4) OVER (ORDER BY total_spent DESC) AS spending_quartile
FROM (
    SELECT customer_id, SUM(amount) AS total_spent
    FROM orders
    GROUP BY customer_id
) customer_totals
ORDER BY spending_quartile, total_spent DESC;`

// CTE templates

const multiStepCTESQL = `WITH monthly_sales AS (
    SELECT
        DATE_TRUNC('month', order_date) AS month,
        SUM(amount) AS revenue
    FROM orders
    GROUP BY DATE_TRUNC('month', order_date)
),
sales_growth AS (
    SELECT
        month,
        revenue,
        LAG(revenue) OVER (ORDER BY month) AS prev_revenue
    FROM monthly_sales
)
SELECT
    month,
    revenue,
    ROUND(100.0 * (revenue - prev_revenue) / NULLIF(prev_revenue, 0), 2) AS growth_pct
FROM sales_growth
ORDER BY month;`

const recursiveHierarchySQL = `WITH RECURSIVE org_chart AS (
    SELECT employee_id, name, manager_id, 1 AS level
    FROM employees
    WHERE manager_id IS NULL
    UNION ALL
    SELECT e.employee_id, e.name, e.manager_id, oc.level + 1
    FROM employees e
    JOIN org_chart oc ON e.manager_id = oc.employee_id
)
SELECT employee_id, name, manager_id, level
FROM org_chart
ORDER BY level, name;`

// Analytics templates

const cohortRetentionSQL = `WITH first_purchase AS (
    SELECT
        customer_id,
        DATE_TRUNC('month', MIN(order_date)) AS cohort_month
    FROM orders
    GROUP BY customer_id
),
activity AS (
    SELECT
        fp.cohort_month,
        DATE_TRUNC('month', o.order_date) AS activity_month,
        COUNT(DISTINCT o.customer_id) AS active_customers
    FROM orders o
    JOIN first_purchase fp ON o.customer_id = fp.customer_id
    GROUP BY fp.cohort_month, DATE_TRUNC('month', o.order_date)
)
SELECT
    cohort_month,
    activity_month,
    active_customers,
    ROUND(100.0 * active_customers / FIRST_VALUE(active_customers) OVER (
        PARTITION BY cohort_month ORDER BY activity_month
    ), 2) AS retention_rate
FROM activity
ORDER BY cohort_month, activity_month;`

const churnSQL = `SELECT
    customer_id,
    MAX(order_date) AS last_order_date,
    CURRENT_DATE - MAX(order_date) AS days_since_last_order,
    CASE
        WHEN CURRENT_DATE - MAX(order_date) > 90 THEN 'Churned'
        WHEN CURRENT_DATE - MAX(order_date) > 60 THEN 'At Risk'
        ELSE 'Active'
    END AS churn_status
FROM orders
GROUP BY customer_id
ORDER BY days_since_last_order DESC;`

const lifetimeValueSQL = `SELECT
    c.customer_id,
    c.name,
    COUNT(o.order_id) AS total_orders,
    SUM(o.amount) AS lifetime_value,
    AVG(o.amount) AS avg_order_value,
    MIN(o.order_date) AS first_order,
    MAX(o.order_date) AS last_order
FROM customers c
JOIN orders o ON c.customer_id = o.customer_id
GROUP BY c.customer_id, c.name
ORDER BY lifetime_value DESC;`

const zScoreSQL = `WITH stats AS (
    SELECT AVG(amount) AS mean_amount, STDDEV(amount) AS stddev_amount
    FROM transactions
)
SELECT
    t.transaction_id,
    t.customer_id,
    t.amount,
    ROUND((t.amount - s.mean_amount) / NULLIF(s.stddev_amount, 0), 2) AS z_score
FROM transactions t
CROSS JOIN stats s
WHERE ABS((t.amount - s.mean_amount) / NULLIF(s.stddev_amount, 0)) > 2
ORDER BY z_score DESC;`

const percentileSQL = `SELECT
    PERCENTILE_CONT(0.25) WITHIN GROUP (ORDER BY amount) AS p25,
    PERCENTILE_CONT(0.50) WITHIN GROUP (ORDER BY amount) AS median,
    PERCENTILE_CONT(0.75) WITHIN GROUP (ORDER BY amount) AS p75,
    PERCENTILE_CONT(0.90) WITHIN GROUP (ORDER BY amount) AS p90
FROM orders;`

// Basket analysis

const marketBasketSQL = `WITH product_pairs AS (
    SELECT
        a.product_id AS product_a,
        b.product_id AS product_b,
        COUNT(*) AS times_bought_together
    FROM order_items a
    JOIN order_items b ON a.order_id = b.order_id AND a.product_id < b.product_id
    GROUP BY a.product_id, b.product_id
),
product_counts AS (
    SELECT product_id, COUNT(DISTINCT order_id) AS order_count
    FROM order_items
    GROUP BY product_id
)
SELECT
    pa.name AS product_a,
    pb.name AS product_b,
    pp.times_bought_together,
    ROUND(1.0 * pp.times_bought_together / pc.order_count, 2) AS confidence
FROM product_pairs pp
JOIN product_counts pc ON pp.product_a = pc.product_id
JOIN products pa ON pp.product_a = pa.product_id
JOIN products pb ON pp.product_b = pb.product_id
WHERE 1.0 * pp.times_bought_together / pc.order_count > 0.7
ORDER BY confidence DESC, pp.times_bought_together DESC;`

// Pivot

const pivotSQL = `SELECT
    category,
    SUM(CASE WHEN EXTRACT(QUARTER FROM order_date) = 1 THEN amount ELSE 0 END) AS q1,
    SUM(CASE WHEN EXTRACT(QUARTER FROM order_date) = 2 THEN amount ELSE 0 END) AS q2,
    SUM(CASE WHEN EXTRACT(QUARTER FROM order_date) = 3 THEN amount ELSE 0 END) AS q3,
    SUM(CASE WHEN EXTRACT(QUARTER FROM order_date) = 4 THEN amount ELSE 0 END) AS q4,
    SUM(amount) AS total
FROM sales
GROUP BY category
ORDER BY category;`

// Standalone phrase templates

const topPerCategorySQL = `WITH ranked_products AS (
    SELECT
        p.category,
        p.name,
        SUM(oi.quantity * oi.price) AS revenue,
        ROW_NUMBER() OVER (PARTITION BY p.category ORDER BY SUM(oi.quantity * oi.price) DESC) AS rn
    FROM products p
    JOIN order_items oi ON p.product_id = oi.product_id
    GROUP BY p.category, p.name
)
SELECT category, name, revenue
FROM ranked_products
WHERE rn <= %d
ORDER BY category, revenue DESC;`

const nthHighestSQL = `SELECT name, department, salary
FROM (
    SELECT
        name,
        department,
        salary,
        DENSE_RANK() OVER (ORDER BY salary DESC) AS salary_rank
    FROM employees
) ranked
WHERE salary_rank = 2;`

const negativeExistenceSQL = `SELECT c.customer_id, c.name, c.email
FROM customers c
WHERE EXISTS (
    SELECT 1 FROM orders o
    WHERE o.customer_id = c.customer_id
      AND o.order_date >= CURRENT_DATE - INTERVAL '1 year'
)
AND NOT EXISTS (
    SELECT 1 FROM orders o
    WHERE o.customer_id = c.customer_id
      AND o.order_date >= CURRENT_DATE - INTERVAL '6 months'
);`

const aboveAverageSQL = `SELECT p.product_id, p.name, p.category, p.price
FROM products p
WHERE p.price > (
    SELECT AVG(p2.price)
    FROM products p2
    WHERE p2.category = p.category
)
ORDER BY p.category, p.price DESC;`

const inventoryTurnoverSQL = `SELECT
    p.product_id,
    p.name,
    SUM(oi.quantity) AS units_sold,
    AVG(i.stock_level) AS avg_inventory,
    ROUND(SUM(oi.quantity) / NULLIF(AVG(i.stock_level), 0), 2) AS turnover_ratio
FROM products p
JOIN order_items oi ON p.product_id = oi.product_id
JOIN inventory i ON p.product_id = i.product_id
WHERE oi.created_at >= CURRENT_DATE - INTERVAL '1 year'
GROUP BY p.product_id, p.name
ORDER BY turnover_ratio DESC;`

func renderMovingAverage(text string) string {
	days := WindowDays(text)
	return fmt.Sprintf(movingAverageSQL, days-1, days)
}

func renderTopPerCategory(text string) string {
	return fmt.Sprintf(topPerCategorySQL, TopN(text))
}

// fixed wraps a literal template as a RenderFunc.
func fixed(sql string) RenderFunc {
	return func(string) string {
		return sql
	}
}
