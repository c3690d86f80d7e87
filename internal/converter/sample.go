package converter

import "strings"

// SampleTable is a hard-coded result table shown next to generated SQL.
// Nothing is executed to produce it.
type SampleTable struct {
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Sample picks a sample table for text. Its keyword checks are independent
// of the converter's dispatch table.
func Sample(text string) SampleTable {
	t := strings.ToLower(strings.TrimSpace(text))

	switch {
	case strings.Contains(t, "cohort") || strings.Contains(t, "retention"):
		return cohortSample()
	case strings.Contains(t, "z-score") || strings.Contains(t, "unusual"):
		return anomalySample()
	case strings.Contains(t, "basket") || strings.Contains(t, "bought together"):
		return basketSample()
	case strings.Contains(t, "top") && strings.Contains(t, "each") && strings.Contains(t, "category"):
		return topProductsSample()
	case strings.Contains(t, "running total") || strings.Contains(t, "moving average"):
		return runningTotalSample()
	default:
		return customersSample()
	}
}

func cohortSample() SampleTable {
	return SampleTable{
		Title:   "Cohort retention",
		Columns: []string{"cohort_month", "activity_month", "active_customers", "retention_rate"},
		Rows: [][]string{
			{"2024-01", "2024-01", "120", "100.00"},
			{"2024-01", "2024-02", "84", "70.00"},
			{"2024-01", "2024-03", "66", "55.00"},
			{"2024-02", "2024-02", "95", "100.00"},
			{"2024-02", "2024-03", "61", "64.21"},
		},
	}
}

func anomalySample() SampleTable {
	return SampleTable{
		Title:   "Unusual transactions",
		Columns: []string{"transaction_id", "customer_id", "amount", "z_score"},
		Rows: [][]string{
			{"TX-10482", "C-0193", "4850.00", "3.42"},
			{"TX-10977", "C-0451", "3920.50", "2.71"},
			{"TX-11203", "C-0088", "3415.00", "2.18"},
		},
	}
}

func basketSample() SampleTable {
	return SampleTable{
		Title:   "Products bought together",
		Columns: []string{"product_a", "product_b", "times_bought_together", "confidence"},
		Rows: [][]string{
			{"Laptop", "Laptop Sleeve", "412", "0.86"},
			{"Coffee Maker", "Coffee Filters", "377", "0.81"},
			{"Phone Case", "Screen Protector", "298", "0.74"},
		},
	}
}

func topProductsSample() SampleTable {
	return SampleTable{
		Title:   "Top products per category",
		Columns: []string{"category", "name", "revenue"},
		Rows: [][]string{
			{"Books", "The Pragmatic Programmer", "18240.00"},
			{"Books", "Designing Data-Intensive Applications", "16975.00"},
			{"Books", "Clean Architecture", "12300.00"},
			{"Electronics", "Laptop Pro 15", "128400.00"},
			{"Electronics", "Noise Cancelling Headphones", "54210.00"},
			{"Electronics", "4K Monitor", "47880.00"},
		},
	}
}

func runningTotalSample() SampleTable {
	return SampleTable{
		Title:   "Daily sales",
		Columns: []string{"date", "amount", "running_total"},
		Rows: [][]string{
			{"2024-03-01", "1250.00", "1250.00"},
			{"2024-03-02", "980.00", "2230.00"},
			{"2024-03-03", "1410.00", "3640.00"},
			{"2024-03-04", "760.00", "4400.00"},
			{"2024-03-05", "1320.00", "5720.00"},
		},
	}
}

func customersSample() SampleTable {
	return SampleTable{
		Title:   "Customers",
		Columns: []string{"customer_id", "name", "city", "email"},
		Rows: [][]string{
			{"1", "Alice Johnson", "New York", "alice@example.com"},
			{"2", "Bob Smith", "Chicago", "bob@example.com"},
			{"3", "Carol White", "New York", "carol@example.com"},
			{"4", "David Brown", "Seattle", "david@example.com"},
		},
	}
}
