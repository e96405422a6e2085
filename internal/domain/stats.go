package domain

// Distribution is the share of one language across the groups of a metric.
// It is what the distribution bar chart plots.
type Distribution struct {
	Dataset    Kind          `json:"dataset"`
	Metric     string        `json:"metric"`
	Language   string        `json:"language"`
	Edges      Edges         `json:"edges"`
	Points     []SeriesPoint `json:"points"`
	Unassigned int           `json:"unassigned"`
}

// YearCount is the number of repositories of a language created in a year.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// Trend is the yearly creation count of one language.
type Trend struct {
	Dataset  Kind        `json:"dataset"`
	Language string      `json:"language"`
	Years    []YearCount `json:"years"`
}

// ScatterPoint is one repository in the stars vs forks plot.
type ScatterPoint struct {
	Name  string `json:"name"`
	Stars int    `json:"stars_count"`
	Forks int    `json:"forks_count"`
}

// Correlation holds the stars vs forks scatter data and its Pearson coefficient.
type Correlation struct {
	Dataset Kind           `json:"dataset"`
	Pearson float64        `json:"pearson"`
	Points  []ScatterPoint `json:"points"`
}

// RankedRepo is one row of a top-N ranking.
type RankedRepo struct {
	Rank     int    `json:"rank"`
	Name     string `json:"name"`
	Value    int    `json:"value"`
	Language string `json:"language"`
}

// Ranking is the top-N repositories by one metric.
type Ranking struct {
	Dataset Kind         `json:"dataset"`
	Metric  string       `json:"metric"`
	Rows    []RankedRepo `json:"rows"`
}

// DatasetSummary describes a loaded dataset.
type DatasetSummary struct {
	Dataset      Kind     `json:"dataset"`
	Records      int      `json:"records"`
	RowsRead     int      `json:"rows_read"`
	RowsDropped  int      `json:"rows_dropped"`
	Metrics      []string `json:"metrics"`
	HasCreatedAt bool     `json:"has_created_at"`
	Languages    int      `json:"languages"`
}
