package config

type Config struct {
	Source SourceConfig `json:"source"`
	Report ReportConfig `json:"report"`
	Output OutputConfig `json:"output"`

	// Cron spec to rerun the report on, e.g. "@every 1h". Empty runs once.
	UpdateFrequency string `json:"updateFrequency" env:"TXREPORT_UPDATE_FREQUENCY"`
}

type Secrets struct {
	// Database the sql output is written for. Only used to set up the
	// connector, the report never connects to it.
	DatabaseURL string `json:"databaseURL" env:"DATABASE_URL"`
}

///////////////////////////////////////////////////////////////////////////////////////
// Source
///////////////////////////////////////////////////////////////////////////////////////

type SourceConfig struct {
	BaseURL string `json:"baseURL" env:"TXREPORT_BASE_URL"`
	Suffix  string `json:"suffix" env:"TXREPORT_SUFFIX"`
	// Highest page number read before giving up. Negative disables the limit.
	MaxPages int `json:"maxPages" env:"TXREPORT_MAX_PAGES"`
	// Per request timeout, a time.Duration string
	Timeout string `json:"timeout" env:"TXREPORT_TIMEOUT"`
	// Fail instead of stopping when a page answers with something other than 404
	StrictFaults bool `json:"strictFaults" env:"TXREPORT_STRICT_FAULTS"`
}

///////////////////////////////////////////////////////////////////////////////////////
// Report
///////////////////////////////////////////////////////////////////////////////////////

type ReportConfig struct {
	Clean           bool `json:"clean"`
	Unique          bool `json:"unique"`
	ShowDuplicates  bool `json:"showDuplicates"`
	Accumulate      bool `json:"accumulate"`
	ShowAll         bool `json:"showAll"`
	ShowCategorized bool `json:"showCategorized"`
}

///////////////////////////////////////////////////////////////////////////////////////
// Output
///////////////////////////////////////////////////////////////////////////////////////

type OutputConfig struct {
	// table, json, line or sql
	Format string `json:"format" env:"TXREPORT_FORMAT"`
	// measurement prefix for line protocol output
	Measurement string `json:"measurement"`
	SQL         struct {
		TransactionsTable string `json:"transactionsTable"`
		DailyTable        string `json:"dailyTable"`
		CategoriesTable   string `json:"categoriesTable"`
	} `json:"sql"`
}
