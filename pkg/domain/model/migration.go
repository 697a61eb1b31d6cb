package model

// MigrationRule describes a mechanical source rewrite: a parameter line is
// inserted at the end of every function signature delimited by StartPattern
// and EndPattern, and ImportLine is added to each rewritten file.
type MigrationRule struct {
	Name         string `toml:"name"`
	FileSuffix   string `toml:"file_suffix"`
	StartPattern string `toml:"start_pattern"`
	EndPattern   string `toml:"end_pattern"`
	ParamLine    string `toml:"param_line"`
	ImportLine   string `toml:"import_line"`
}

// PresenterMigrationRule adds the useActivity parameter to reducers for the
// presenter 1.8.0 API
var PresenterMigrationRule = MigrationRule{
	Name:         "presenter-1.8.0",
	FileSuffix:   ".kt",
	StartPattern: `^\s*override\s+suspend\s+fun\s+reduce\b\s*\(`,
	EndPattern:   `^\s*\): ReduceResult<.*>\s*(\{|=)`,
	ParamLine:    "        useActivity: (suspend (Activity) -> Unit) -> Unit,",
	ImportLine:   "import android.app.Activity",
}

// MigrationResult summarizes a migration run
type MigrationResult struct {
	Scanned int      // Number of files matching the rule suffix
	Updated []string // Files that were (or, in dry-run, would be) rewritten
	DryRun  bool
}
