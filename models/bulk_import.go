package models

import "fmt"

// ImportMode selects how the CSV importer treats product codes that already
// exist.
type ImportMode string

const (
	// ImportModeInsert rejects rows whose product code already exists.
	ImportModeInsert ImportMode = "insert"
	// ImportModeUpsert updates the existing product matched by code.
	ImportModeUpsert ImportMode = "upsert"
)

// Failure reason constructors. Reasons are plain strings so they serialize
// directly into the report.
func ReasonMissingField(field string) string {
	return fmt.Sprintf("MissingField(%s)", field)
}

func ReasonValidationError(field, detail string) string {
	return fmt.Sprintf("ValidationError(%s, %s)", field, detail)
}

func ReasonPersistenceError(detail string) string {
	return fmt.Sprintf("PersistenceError(%s)", detail)
}

const ReasonDuplicateProductCode = "DuplicateProductCode"

// FailedRow records why a single data row was rejected. Row numbers are
// 1-based over data rows, header excluded.
type FailedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportCounts aggregates the outcome of a batch.
type ImportCounts struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

// BulkImportResult is the consolidated per-batch report. Every data row
// contributes to exactly one of Success or Failed.
type BulkImportResult struct {
	Success    bool         `json:"success"`
	Results    ImportCounts `json:"results"`
	FailedRows []FailedRow  `json:"failedRows"`
}

// BulkImportValidation is the dry-run report returned by the validate
// endpoint. No rows are persisted.
type BulkImportValidation struct {
	TotalRows      int         `json:"total_rows"`
	ValidRows      int         `json:"valid_rows"`
	InvalidRows    int         `json:"invalid_rows"`
	DuplicateCodes []string    `json:"duplicate_codes,omitempty"`
	FailedRows     []FailedRow `json:"failedRows"`
}
