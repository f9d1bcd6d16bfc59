package logging

// Standardized field names for structured logging.
const (
	FieldFile        = "file_path"
	FieldFormat      = "format"
	FieldParser      = "parser"
	FieldRow         = "row"
	FieldDate        = "date"
	FieldDescription = "description"
	FieldAmount      = "amount"
	FieldCurrency    = "currency"
	FieldCategory    = "category"
	FieldStrategy    = "strategy"
	FieldReason      = "reason"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldCount       = "count"
	FieldAdded       = "added"
	FieldDuplicates  = "duplicates"
	FieldSkipped     = "skipped"
	FieldDelimiter   = "delimiter"
	FieldStoreFile   = "store_file"
	FieldRulesFile   = "rules_file"
)
