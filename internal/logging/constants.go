package logging

// Standardized field names for structured logging.
const (
	FieldRequestID   = "request_id"
	FieldEndpoint    = "endpoint"
	FieldStatusCode  = "status_code"
	FieldShape       = "shape"
	FieldDocuments   = "documents"
	FieldMessageType = "message_type"
	FieldKind        = "kind"
	FieldState       = "state"
	FieldGeneration  = "generation"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldDuration    = "duration_ms"
	FieldCount       = "count"
	FieldInputFile   = "input_file"
	FieldOutputFile  = "output_file"
)
