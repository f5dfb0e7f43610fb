package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEventType is the standardized key classifying a warning or error.
	FieldEventType = "event_type"
	// FieldErrorHint is the standardized key for the next step a user can take.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldRecordID is the standardized key for series record identifiers.
	FieldRecordID = "record_id"
	// FieldPosition is the standardized key for a record's row position.
	FieldPosition = "position"
	// FieldQuery is the standardized key for catalog search text.
	FieldQuery = "query"
	// FieldCatalogID is the standardized key for TMDB identifiers.
	FieldCatalogID = "tmdb_id"
)
