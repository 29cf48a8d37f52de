package wikidoc

import "time"

// Operation names carried by QueryResult so callers can tag the shape of
// Data without inspecting it.
const (
	OpFetchDocument = "fetch_document"
	OpListDocuments = "list_documents"
	OpFetchSections = "fetch_sections"
	OpSearchContent = "search_content"
	OpGetStatistics = "get_statistics"
)

// QueryResult is the uniform envelope returned by every orchestrator
// operation. Exactly one of Data and Error is meaningful per Success value:
// successful results carry Data and an empty Error, failed results carry a
// descriptive Error and nil Data.
type QueryResult struct {
	Success   bool           `json:"success"`
	Operation string         `json:"operation"`
	Data      any            `json:"data"`
	Error     string         `json:"error,omitempty"`
	Metadata  map[string]any `json:"metadata"`
	Timestamp time.Time      `json:"timestamp"`
}

// OK returns a successful QueryResult for the operation. The metadata map
// may be nil; an empty map is substituted so callers can always index it.
func OK(operation string, data any, metadata map[string]any) *QueryResult {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &QueryResult{
		Success:   true,
		Operation: operation,
		Data:      data,
		Metadata:  metadata,
		Timestamp: time.Now().UTC(),
	}
}

// Fail returns a failed QueryResult for the operation. The error string is
// derived via ErrorMessage, so untagged internal errors never leak details;
// the error code is recorded in Metadata under "code".
func Fail(operation string, err error) *QueryResult {
	return &QueryResult{
		Success:   false,
		Operation: operation,
		Error:     ErrorMessage(err),
		Metadata:  map[string]any{"code": ErrorCode(err)},
		Timestamp: time.Now().UTC(),
	}
}
