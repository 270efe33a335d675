package dto

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// ParseResponse wraps a parsed document.
type ParseResponse struct {
	Invoice     *ParsedInvoice `json:"invoice"`
	ProcessedAt string         `json:"processed_at"`
}

// ResolveResponse reports an alias resolution outcome. Match is nil when
// nothing matched; Resolved distinguishes that from a zero-value match.
type ResolveResponse struct {
	Resolved bool          `json:"resolved"`
	Match    *CompanyMatch `json:"match,omitempty"`
}

// ReloadResponse reports an alias configuration reload.
type ReloadResponse struct {
	OfficialNames int    `json:"official_names"`
	LoadedFrom    string `json:"loaded_from"`
}
