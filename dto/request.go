package dto

import "errors"

// ParseTextRequest carries pre-extracted text straight to the core.
type ParseTextRequest struct {
	Text       string     `json:"text" binding:"required"`
	ParserType ParserType `json:"parser_type,omitempty"`
}

// Validate performs basic validation on the request
func (r *ParseTextRequest) Validate() error {
	if r.Text == "" {
		return errors.New("text is required")
	}
	switch r.ParserType {
	case "", ParserTypeStatement, ParserTypeInvoice:
		return nil
	}
	return errors.New("parser_type must be \"statement\" or \"invoice\"")
}

// ResolveRequest asks the alias resolver for the official name behind
// free-form vendor text.
type ResolveRequest struct {
	Text string `json:"text" binding:"required"`
}
