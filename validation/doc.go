// Package validation provides input validation for gateway handlers.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. Struct tag validation is
// used for request payloads like order drafts; programmatic validation
// covers query parameters and other loose input.
//
// # Struct Tag Validation
//
//	type OrderDraft struct {
//	    UserID string      `json:"userId" validate:"required"`
//	    Items  []OrderItem `json:"items" validate:"required,min=1,dive"`
//	}
//	err := validation.Validate(draft)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("userId", draft.UserID)
//	err := v.Validate()
package validation
