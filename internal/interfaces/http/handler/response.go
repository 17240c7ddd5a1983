package handler

import "github.com/erp/suite/internal/interfaces/http/dto"

// Envelope shapes for the OpenAPI annotations. Handlers write dto.Response.

// APIResponse is a success envelope carrying T
type APIResponse[T any] struct {
	Success bool      `json:"success" example:"true"`
	Data    T         `json:"data,omitempty"`
	Meta    *dto.Meta `json:"meta,omitempty"`
}

// ErrorResponse is the failure envelope
type ErrorResponse struct {
	Success bool          `json:"success" example:"false"`
	Error   dto.ErrorInfo `json:"error"`
}
