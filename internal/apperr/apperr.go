// Package apperr defines the error taxonomy surfaced to API clients.
// Every domain failure is a *fiber.Error; the app-level error handler in
// cmd/api renders them as {errCode, success:false, message}. Message strings
// are part of the API contract - clients match on them verbatim.
package apperr

import "github.com/gofiber/fiber/v2"

// BadRequest signals a client input or business-rule violation (400).
func BadRequest(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusBadRequest, message)
}

// Unauthorized signals a missing, invalid, or expired credential (401).
func Unauthorized(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusUnauthorized, message)
}

// Server signals a persistence or downstream-dependency failure (500).
func Server(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusInternalServerError, message)
}

// Envelope is the JSON body written for every non-2xx response.
type Envelope struct {
	ErrCode int    `json:"errCode"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}
