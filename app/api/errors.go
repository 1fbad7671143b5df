package api

import (
	"errors"
	"fmt"
	"log/slog"

	"gitabot/model"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler turns every pipeline error into a structured JSON response.
// Provider failures and classifier contract violations surface as 502 with
// the failing stage named; nothing escapes as an unhandled crash.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if apiError, ok := err.(Error); ok {
		return c.Status(apiError.Code).JSON(apiError)
	}
	if valError, ok := err.(ValidationError); ok {
		return c.Status(valError.Status).JSON(valError)
	}

	var upstream *model.UpstreamError
	if errors.As(err, &upstream) {
		apiError := NewError(fiber.StatusBadGateway, fmt.Sprintf("upstream %s provider failed", upstream.Stage))
		slog.Error("upstream provider failure", "stage", upstream.Stage, "error", upstream.Err)
		return c.Status(apiError.Code).JSON(apiError)
	}

	var contract *model.ContractError
	if errors.As(err, &contract) {
		apiError := NewError(fiber.StatusBadGateway, "classifier returned a malformed verdict")
		slog.Error("classifier contract violation", "raw", contract.Raw, "error", contract.Err)
		return c.Status(apiError.Code).JSON(apiError)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		apiError := NewError(fiberErr.Code, fiberErr.Message)
		return c.Status(apiError.Code).JSON(apiError)
	}

	slog.Error("request failed", "error", err)
	apiError := NewError(fiber.StatusInternalServerError, "internal error")
	return c.Status(apiError.Code).JSON(apiError)
}

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
}

// Error implements the error interface
func (e Error) Error() string {
	return e.Message
}

func NewError(code int, err string) Error {
	return Error{
		Code:    code,
		Message: err,
	}
}

type ValidationError struct {
	Status int               `json:"status"`
	Errors map[string]string `json:"errors"`
}

func (e ValidationError) Error() string {
	return "validation failed"
}

func NewValidationError(errors map[string]string) ValidationError {
	return ValidationError{
		Status: fiber.StatusUnprocessableEntity,
		Errors: errors,
	}
}

func ErrBadRequest() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "invalid JSON request",
	}
}

func ErrInvalidID() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "invalid user id given",
	}
}
