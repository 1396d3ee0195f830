package apperrors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Translate normalizes any error into an *AppError. Known store and token
// failure shapes are rewritten into the operational taxonomy; everything else
// becomes a non-operational internal error.
func Translate(err error) *AppError {
	if appErr, ok := As(err); ok {
		return appErr
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return NotFound("No document found with that ID")
	}

	if mongo.IsDuplicateKeyError(err) {
		return BadRequestf("Duplicate field value: %s. Please use another value", duplicateKeyFields(err))
	}

	if errors.Is(err, primitive.ErrInvalidHex) {
		return BadRequest("Invalid ID format")
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return BadRequestf("Invalid input data: %s", validationMessage(fieldErrs))
	}

	if errors.Is(err, jwt.ErrTokenExpired) {
		return Unauthorized("Token has expired. Please log in again")
	}

	// Any other jwt parse failure is a malformed or forged token.
	if errors.Is(err, jwt.ErrTokenMalformed) ||
		errors.Is(err, jwt.ErrTokenSignatureInvalid) ||
		errors.Is(err, jwt.ErrTokenUnverifiable) ||
		errors.Is(err, jwt.ErrTokenNotValidYet) ||
		errors.Is(err, jwt.ErrTokenInvalidClaims) {
		return Unauthorized("Invalid token. Please log in again")
	}

	return Internal(err)
}

func duplicateKeyFields(err error) string {
	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) {
		for _, we := range writeErr.WriteErrors {
			if we.Code == 11000 {
				if fields := parseDuplicateKeyMessage(we.Message); fields != "" {
					return fields
				}
			}
		}
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		if fields := parseDuplicateKeyMessage(cmdErr.Message); fields != "" {
			return fields
		}
	}

	return "unknown"
}

// parseDuplicateKeyMessage pulls the offending key out of the driver message,
// which looks like: ... dup key: { email: "x@y.com" }
func parseDuplicateKeyMessage(msg string) string {
	idx := strings.Index(msg, "dup key: {")
	if idx == -1 {
		return ""
	}
	rest := msg[idx+len("dup key: {"):]
	end := strings.Index(rest, "}")
	if end == -1 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}

func validationMessage(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		parts = append(parts, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
