package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"simple-atm/internal/core/domain"
	"simple-atm/pkg/apperror"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(wireName)
		_ = v.RegisterValidation("journal_kind", validateJournalKind)
	}
}

// wireName reports fields by their JSON or query name.
func wireName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// validateJournalKind accepts DEPOSIT, WITHDRAWAL or RESET in any case.
func validateJournalKind(fl validator.FieldLevel) bool {
	_, ok := ParseJournalKind(fl.Field().String())
	return ok
}

// ParseJournalKind maps a query value to a journal kind.
func ParseJournalKind(s string) (domain.JournalKind, bool) {
	switch k := domain.JournalKind(strings.ToUpper(strings.TrimSpace(s))); k {
	case domain.JournalKindDeposit, domain.JournalKindWithdrawal, domain.JournalKindReset:
		return k, true
	}
	return "", false
}

// BindError converts a gin binding failure to the matching AppError.
// A bill value that is not an integer is an invalid denomination; any other
// JSON number that does not fit an integer field is an invalid quantity.
func BindError(err error) *apperror.AppError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if isBillValue(typeErr.Field) {
			return apperror.ErrMalformedDenomination(numberLiteral(typeErr.Value))
		}
		if typeErr.Value == "number" || strings.HasPrefix(typeErr.Value, "number ") {
			return apperror.ErrInvalidQuantity()
		}
		return apperror.Validation(fmt.Sprintf("%s must be %s", fieldName(typeErr.Field), typeErr.Type.String()))
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return apperror.ErrPayloadTooLarge()
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, describe(fe))
		}
		return apperror.Validation(strings.Join(msgs, "; "))
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return apperror.Validation("malformed JSON body")
	}
	if errors.Is(err, io.EOF) {
		return apperror.Validation("request body is required")
	}
	return apperror.Validation(err.Error())
}

// isBillValue matches the value field of a bill, by full path or bare name.
func isBillValue(field string) bool {
	return field == "value" || strings.HasSuffix(field, ".value")
}

// numberLiteral extracts 2.5 from "number 2.5"; other JSON types yield "".
func numberLiteral(v string) string {
	lit, _ := strings.CutPrefix(v, "number ")
	if lit == v {
		return ""
	}
	return lit
}

func describe(fe validator.FieldError) string {
	name := fieldName(fe.Field())
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "journal_kind":
		return name + " must be one of DEPOSIT, WITHDRAWAL, RESET"
	}
	return fmt.Sprintf("%s failed %s validation", name, fe.Tag())
}

func fieldName(f string) string {
	if f == "" {
		return "body"
	}
	return f
}
