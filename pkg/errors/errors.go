// Package errors attaches machine-readable codes and structured fields to the
// sentinel errors returned by the sungear packages.
//
// Sentinels stay the primary contract: callers match them with errors.Is.
// The code carried next to a sentinel lets a host (CLI, UI collaborator) map an
// error to a message without string matching.
package errors

import (
	"fmt"
	"strings"

	"github.com/samber/oops"
)

// Code is the machine-readable identifier for an error.
type Code string

const (
	CodeModelInvalidInput  Code = "model.snapshot.invalid_input"
	CodeModelUnknownItem   Code = "model.snapshot.not_found"
	CodeVesselInvalidInput Code = "vessel.partition.invalid_input"
	CodeVesselThreshold    Code = "vessel.threshold.invalid_value"

	CodeHypergeoInvalidParameters Code = "hypergeo.distribution.invalid_input"

	CodeCoolUnknownMethod Code = "cool.method.not_found"
	CodeCoolInvalidMethod Code = "cool.method.invalid_value"
	CodeCoolInvalidTally  Code = "cool.rank.invalid_input"

	CodeSelectionNotInitialized Code = "selection.engine.not_initialized"
	CodeSelectionEmptySet       Code = "selection.load.empty_set"
	CodeSelectionAlreadyLoaded  Code = "selection.load.conflict"
	CodeSelectionTransition     Code = "selection.multi.invalid_transition"
	CodeSelectionOperation      Code = "selection.multi.invalid_input"

	CodeExplorerUnknownVessel Code = "explorer.vessel.not_found"
	CodeExplorerUnknownAnchor Code = "explorer.anchor.not_found"

	CodeConfigLoadReadFailure      Code = "config.load.read.failure"
	CodeConfigValidateInvalidValue Code = "config.validate.invalid_value"

	CodeCLIInputInvalid  Code = "cli.input.invalid"
	CodeCLISetupFailure  Code = "cli.setup.failure"
	CodeCLIOutputFailure Code = "cli.output.failure"
)

// Attr is a structured key/value context attached to an error.
type Attr struct {
	Key   string
	Value any
}

// Field creates a structured error field.
func Field(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

func FieldItem(name string) Attr {
	return Field("item", name)
}

func FieldMethod(name string) Attr {
	return Field("method", name)
}

// New builds a coded error with a fresh message.
func New(code Code, msg string, fields ...Attr) error {
	return oops.Code(code).With(flatten(fields)...).New(msg)
}

// Errorf builds a coded error; %w verbs keep the wrapped chain intact.
func Errorf(code Code, format string, args ...any) error {
	return oops.Code(code).Errorf(format, args...)
}

// Wrap attaches a code, a message and fields to err. A nil err stays nil.
func Wrap(err error, code Code, msg string, fields ...Attr) error {
	if err == nil {
		return nil
	}

	return oops.Code(code).With(flatten(fields)...).Wrapf(err, "%s", msg)
}

// Mark attaches a code and fields to err without adding a message.
func Mark(err error, code Code, fields ...Attr) error {
	if err == nil {
		return nil
	}

	return oops.Code(code).With(flatten(fields)...).Wrap(err)
}

// CodeOf returns the deepest code in the chain, or "" for plain errors.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}

	if code, ok := oopsErr.Code().(Code); ok {
		return code
	}
	if code, ok := oopsErr.Code().(string); ok {
		return Code(code)
	}
	if oopsErr.Code() == nil {
		return ""
	}

	return Code(fmt.Sprintf("%v", oopsErr.Code()))
}

// FieldsOf returns the structured context attached along the chain.
func FieldsOf(err error) map[string]any {
	if err == nil {
		return nil
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return nil
	}

	return oopsErr.Context()
}

func HasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}

func IsInvalidInput(err error) bool {
	r := reason(CodeOf(err))
	return r == "invalid_input" || r == "invalid_value"
}

func IsNotFound(err error) bool {
	return reason(CodeOf(err)) == "not_found"
}

func IsNotInitialized(err error) bool {
	return reason(CodeOf(err)) == "not_initialized"
}

func flatten(fields []Attr) []any {
	pairs := make([]any, 0, len(fields)*2)
	for _, field := range fields {
		if field.Key == "" {
			continue
		}
		pairs = append(pairs, field.Key, field.Value)
	}
	return pairs
}

func reason(code Code) string {
	if code == "" {
		return ""
	}

	raw := string(code)
	idx := strings.LastIndex(raw, ".")
	if idx == -1 || idx == len(raw)-1 {
		return raw
	}
	return raw[idx+1:]
}
