// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// # Architecture
//
// Rules run in the resource layer before anything reaches a provider, so the
// remote backend and the fallback store see the same, already-checked input.
package validate

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/language"

	"github.com/taibuivan/riddlerush/internal/platform/apperr"
)

var (
	// ErrInvalidJSON is returned when the request body cannot be decoded.
	ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")
)

// Validator collects field-level validation errors via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every request/operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails with message if the trimmed value is empty.
// An empty message falls back to a generic one.
func (v *Validator) Required(field, value, message string) *Validator {
	if strings.TrimSpace(value) == "" {
		if message == "" {
			message = "This field is required"
		}
		v.add(field, message)
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int, message string) *Validator {
	if utf8.RuneCountInString(value) > max {
		if message == "" {
			message = fmt.Sprintf("Maximum %d characters", max)
		}
		v.add(field, message)
	}
	return v
}

// MinLen fails if the Unicode character count is below min.
func (v *Validator) MinLen(field, value string, min int, message string) *Validator {
	if utf8.RuneCountInString(value) < min {
		if message == "" {
			message = fmt.Sprintf("Minimum %d characters", min)
		}
		v.add(field, message)
	}
	return v
}

// Language fails unless value is a well-formed BCP 47 tag whose base is one
// of the supported languages.
func (v *Validator) Language(field, value, message string, supported ...language.Tag) *Validator {
	tag, err := language.Parse(value)
	if err == nil {
		base, _ := tag.Base()
		for _, s := range supported {
			if sb, _ := s.Base(); sb == base && tag.String() == s.String() {
				return v
			}
		}
	}
	v.add(field, message)
	return v
}

// After fails if later is not strictly after earlier. Zero times are skipped;
// pair this with a Required rule on the raw input.
func (v *Validator) After(field string, later, earlier time.Time, message string) *Validator {
	if later.IsZero() || earlier.IsZero() {
		return v
	}
	if !later.After(earlier) {
		v.add(field, message)
	}
	return v
}

// Custom adds a failure with a custom message if the condition is true.
//
// # Example
//
//	v.Custom("answer", n < 1 || n > 100, "Answer length is invalid for the selected type")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns a [apperr.AppError] (VALIDATION_ERROR) if any rules failed,
// or nil if all rules passed.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// Has reports whether field has at least one failure.
func (v *Validator) Has(field string) bool {
	for _, e := range v.errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}
