// Package validation holds request validation rules and the title-case
// normalization shared by category handling.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FieldError is a human-readable reason attached to one request field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

var registerOnce sync.Once

// Register makes gin's validator report JSON field names instead of Go
// struct field names. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
}

// TitleCase upper-cases the first letter of every word and lower-cases the
// rest. A word is a run of cased letters, so digits, apostrophes and
// underscores all start a new word ("work2do" becomes "Work2Do").
// Casers keep state, so one is built per call.
func TitleCase(s string) string {
	caser := cases.Title(language.Und)

	var b strings.Builder
	b.Grow(len(s))
	start := -1
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if isCased(r) {
			if start < 0 {
				start = i
			}
		} else {
			if start >= 0 {
				b.WriteString(caser.String(s[start:i]))
				start = -1
			}
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	if start >= 0 {
		b.WriteString(caser.String(s[start:]))
	}
	return b.String()
}

func isCased(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
}

// FieldErrors converts a binding error into field-level reasons. It returns
// nil when err is not a validation failure (e.g. malformed JSON).
func FieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	result := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		result = append(result, FieldError{
			Field:  fe.Field(),
			Reason: reason(fe),
		})
	}
	return result
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "alpha", "alphaunicode":
		return fmt.Sprintf("%s must contain only letters", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
