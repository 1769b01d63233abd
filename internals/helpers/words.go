package helper

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CountWords counts whitespace separated words.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// WordPolicy bounds the number of words in a free-text field. A zero bound is
// not enforced; ExactWords wins over Min/Max when set.
type WordPolicy struct {
	MinWords   int
	MaxWords   int
	ExactWords int
}

// Check returns a user facing message, or "" when text satisfies the policy.
func (p WordPolicy) Check(text string) string {
	n := CountWords(text)
	if p.ExactWords > 0 {
		if n != p.ExactWords {
			return fmt.Sprintf("must contain exactly %d words (got %d)", p.ExactWords, n)
		}
		return ""
	}
	if p.MinWords > 0 && n < p.MinWords {
		if p.MinWords == 1 {
			return "this field is required"
		}
		return fmt.Sprintf("must contain at least %d words (got %d)", p.MinWords, n)
	}
	if p.MaxWords > 0 && n > p.MaxWords {
		return fmt.Sprintf("must contain at most %d words (got %d)", p.MaxWords, n)
	}
	return ""
}

// NewValidator returns a validator that reports json field names and knows
// the minwords=N tag.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("minwords", func(fl validator.FieldLevel) bool {
		min, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return CountWords(fl.Field().String()) >= min
	})
	return v
}
