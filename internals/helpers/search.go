package helper

import (
	"strings"

	"golang.org/x/text/cases"
)

var fold = cases.Fold()

// SearchTerm case-folds q into a LIKE pattern, or "" when q is blank.
func SearchTerm(q string) string {
	q = strings.TrimSpace(q)
	if q == "" {
		return ""
	}
	return "%" + fold.String(q) + "%"
}
