package validate

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"expyra/internal/domain"
)

var (
	reID   = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reSKU  = regexp.MustCompile(`^[A-Za-z0-9-]{1,32}$`)
	reCode = regexp.MustCompile(`^[A-Za-z0-9 ._-]{1,40}$`)
)

// ID validates a resource identifier (uuid or seed-style slug).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

func SKU(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reSKU.MatchString(s)
}

// BatchCode validates a human-entered batch code.
func BatchCode(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reCode.MatchString(s)
}

// Title validates a displayable title/message with a max length.
func Title(s string, max int) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > max {
		return "", false
	}
	return s, true
}

func AlertType(s string) (domain.AlertType, bool) {
	t := domain.AlertType(strings.TrimSpace(s))
	return t, t.Valid()
}

func AlertStatus(s string) (domain.AlertStatus, bool) {
	st := domain.AlertStatus(strings.TrimSpace(s))
	return st, st.Valid()
}

// sortCols whitelists sortable alert fields and maps them to columns.
var sortCols = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"type":      "type",
	"status":    "status",
}

func SortField(s string) (string, bool) {
	if s == "" {
		return "created_at", true
	}
	col, ok := sortCols[s]
	return col, ok
}

func SortOrder(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "desc":
		return "DESC", true
	case "asc":
		return "ASC", true
	}
	return "", false
}

// PositiveInt parses a positive integer query param, with a default for "".
func PositiveInt(s string, def int) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Date accepts RFC3339 or a bare yyyy-mm-dd day.
func Date(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Quantity parses a non-negative quantity.
func Quantity(n int) bool { return n >= 0 }
