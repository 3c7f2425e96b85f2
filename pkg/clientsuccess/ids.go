package clientsuccess

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// ParseID validates a resource identifier before it is used in a request
// path. The provider's JSON returns integer IDs but callers commonly hold
// them as strings, so the public surface takes strings and this helper
// accepts any numeric-string form of a positive integer. Empty values,
// non-numeric strings, and fractional numbers fail with a 400-class error
// without any network call.
func ParseID(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, &APIError{Status: http.StatusBadRequest, Message: "id is required"}
	}

	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || id <= 0 {
		return 0, &APIError{Status: http.StatusBadRequest, Message: fmt.Sprintf("invalid id %q: must be a positive integer", value)}
	}

	return id, nil
}

// FormatID renders a numeric ID the way request paths expect it.
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
