package errs

import "strings"

// sanitize flattens multi-line values before they are embedded in an error
// message, so log lines stay single-line.
func sanitize(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r", " "), "\n", " ")
}
