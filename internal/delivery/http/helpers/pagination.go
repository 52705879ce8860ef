package helpers

import (
	"net/http"
	"strconv"
)

// Offset pagination query parameter defaults and limits.
const (
	DefaultFrom = 0
	DefaultSize = 10
	MaxSize     = 100
)

// ParseFromSize reads from and size from the request query string, clamps them
// to valid ranges, and returns the pair. Invalid or missing values fall back
// to defaults.
func ParseFromSize(r *http.Request) (from, size int) {
	from = DefaultFrom
	if s := r.URL.Query().Get("from"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			from = v
		}
	}
	size = DefaultSize
	if s := r.URL.Query().Get("size"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			size = v
			if size > MaxSize {
				size = MaxSize
			}
		}
	}
	return from, size
}
