package util

const MaxPageSize = 100

// Page normalizes a limit/offset pair. A non-positive limit falls back to
// def, and limits are capped at MaxPageSize.
func Page(limit, offset, def int) (int, int) {
	if def <= 0 {
		def = 10
	}
	if limit <= 0 {
		limit = def
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
