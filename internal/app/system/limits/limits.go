// internal/app/system/limits/limits.go
package limits

// Request body size limits.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxJSONBodySize bounds thread, comment, and profile JSON bodies.
	// Thread text caps at 1000 characters, so anything near this limit is
	// garbage, not a legitimate payload.
	MaxJSONBodySize = 64 << 10 // 64 KB
)
