package httpapi

import "fmt"

// maxBodyBytes controls the maximum allowed request body size for JSON
// endpoints. Default is 1 MiB.
var maxBodyBytes int64 = 1 << 20

// SetMaxBodyBytes allows configuring the maximum request body size.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 1 << 20
		return
	}
	maxBodyBytes = n
}

// maxTextChars bounds the input text length in characters (runes, not
// bytes). The boundary is inclusive: a text of exactly this length passes.
var maxTextChars = 512

// SetMaxTextChars allows configuring the input length cap.
func SetMaxTextChars(n int) {
	if n <= 0 {
		maxTextChars = 512
		return
	}
	maxTextChars = n
}

func msgTextTooLong() string {
	return fmt.Sprintf("Input text exceeds maximum length of %d characters", maxTextChars)
}

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures CORS behavior for the HTTP server.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
}
