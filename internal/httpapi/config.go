package httpapi

// maxBodyBytes controls the maximum allowed request body size for JSON
// endpoints. Default 1 MiB.
var maxBodyBytes int64 = 1 << 20

// SetMaxBodyBytes allows configuring the maximum request body size.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 1 << 20
		return
	}
	maxBodyBytes = n
}

// streamTimeout caps the duration of one whole summarize stream before the
// session context is canceled. Zero means no additional timeout beyond
// server/connection timeouts; the pipeline itself imposes none.
var streamTimeout = int64(0) // seconds

// SetStreamTimeoutSeconds sets the stream timeout in seconds (0 disables).
func SetStreamTimeoutSeconds(sec int64) {
	if sec < 0 {
		sec = 0
	}
	streamTimeout = sec
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
