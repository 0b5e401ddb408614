package kmerr

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Auth / session (KM1001-KM1099)
	// ============================================

	"KM1001": {
		Category:   CategoryAuth,
		Message:    "Login failed",
		Detail:     "The backend rejected the credentials or the request could not be completed.",
		Suggestion: "Check the email/password pair and that the API is reachable.",
	},
	"KM1002": {
		Category:   CategoryAuth,
		Message:    "No credential received",
		Detail:     "The login call succeeded at the transport level but the response carried no token.",
		Suggestion: "Verify that the backend returns a 'token' field in its auth response.",
	},
	"KM1003": {
		Category: CategoryAuth,
		Message:  "Not logged in",
		Detail:   "The operation requires an authenticated session and no token is present.",
	},

	// ============================================
	// Local storage (KM2001-KM2099)
	// ============================================

	"KM2001": {
		Category: CategoryStorage,
		Message:  "Storage write failed",
		Detail:   "The durable local store rejected a write. In-memory state is still current, but it will not survive a restart.",
	},
	"KM2002": {
		Category: CategoryStorage,
		Message:  "Storage closed",
		Detail:   "An operation was attempted on a closed store.",
	},

	// ============================================
	// Live-patch feed (KM3001-KM3099)
	// ============================================

	"KM3001": {
		Category:   CategoryFeed,
		Message:    "Feed connection failed",
		Detail:     "The websocket dial to the live-patch channel did not succeed. A single attempt is made; there is no automatic reconnect.",
		Suggestion: "Check the ws_url configuration and that the backend exposes the channel.",
	},
	"KM3002": {
		Category: CategoryFeed,
		Message:  "Feed closed",
		Detail:   "The live-patch channel has been closed; no further messages will be delivered.",
	},

	// ============================================
	// Remote API (KM4001-KM4099)
	// ============================================

	"KM4001": {
		Category: CategoryAPI,
		Message:  "Request failed",
		Detail:   "The remote call could not be completed.",
	},
	"KM4002": {
		Category: CategoryAPI,
		Message:  "Backend reported failure",
		Detail:   "The response envelope carried success=false.",
	},
	"KM4003": {
		Category: CategoryAPI,
		Message:  "Unexpected response shape",
		Detail:   "The response body could not be decoded as either a bare payload or a {success, message, data} envelope.",
	},

	// ============================================
	// Configuration (KM5001-KM5099)
	// ============================================

	"KM5001": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration",
		Detail:     "kmato.json (or its environment overrides) failed validation.",
		Suggestion: "Run with defaults by removing the offending field, or fix the value.",
	},
	"KM5002": {
		Category: CategoryConfig,
		Message:  "Config file unreadable",
		Detail:   "kmato.json exists but could not be parsed.",
	},
}
