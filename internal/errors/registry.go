package errors

import "sort"

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
	// Fetch Errors (E100-E119)
	// ============================================

	"E100": {
		Category:   CategoryValidation,
		Message:    "Invalid request",
		Detail:     "The request was rejected before any network call was made.",
		Suggestion: "Check that identifiers such as the username are not empty.",
	},
	"E101": {
		Category:   CategoryTransport,
		Message:    "Request could not be sent",
		Detail:     "The request could not be sent or no response was received.",
		Suggestion: "Check network connectivity and the configured base URL.",
	},
	"E102": {
		Category: CategoryHTTP,
		Message:  "Network response was not ok",
		Detail:   "The server answered with a non-success status code.",
	},
	"E103": {
		Category: CategoryDecode,
		Message:  "Response could not be decoded",
		Detail:   "The response body is not valid JSON for the expected schema.",
	},
	"E104": {
		Category: CategoryValidation,
		Message:  "View already active",
		Detail:   "A view issues exactly one request per activation. Deactivate it before activating again.",
	},

	// ============================================
	// Configuration Errors (E200-E219)
	// ============================================

	"E200": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration file",
		Detail:     "The configuration file is malformed.",
		Suggestion: "fetchview reads fetchview.json, fetchview.yaml or fetchview.yml.",
	},
	"E201": {
		Category: CategoryConfig,
		Message:  "Missing required configuration",
		Detail:   "A required configuration value is not set.",
	},
	"E202": {
		Category: CategoryConfig,
		Message:  "Invalid base URL",
		Detail:   "Base URLs must be absolute http or https URLs.",
	},
	"E203": {
		Category: CategoryConfig,
		Message:  "Invalid duration",
		Detail:   "Durations must be positive and use Go syntax such as 10s or 1m30s.",
	},
	"E204": {
		Category: CategoryConfig,
		Message:  "Invalid log level",
		Detail:   "Valid levels are debug, info, warn and error.",
	},

	// ============================================
	// CLI Errors (E300-E319)
	// ============================================

	"E300": {
		Category:   CategoryCLI,
		Message:    "Missing username",
		Detail:     "A GitHub username is required.",
		Suggestion: "Pass it as an argument: fetchview profile octocat",
	},
	"E301": {
		Category: CategoryCLI,
		Message:  "View failed",
		Detail:   "The view settled in the failed state.",
	},
	"E302": {
		Category: CategoryCLI,
		Message:  "Timed out waiting for view",
		Detail:   "The request did not complete within the configured timeout.",
	},
}

// GetAllCodes returns all registered error codes in sorted order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
