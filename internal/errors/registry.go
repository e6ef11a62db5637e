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
	// State Errors (E001-E009)
	// ============================================

	"E001": {
		Category:   CategoryState,
		Message:    "Container already holds a live render",
		Detail:     "A container can be hydrated or rendered once. Later renders go through the handle returned by the first call.",
		Suggestion: "Call Update on the Root returned by the first Hydrate or Render",
	},

	// ============================================
	// Structural Errors (E010-E019)
	// ============================================

	"E010": {
		Category: CategoryStructural,
		Message:  "Unbalanced part marker",
		Detail:   "A close marker was found with no open part, or the root part was closed twice.",
	},
	"E011": {
		Category: CategoryStructural,
		Message:  "More than one root part in container",
		Detail:   "A container rendered by the server holds exactly one root part. A second top-level open marker was found after the root closed.",
	},
	"E012": {
		Category:   CategoryStructural,
		Message:    "No root part in container",
		Detail:     "The container holds no open part marker, so nothing rendered it.",
		Suggestion: "Render the container instead of hydrating it",
	},
	"E013": {
		Category: CategoryStructural,
		Message:  "Part marker left open",
		Detail:   "The scan reached the end of the container while parts were still open.",
	},
	"E014": {
		Category: CategoryStructural,
		Message:  "Malformed node marker",
		Detail:   "A node marker must carry a non-negative decimal node index.",
	},
	"E015": {
		Category: CategoryStructural,
		Message:  "Annotated element not found",
		Detail:   "A node marker must follow a void element or be the first child of an element.",
	},
	"E016": {
		Category: CategoryStructural,
		Message:  "Part marker nested in a leaf part",
		Detail:   "A part that holds a primitive or unchanged value cannot contain nested parts.",
	},

	// ============================================
	// Shape Errors (E020-E029)
	// ============================================

	"E020": {
		Category:   CategoryShape,
		Message:    "Template digest mismatch",
		Detail:     "The template rendered into this slot by the server differs from the template supplied for hydration.",
		Suggestion: "Make sure the server and client render the same template for the same data",
	},
	"E021": {
		Category: CategoryShape,
		Message:  "Iterable shorter than expected",
		Detail:   "The markup holds more item parts than the iterable produced.",
	},
	"E022": {
		Category: CategoryShape,
		Message:  "Iterable longer than expected",
		Detail:   "The iterable produced items that have no part markers in the markup.",
	},
	"E023": {
		Category: CategoryShape,
		Message:  "Template shape mismatch",
		Detail:   "The markers inside a template instance do not line up with the template's parts.",
	},
	"E024": {
		Category: CategoryShape,
		Message:  "Unexpected template marker",
		Detail:   "The open marker records a template digest but the value is not a template result.",
	},

	// ============================================
	// Internal Errors (E030-E039)
	// ============================================

	"E030": {
		Category: CategoryInternal,
		Message:  "Node marker outside template instance",
		Detail:   "Attribute and element parts only exist inside template instances.",
	},

	// ============================================
	// Template Errors (E040-E049)
	// ============================================

	"E040": {
		Category: CategoryTemplate,
		Message:  "Unsupported binding position",
		Detail:   "Bindings are allowed in text, attribute values and element tags.",
	},
	"E041": {
		Category:   CategoryTemplate,
		Message:    "Binding lost while preparing template",
		Detail:     "The HTML parser dropped or moved a binding placeholder, which usually means misplaced markup such as table rows outside a table.",
		Suggestion: "Check that the template is well-formed HTML",
	},
	"E042": {
		Category: CategoryTemplate,
		Message:  "Value count does not match template",
		Detail:   "A template result must carry one value per binding.",
	},

	// ============================================
	// Config Errors (E050-E059)
	// ============================================

	"E050": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "A configuration value is out of range or inconsistent.",
	},
	"E051": {
		Category:   CategoryConfig,
		Message:    "Configuration file unreadable",
		Detail:     "hydrate.json could not be read or parsed.",
		Suggestion: "Check that hydrate.json is valid JSON",
	},
	"E052": {
		Category:   CategoryConfig,
		Message:    "Configuration file not found",
		Suggestion: "Create hydrate.json in the project root or pass --config",
	},

	// ============================================
	// Fixture Errors (E060-E069)
	// ============================================

	"E060": {
		Category: CategoryFixture,
		Message:  "Invalid fixture",
		Detail:   "The fixture file could not be decoded.",
	},
	"E061": {
		Category: CategoryFixture,
		Message:  "Unknown fixture template",
		Detail:   "A value refers to a template the fixture does not define.",
	},

	// ============================================
	// CLI Errors (E070-E079)
	// ============================================

	"E070": {
		Category: CategoryCLI,
		Message:  "Command failed",
	},
}

// GetAllCodes returns all registered error codes in ascending order.
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

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
