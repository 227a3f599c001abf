// internal/common/validation/quote.go
package validation

import (
	"fmt"
	"sort"
	"strings"

	apperrors "home-quote-workers/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

// QuoteInputSchema accepts any state or property type string; only the numeric
// fields are type-checked. Extra variables are allowed because Zeebe jobs carry
// the whole process scope.
const QuoteInputSchema = `{
  "type": "object",
  "properties": {
    "state":         { "type": "string" },
    "propertyType":  { "type": "string" },
    "squareFootage": { "type": ["number", "null"] },
    "roofAge":       { "type": "number" },
    "address":       { "type": "string" }
  },
  "required": ["roofAge"]
}`

// StrictQuoteInputSchema also enforces the nominal ranges of the quote form.
const StrictQuoteInputSchema = `{
  "type": "object",
  "properties": {
    "state":         { "type": "string" },
    "propertyType":  { "type": "string" },
    "squareFootage": { "type": ["number", "null"], "minimum": 300, "maximum": 10000 },
    "roofAge":       { "type": "number", "minimum": 0, "maximum": 80 },
    "address":       { "type": "string" }
  },
  "required": ["roofAge"]
}`

var (
	quoteSchema       = mustSchema(QuoteInputSchema)
	strictQuoteSchema = mustSchema(StrictQuoteInputSchema)
)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("compile quote schema: %v", err))
	}
	return s
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidateQuoteInput checks a raw JSON quote request before it reaches the
// pricing core. Malformed JSON is reported as a single PARSE_ERROR entry.
func ValidateQuoteInput(raw []byte, strict bool) *ValidationResult {
	schema := quoteSchema
	if strict {
		schema = strictQuoteSchema
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "(root)",
				Message: err.Error(),
				Code:    string(apperrors.ErrCodeParseError),
			}},
		}
	}

	if result.Valid() {
		return &ValidationResult{Valid: true}
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:   fieldName(re),
			Message: re.Description(),
			Code:    strings.ToUpper(re.Type()),
		})
	}
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })

	return &ValidationResult{Valid: false, Errors: errs}
}

// required errors are reported on the parent; name the missing property instead.
func fieldName(re gojsonschema.ResultError) string {
	if re.Type() == "required" {
		if p, ok := re.Details()["property"].(string); ok {
			return p
		}
	}
	return re.Field()
}

// FieldErrors flattens the result into "field: message" strings.
func (r *ValidationResult) FieldErrors() []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, e.Field+": "+e.Message)
	}
	return out
}

// Err converts a failed result into the standard error taxonomy; nil when valid.
func (r *ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	for _, e := range r.Errors {
		if e.Code == string(apperrors.ErrCodeParseError) {
			return apperrors.NewParseError(fmt.Errorf("%s", e.Message))
		}
	}
	return apperrors.NewInvalidQuoteInputError(strings.Join(r.FieldErrors(), "; "), r.FieldErrors())
}
