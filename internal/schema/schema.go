// Package schema validates listing files before they reach the listing
// service, which stores whatever it is given.
//
// Files are YAML; the rules live in an embedded CUE schema (listing.cue).
// Validation is a UI-layer concern: the service itself never rejects a
// negative price or an unknown property type.
package schema

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/homelist/internal/domain"
)

//go:embed listing.cue
var listingSchema string

// Validation error codes.
const (
	ErrCodeParse  = "E201" // file is not valid YAML
	ErrCodeSchema = "E202" // document violates the schema
)

// ValidationError is one problem found in a listing file.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Errors collects every problem found in one document.
type Errors []ValidationError

// Error implements the error interface.
func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return strings.Join(msgs, "; ")
}

// Draft validates a YAML listing draft and decodes it with schema
// defaults applied (priceUnit VND, empty images, zero rooms).
func Draft(data []byte) (domain.ListingDraft, error) {
	var d domain.ListingDraft
	if err := check(data, "#ListingDraft", &d); err != nil {
		return domain.ListingDraft{}, err
	}
	if d.Images == nil {
		d.Images = []string{}
	}
	return d, nil
}

// Patch validates a YAML partial update. Absent fields stay nil.
func Patch(data []byte) (domain.ListingPatch, error) {
	var p domain.ListingPatch
	if err := check(data, "#ListingPatch", &p); err != nil {
		return domain.ListingPatch{}, err
	}
	return p, nil
}

// check unifies the YAML document with the named definition and decodes
// the result into out.
func check(data []byte, def string, out any) error {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Errors{{Message: err.Error(), Code: ErrCodeParse}}
	}
	if doc == nil {
		doc = map[string]any{}
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(listingSchema, cue.Filename("listing.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile listing schema: %w", err)
	}

	v := schema.LookupPath(cue.ParsePath(def)).Unify(ctx.Encode(doc))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fromCUE(err)
	}
	if err := v.Decode(out); err != nil {
		return Errors{{Message: err.Error(), Code: ErrCodeSchema}}
	}
	return nil
}

// fromCUE flattens a CUE error list, one entry per distinct field.
func fromCUE(err error) Errors {
	var out Errors
	seen := map[string]bool{}
	for _, e := range errors.Errors(err) {
		field := strings.Join(e.Path(), ".")
		if seen[field] {
			continue
		}
		seen[field] = true
		format, args := e.Msg()
		out = append(out, ValidationError{
			Field:   field,
			Message: fmt.Sprintf(format, args...),
			Code:    ErrCodeSchema,
		})
	}
	if len(out) == 0 {
		out = Errors{{Message: err.Error(), Code: ErrCodeSchema}}
	}
	return out
}
