package shared

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Validate is the shared validator instance for request DTOs.
var Validate = validator.New()

// DecodeJSON decodes the request body into the given struct.
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// ValidateRequest validates the given struct. Types that implement
// their own Validate method take precedence over struct tags.
func ValidateRequest(v interface{}) error {
	if validating, ok := v.(interface{ Validate() error }); ok {
		return validating.Validate()
	}
	return Validate.Struct(v)
}
