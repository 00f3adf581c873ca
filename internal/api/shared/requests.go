package shared

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Shared validator instance. validator.Validate caches struct metadata, so a
// single instance serves every handler.
var validate = validator.New()

// DecodeJSON decodes the request body into the given struct.
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// ValidateRequest checks the struct's validate tags against the shared
// validator. Handlers call this after DecodeJSON and translate the returned
// validator.ValidationErrors into the message-array response shape.
func ValidateRequest(v interface{}) error {
	return validate.Struct(v)
}
