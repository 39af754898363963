// Package bind decodes and validates JSON request bodies in one step.
package bind

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/splatmarket/splatmarket/pkg/validate"
)

// maxBodyBytes caps JSON request bodies at 1 MiB. File uploads use multipart
// forms and are not bound through this package.
const maxBodyBytes = 1 << 20

var ErrInvalidJSON = errors.New("bind: invalid JSON body")

// JSON decodes the request body into dest and validates it. On validation
// failure the returned error is a validate.Errors, which callers pass to
// response.ValidationError.
func JSON(r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dest); err != nil {
		return ErrInvalidJSON
	}

	if errs := validate.Struct(dest); errs != nil {
		return errs
	}

	return nil
}
