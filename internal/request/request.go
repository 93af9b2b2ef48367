// Package request holds helpers shared by the HTTP wrappers.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/errs"
)

// IsApplicationJSONContentType returns true if the content type of the
// request is application/json. Parameters such as charset are ignored.
func IsApplicationJSONContentType(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return strings.EqualFold(mediaType, "application/json")
}

// RequireJSON returns errs.ErrInvalidContentType unless the request
// declares a JSON body.
func RequireJSON(r *http.Request) error {
	if !IsApplicationJSONContentType(r) {
		return fmt.Errorf("%w: %s", errs.ErrInvalidContentType, r.Header.Get("Content-Type"))
	}
	return nil
}

// DecodeJSON reads the request body into v and closes it. Decoding
// errors are reported as errs.ErrInvalidPayload with a readable reason.
func DecodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return checkJSONDecodeError(err)
	}

	return nil
}

func checkJSONDecodeError(err error) error {
	var e *json.UnmarshalTypeError
	if errors.As(err, &e) {
		return fmt.Errorf("%w: %s must be of type %s, got %s",
			errs.ErrInvalidPayload, e.Field, e.Type, e.Value)
	}
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: empty body", errs.ErrInvalidPayload)
	}

	return fmt.Errorf("%w: %s", errs.ErrInvalidPayload, err)
}
