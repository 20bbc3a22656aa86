package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var errBadRequest = errors.New("malformed request body")

const maxBodyBytes = 1 << 20

// decodeJSON parses the request body into v, rejecting oversized and
// malformed payloads.
func decodeJSON(r *http.Request, v any) error {
	body := io.LimitReader(r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	// Trailing garbage after the JSON document is rejected too
	if dec.More() {
		return fmt.Errorf("%w: unexpected trailing data", errBadRequest)
	}
	return nil
}
