package httputil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
)

// MaxBodyBytes bounds every JSON request body.
const MaxBodyBytes = 10 << 20

// ParseJSON decodes the request body into dest. Unknown fields are allowed.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// ParseJSONOrEmpty decodes the body into dest, leaving dest at its zero value
// when the body is missing or malformed. Validation downstream then reports
// the missing fields. Only a read failure (e.g. body too large) is returned.
func ParseJSONOrEmpty(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		resetToZero(dest)
	}
	return nil
}

func resetToZero(dest any) {
	v := reflect.ValueOf(dest)
	if v.Kind() == reflect.Pointer && !v.IsNil() {
		v.Elem().SetZero()
	}
}
