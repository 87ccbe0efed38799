package httputil

import (
	"bytes"
	"encoding/json"
)

// Optional distinguishes an absent JSON field from an explicit null:
//   - Set=false: field absent (leave unchanged)
//   - Set=true, Value=nil: field is null (clear)
//   - Set=true, Value!=nil: field has a value
type Optional[T any] struct {
	Set   bool
	Value *T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// Apply writes the value into dst when the field was present.
func (o Optional[T]) Apply(dst **T) {
	if o.Set {
		*dst = o.Value
	}
}
