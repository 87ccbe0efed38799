package tools

import (
	"encoding/json"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// decodeInput maps the model's arguments onto dst and, when dst implements
// validation.Validatable, validates it.
func decodeInput(input map[string]any, dst any) error {
	raw, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("invalid tool input: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("invalid tool input: %w", err)
	}
	if v, ok := dst.(validation.Validatable); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("invalid tool input: %w", err)
		}
	}
	return nil
}
