package postgres

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain"
)

func isNotFound(err error) bool { return errors.Is(err, domain.ErrNotFound) }
func isConflict(err error) bool { return errors.Is(err, domain.ErrConflict) }

// marshalJSON encodes a JSONB parameter; nil values become SQL NULL.
func marshalJSON(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal jsonb: %w", err)
	}
	if string(b) == "null" {
		return nil, nil
	}
	return b, nil
}

// unmarshalJSON decodes a JSONB column into dst, leaving dst untouched for NULL.
func unmarshalJSON(data []byte, dst any) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("unmarshal jsonb: %w", err)
	}
	return nil
}
