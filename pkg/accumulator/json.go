package accumulator

import (
	"encoding/json"
	"fmt"
)

const placeholderString = "placeholder"

// MarshalJSON implements the json.Marshaler interface. Concrete hashes are
// encoded as hex strings, empty ones as null and placeholders as the
// "placeholder" string.
func (h NodeHash) MarshalJSON() ([]byte, error) {
	switch h.kind {
	case KindEmpty:
		return []byte("null"), nil
	case KindPlaceholder:
		return json.Marshal(placeholderString)
	default:
		return json.Marshal(h.String())
	}
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (h *NodeHash) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid NodeHash JSON: %w", err)
	}
	switch {
	case s == nil:
		*h = Empty()
	case *s == placeholderString:
		*h = Placeholder()
	default:
		res, err := DecodeString(*s)
		if err != nil {
			return err
		}
		*h = res
	}
	return nil
}
