package request

import "encoding/json"

// Nullable records whether a JSON field was present and whether it was null.
type Nullable[T any] struct {
	Set   bool
	Valid bool
	Value T
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true

	if string(data) == "null" {
		n.Valid = false
		return nil
	}

	if err := json.Unmarshal(data, &n.Value); err != nil {
		return err
	}

	n.Valid = true
	return nil
}
