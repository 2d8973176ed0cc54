package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONList stores an owned list of sub-records as a single JSON text column.
// Replacing the list is one column write on the parent row.
type JSONList[T any] []T

// Value implements driver.Valuer
func (l JSONList[T]) Value() (driver.Value, error) {
	b, err := json.Marshal([]T(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (l *JSONList[T]) Scan(src interface{}) error {
	data, err := jsonBytes(src)
	if err != nil {
		return err
	}
	if data == nil {
		*l = nil
		return nil
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("decode json list: %w", err)
	}
	*l = out
	return nil
}

// JSONMap stores a string-keyed map as a JSON text column
type JSONMap[V any] map[string]V

// Value implements driver.Valuer
func (m JSONMap[V]) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]V(m))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (m *JSONMap[V]) Scan(src interface{}) error {
	data, err := jsonBytes(src)
	if err != nil {
		return err
	}
	out := make(map[string]V)
	if data != nil {
		if err := json.Unmarshal(data, &out); err != nil {
			return fmt.Errorf("decode json map: %w", err)
		}
	}
	*m = out
	return nil
}

func jsonBytes(src interface{}) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		if len(v) == 0 {
			return nil, nil
		}
		return v, nil
	case string:
		if v == "" {
			return nil, nil
		}
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported json column type %T", src)
	}
}
