package domain

import (
	"database/sql/driver"
	"errors"
)

// RawJSON carries raw JSON bytes (like json.RawMessage) between the
// database and the API without re-encoding. Zone GeoJSON documents are
// stored and served verbatim through this type.
type RawJSON []byte

func (j RawJSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return []byte(j), nil
}

func (j *RawJSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = append((*j)[0:0], v...)
	case string:
		*j = append((*j)[0:0], v...)
	default:
		return errors.New("unsupported type for RawJSON")
	}
	return nil
}

// MarshalJSON returns j as-is. Required because a named byte-slice type
// loses json.RawMessage's marshaller.
func (j RawJSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

// UnmarshalJSON sets *j to a copy of data.
func (j *RawJSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return errors.New("RawJSON: UnmarshalJSON on nil pointer")
	}
	*j = append((*j)[0:0], data...)
	return nil
}
