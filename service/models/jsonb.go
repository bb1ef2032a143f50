package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSONB generic JSON object column, stored as jsonb on postgres and plain
// text on sqlite (tests).
type JSONB map[string]interface{}

// JSONBStringArray string array stored as a JSONB column.
type JSONBStringArray []string

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("jsonb scan: value is neither []byte nor string")
	}
	return json.Unmarshal(bytes, j)
}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("jsonb scan: value is neither []byte nor string")
	}
	return json.Unmarshal(bytes, j)
}

func (j JSONBStringArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}
