package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringArray stores a list of strings as a JSON text column.
type StringArray []string

// Value implements the driver.Valuer interface
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *StringArray) Scan(value interface{}) error {
	return scanJSON(value, a, func() { *a = StringArray{} })
}

// CookingStep is one instruction of a recipe.
type CookingStep struct {
	StepNumber      int      `json:"step_number"`
	Description     string   `json:"description"`
	IngredientsUsed []string `json:"ingredients_used"`
	TimeMinutes     int      `json:"time_minutes"`
}

// CookingSteps stores recipe steps as a JSON text column.
type CookingSteps []CookingStep

func (s CookingSteps) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *CookingSteps) Scan(value interface{}) error {
	return scanJSON(value, s, func() { *s = CookingSteps{} })
}

func scanJSON(value interface{}, dest interface{}, empty func()) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		empty()
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported JSON column type %T", value)
	}
	if len(data) == 0 {
		empty()
		return nil
	}
	return json.Unmarshal(data, dest)
}
