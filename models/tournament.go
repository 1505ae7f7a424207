package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// SquadRule limits how many players of one position a team may hold.
type SquadRule struct {
	Max int `json:"max"`
}

// SquadRules maps player position -> rule, stored as JSONB.
type SquadRules map[string]SquadRule

func (r *SquadRules) Scan(src interface{}) error {
	if src == nil {
		*r = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("squad rules: cannot scan %T", src)
	}
	return json.Unmarshal(b, r)
}

func (r SquadRules) Value() (driver.Value, error) {
	if r == nil {
		return nil, nil
	}
	return json.Marshal(r)
}

type Tournament struct {
	ID         int        `json:"id" db:"id"`
	Name       string     `json:"name" db:"name"`
	SquadRules SquadRules `json:"squad_rules,omitempty" db:"squad_rules"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}
