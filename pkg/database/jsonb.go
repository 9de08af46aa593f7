package database

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONB round-trips a Go value through a postgres jsonb column.
type JSONB[T any] struct {
	Data T
}

func (p *JSONB[T]) Scan(src any) error {
	if src == nil {
		var zero T
		p.Data = zero
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("JSONB.Scan: expected []byte, got %T", src)
	}
	return json.Unmarshal(b, &p.Data)
}

func (p JSONB[T]) Value() (driver.Value, error) {
	return json.Marshal(p.Data)
}

func (p *JSONB[T]) GetValue() T {
	return p.Data
}
