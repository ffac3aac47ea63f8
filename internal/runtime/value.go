// Package runtime implements the store and evaluator for WHILE programs.
package runtime

import "fmt"

// Value is the interface for all runtime values.
type Value interface {
	TypeName() string
	String() string
}

// IntVal represents an integer value.
type IntVal int64

func (v IntVal) TypeName() string { return "int" }
func (v IntVal) String() string   { return fmt.Sprintf("%d", int64(v)) }

// BoolVal represents a boolean value.
type BoolVal bool

func (v BoolVal) TypeName() string { return "bool" }
func (v BoolVal) String() string   { return fmt.Sprintf("%t", bool(v)) }
