package model

import (
	"strings"
)

type Kind int

const (
	KindInvalid   Kind = iota
	KindClass          // class, abstract class, Go struct
	KindInterface      // interface
	KindOther          // enum, record, annotation: never a target
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindOther:
		return "other"
	default:
		return "invalid"
	}
}

type Modifier string

const (
	Public    Modifier = "public"
	Protected Modifier = "protected"
	Private   Modifier = "private"
	Static    Modifier = "static"
	Final     Modifier = "final"
	Abstract  Modifier = "abstract"
	Default   Modifier = "default"
)

// Modifiers keeps modifiers in declaration order.
type Modifiers []Modifier

func (m Modifiers) Has(mod Modifier) bool {
	for _, x := range m {
		if x == mod {
			return true
		}
	}
	return false
}

func (m Modifiers) String() string {
	parts := make([]string, len(m))
	for i, x := range m {
		parts[i] = string(x)
	}
	return strings.Join(parts, " ")
}
