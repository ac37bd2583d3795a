package model

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedNode is returned by a NodeFactory asked to build a node that
	// could never be printed as valid source.
	ErrMalformedNode = errors.New("malformed node")
	// ErrUnresolved means a document could not be brought to a resolved tree.
	ErrUnresolved = errors.New("unresolved source")
)

// NodeFactory builds new syntax nodes from semantic descriptions. Bodies are
// statement text, one statement per line.
type NodeFactory interface {
	Modifiers(mods ...Modifier) Modifiers
	Type(text string) *TypeRef
	Variable(mods Modifiers, name string, typ *TypeRef) (*Variable, error)
	Field(mods Modifiers, name string, typ *TypeRef) (*Field, error)
	Method(mods Modifiers, name string, ret *TypeRef, params []*Variable, throws []*TypeRef, body string) (*Method, error)
	Constructor(mods Modifiers, name string, params []*Variable, throws []*TypeRef, body string) (*Constructor, error)
	Class(mods Modifiers, name string) (*TypeDecl, error)
}

// Factory is the default NodeFactory.
type Factory struct{}

var _ NodeFactory = Factory{}

func (Factory) Modifiers(mods ...Modifier) Modifiers {
	out := make(Modifiers, 0, len(mods))
	for _, m := range mods {
		if !out.Has(m) {
			out = append(out, m)
		}
	}
	return out
}

func (Factory) Type(text string) *TypeRef {
	return &TypeRef{Text: text}
}

func (Factory) Variable(mods Modifiers, name string, typ *TypeRef) (*Variable, error) {
	if err := checkNamed("variable", name, typ); err != nil {
		return nil, err
	}
	return &Variable{Modifiers: mods, Name: name, Type: typ}, nil
}

func (Factory) Field(mods Modifiers, name string, typ *TypeRef) (*Field, error) {
	if err := checkNamed("field", name, typ); err != nil {
		return nil, err
	}
	return &Field{Modifiers: mods, Name: name, Type: typ}, nil
}

func (Factory) Method(mods Modifiers, name string, ret *TypeRef, params []*Variable, throws []*TypeRef, body string) (*Method, error) {
	if name == "" {
		return nil, fmt.Errorf("method: empty name: %w", ErrMalformedNode)
	}
	for i, p := range params {
		if p == nil {
			return nil, fmt.Errorf("method %s: parameter %d is nil: %w", name, i, ErrMalformedNode)
		}
	}
	return &Method{
		Modifiers:  mods,
		Name:       name,
		ReturnType: ret,
		Params:     params,
		Throws:     throws,
		Body:       body,
	}, nil
}

func (Factory) Constructor(mods Modifiers, name string, params []*Variable, throws []*TypeRef, body string) (*Constructor, error) {
	if name == "" {
		return nil, fmt.Errorf("constructor: empty name: %w", ErrMalformedNode)
	}
	return &Constructor{
		Modifiers: mods,
		Name:      name,
		Params:    params,
		Throws:    throws,
		Body:      body,
	}, nil
}

func (Factory) Class(mods Modifiers, name string) (*TypeDecl, error) {
	if name == "" {
		return nil, fmt.Errorf("class: empty name: %w", ErrMalformedNode)
	}
	return &TypeDecl{
		Kind:      KindClass,
		Name:      name,
		Modifiers: mods,
		Members:   []Member{},
	}, nil
}

func checkNamed(what, name string, typ *TypeRef) error {
	if name == "" {
		return fmt.Errorf("%s: empty name: %w", what, ErrMalformedNode)
	}
	if typ == nil || typ.Text == "" {
		return fmt.Errorf("%s %s: missing type: %w", what, name, ErrMalformedNode)
	}
	return nil
}
