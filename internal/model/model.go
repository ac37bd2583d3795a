package model

import (
	"go/ast"
)

type Language string

const (
	LanguageJava Language = "java"
	LanguageGo   Language = "go"
)

// Span is a half-open byte range into the source a node was read from.
type Span struct {
	Start int
	End   int
}

func (s Span) Valid() bool {
	return s.End > s.Start
}

// TypeRef is a declared type, carried verbatim from the source.
type TypeRef struct {
	Text string   // "int", "List<Object>", "*time.Time"
	Expr ast.Expr // original expression, Go front end only
}

func (t *TypeRef) String() string {
	if t == nil {
		return ""
	}
	return t.Text
}

// Member is anything that can be declared inside a type body.
type Member interface {
	MemberName() string
	member()
}

type Variable struct {
	Modifiers Modifiers
	Name      string
	Type      *TypeRef
}

type Field struct {
	Modifiers Modifiers
	Name      string
	Type      *TypeRef
	Span      Span
}

type Method struct {
	Modifiers  Modifiers
	Name       string
	ReturnType *TypeRef // nil when the method returns nothing
	Params     []*Variable
	Throws     []*TypeRef
	Body       string // statement text, one statement per line
	Span       Span
}

type Constructor struct {
	Modifiers Modifiers
	Name      string
	Params    []*Variable
	Throws    []*TypeRef
	Body      string
	Span      Span
}

// Opaque is a member the front end does not model (initializer blocks, enum
// constants, ...). It is kept only so member order stays intact.
type Opaque struct {
	Text string
	Span Span
}

// TypeDecl is a class, interface or other type declaration.
type TypeDecl struct {
	Kind      Kind
	Name      string
	Modifiers Modifiers
	Members   []Member
	Span      Span // whole declaration
	Body      Span // body including braces
}

func (f *Field) MemberName() string       { return f.Name }
func (m *Method) MemberName() string      { return m.Name }
func (c *Constructor) MemberName() string { return c.Name }
func (o *Opaque) MemberName() string      { return "" }
func (d *TypeDecl) MemberName() string    { return d.Name }

func (*Field) member()       {}
func (*Method) member()      {}
func (*Constructor) member() {}
func (*Opaque) member()      {}
func (*TypeDecl) member()    {}

// AddMember returns a copy of d with m appended after every existing member.
// d itself is left untouched.
func (d *TypeDecl) AddMember(m Member) *TypeDecl {
	clone := *d
	clone.Members = make([]Member, 0, len(d.Members)+1)
	clone.Members = append(clone.Members, d.Members...)
	clone.Members = append(clone.Members, m)
	return &clone
}

// MemberType returns the nested type declaration called name, if any.
func (d *TypeDecl) MemberType(name string) (*TypeDecl, bool) {
	for _, m := range d.Members {
		if td, ok := m.(*TypeDecl); ok && td.Name == name {
			return td, true
		}
	}
	return nil, false
}

// CompilationUnit is one parsed source document.
type CompilationUnit struct {
	Path     string
	Language Language
	Source   []byte
	Package  string            // package name
	PkgPath  string            // import path, Go only
	Imports  map[string]string // alias -> import path, Go only
	Types    []*TypeDecl       // top-level declarations, in source order
}
