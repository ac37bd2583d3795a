// Package gosrc loads Go struct and interface declarations into the syntax
// model and renders their builders as a companion file.
package gosrc

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/cmmoran/buildergen/internal/model"
)

// Parser loads a single Go file through go/packages.
type Parser struct {
	logger *slog.Logger
}

func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// ParseFile loads the package containing path and converts the top-level type
// declarations of that one file.
func (p *Parser) ParseFile(ctx context.Context, path string) (*model.CompilationUnit, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	fset := token.NewFileSet()
	pkgs, err := packages.Load(&packages.Config{
		Mode:    packages.NeedName | packages.NeedFiles | packages.NeedSyntax,
		Dir:     filepath.Dir(abs),
		Fset:    fset,
		Context: ctx,
	}, "file="+abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", model.ErrUnresolved, path, err)
	}

	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			msgs := make([]string, 0, len(pkg.Errors))
			for _, e := range pkg.Errors {
				msgs = append(msgs, e.Msg)
			}
			return nil, fmt.Errorf("%w: %s: %s", model.ErrUnresolved, path, strings.Join(msgs, "; "))
		}
		for _, file := range pkg.Syntax {
			if !sameFile(fset.Position(file.Pos()).Filename, abs) {
				continue
			}
			if ast.IsGenerated(file) {
				p.logger.Info("skipping generated file", "file", path)
				return &model.CompilationUnit{
					Path:     path,
					Language: model.LanguageGo,
					Source:   content,
					Package:  pkg.Name,
					PkgPath:  pkg.PkgPath,
				}, nil
			}
			unit := &model.CompilationUnit{
				Path:     path,
				Language: model.LanguageGo,
				Source:   content,
				Package:  pkg.Name,
				PkgPath:  pkg.PkgPath,
				Imports:  collectImports(file),
				Types:    p.collectTypes(file),
			}
			p.logger.Debug("loaded go source", "file", path, "package", pkg.PkgPath, "types", len(unit.Types))
			return unit, nil
		}
	}

	return nil, fmt.Errorf("%w: %s: file not found in loaded packages", model.ErrUnresolved, path)
}

func sameFile(a, b string) bool {
	if a == b {
		return true
	}
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

// collectImports maps the name each import is referred to by onto its path.
func collectImports(file *ast.File) map[string]string {
	out := make(map[string]string, len(file.Imports))
	for _, imp := range file.Imports {
		path := strings.Trim(imp.Path.Value, `"`)
		alias := defaultImportName(path)
		if imp.Name != nil {
			if imp.Name.Name == "_" || imp.Name.Name == "." {
				continue
			}
			alias = imp.Name.Name
		}
		out[alias] = path
	}
	return out
}

// defaultImportName guesses the package name of an unaliased import:
// example.com/geo/v2 -> geo, gopkg.in/yaml.v3 -> yaml.
func defaultImportName(path string) string {
	parts := strings.Split(path, "/")
	name := parts[len(parts)-1]
	if len(parts) > 1 && isMajorVersion(name) {
		name = parts[len(parts)-2]
	}
	if i := strings.Index(name, ".v"); i > 0 && isMajorVersion(name[i+1:]) {
		name = name[:i]
	}
	return name
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (p *Parser) collectTypes(file *ast.File) []*model.TypeDecl {
	out := make([]*model.TypeDecl, 0)
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			// Skip true aliases: type X = Y
			if ts.Assign.IsValid() {
				continue
			}
			td := &model.TypeDecl{
				Kind:    model.KindOther,
				Name:    ts.Name.Name,
				Members: make([]model.Member, 0),
			}
			// generic builders are out of scope
			if ts.TypeParams != nil && len(ts.TypeParams.List) > 0 {
				p.logger.Debug("skipping generic type", "type", ts.Name.Name)
				out = append(out, td)
				continue
			}
			switch t := ts.Type.(type) {
			case *ast.StructType:
				td.Kind = model.KindClass
				td.Members = structFields(t)
			case *ast.InterfaceType:
				td.Kind = model.KindInterface
				td.Members = interfaceMethods(t)
			}
			out = append(out, td)
		}
	}
	return out
}

// structFields converts named struct fields; embedded fields have no name to
// derive a slot from and are left out.
func structFields(st *ast.StructType) []model.Member {
	out := make([]model.Member, 0, len(st.Fields.List))
	for _, fld := range st.Fields.List {
		for _, id := range fld.Names {
			out = append(out, &model.Field{
				Name: id.Name,
				Type: typeRef(fld.Type),
			})
		}
	}
	return out
}

func interfaceMethods(it *ast.InterfaceType) []model.Member {
	out := make([]model.Member, 0, len(it.Methods.List))
	for _, m := range it.Methods.List {
		ft, ok := m.Type.(*ast.FuncType)
		if !ok || len(m.Names) == 0 {
			// embedded interface or type constraint
			continue
		}
		method := &model.Method{
			Name:   m.Names[0].Name,
			Params: params(ft.Params),
		}
		// an accessor returns exactly one value
		if ft.Results != nil && ft.Results.NumFields() == 1 {
			method.ReturnType = typeRef(ft.Results.List[0].Type)
		}
		out = append(out, method)
	}
	return out
}

func params(fl *ast.FieldList) []*model.Variable {
	if fl == nil {
		return nil
	}
	out := make([]*model.Variable, 0, fl.NumFields())
	for _, f := range fl.List {
		if len(f.Names) == 0 {
			out = append(out, &model.Variable{Type: typeRef(f.Type)})
			continue
		}
		for _, id := range f.Names {
			out = append(out, &model.Variable{Name: id.Name, Type: typeRef(f.Type)})
		}
	}
	return out
}

func typeRef(expr ast.Expr) *model.TypeRef {
	return &model.TypeRef{Text: types.ExprString(expr), Expr: expr}
}
