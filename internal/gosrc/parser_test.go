package gosrc

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/buildergen/internal/model"
)

const shapesSrc = `package shapes

import (
	"time"

	stdctx "context"
)

type Point struct {
	X, Y int
	Label string
	time.Duration
}

type Shape interface {
	GetArea() float64
	IsVisible() bool
	Scale(f float64)
	Bounds() (Point, Point)
	fmtStringer
}

type fmtStringer interface{ String() string }

type Alias = Point

type Box[T any] struct{ V T }

type Celsius float64

type Job struct {
	Ctx   stdctx.Context
	Start time.Time
}
`

func writeModule(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/shapes\n\ngo 1.21\n"), 0o644))
	for name, src := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644))
	}
	return dir
}

func TestParseFile(t *testing.T) {
	dir := writeModule(t, map[string]string{"shapes.go": shapesSrc})
	path := filepath.Join(dir, "shapes.go")

	unit, err := NewParser(nil).ParseFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, model.LanguageGo, unit.Language)
	assert.Equal(t, "shapes", unit.Package)
	assert.Equal(t, "example.com/shapes", unit.PkgPath)
	assert.Equal(t, map[string]string{"time": "time", "stdctx": "context"}, unit.Imports)

	got := make([]string, 0, len(unit.Types))
	for _, decl := range unit.Types {
		got = append(got, decl.Kind.String()+" "+decl.Name)
	}
	want := []string{
		"class Point",
		"interface Shape",
		"interface fmtStringer",
		"other Box",
		"other Celsius",
		"class Job",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("types mismatch (-want +got):\n%s", diff)
	}

	pt := unit.Types[0]
	fields := make([]string, 0, len(pt.Members))
	for _, m := range pt.Members {
		fld := m.(*model.Field)
		fields = append(fields, fld.Name+" "+fld.Type.Text)
	}
	assert.Equal(t, []string{"X int", "Y int", "Label string"}, fields)

	shape := unit.Types[1]
	require.Len(t, shape.Members, 4)
	area := shape.Members[0].(*model.Method)
	assert.Equal(t, "GetArea", area.Name)
	assert.Equal(t, "float64", area.ReturnType.Text)
	scale := shape.Members[2].(*model.Method)
	assert.Nil(t, scale.ReturnType)
	require.Len(t, scale.Params, 1)
	assert.Equal(t, "f", scale.Params[0].Name)
	bounds := shape.Members[3].(*model.Method)
	assert.Nil(t, bounds.ReturnType)

	job := unit.Types[5]
	ctxField := job.Members[0].(*model.Field)
	assert.Equal(t, "stdctx.Context", ctxField.Type.Text)
	assert.NotNil(t, ctxField.Type.Expr)
}

func TestParseFileGenerated(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"shapes.go":         "package shapes\n\ntype Point struct{ X int }\n",
		"shapes_builder.go": "// Code generated by buildergen. DO NOT EDIT.\n\npackage shapes\n\ntype PointBuilder struct{ x int }\n",
	})

	unit, err := NewParser(nil).ParseFile(context.Background(), filepath.Join(dir, "shapes_builder.go"))
	require.NoError(t, err)
	assert.Empty(t, unit.Types)
	assert.Equal(t, "shapes", unit.Package)
}

func TestParseFileErrors(ttt *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		file    string
		wantErr error
	}{
		{
			name:    "syntax error",
			files:   map[string]string{"bad.go": "package shapes\n\ntype Point struct {\n"},
			file:    "bad.go",
			wantErr: model.ErrUnresolved,
		},
		{
			name:  "missing file",
			files: map[string]string{},
			file:  "missing.go",
		},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			dir := writeModule(t, tt.files)
			unit, err := NewParser(nil).ParseFile(context.Background(), filepath.Join(dir, tt.file))
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
			assert.Nil(t, unit)
		})
	}
}

func TestDefaultImportName(ttt *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "time", want: "time"},
		{path: "net/http", want: "http"},
		{path: "example.com/geo/v2", want: "geo"},
		{path: "gopkg.in/yaml.v3", want: "yaml"},
		{path: "example.com/vendor", want: "vendor"},
		{path: "v2", want: "v2"},
	}
	for _, tt := range tests {
		ttt.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, defaultImportName(tt.path))
		})
	}
}
