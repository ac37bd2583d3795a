package synth

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/buildergen/internal/model"
	"github.com/cmmoran/buildergen/pkg/builder"
)

var f = model.Factory{}

func field(t *testing.T, name, typ string, mods ...model.Modifier) *model.Field {
	t.Helper()
	fld, err := f.Field(f.Modifiers(mods...), name, f.Type(typ))
	require.NoError(t, err)
	return fld
}

func accessor(t *testing.T, name, ret string, mods ...model.Modifier) *model.Method {
	t.Helper()
	var rt *model.TypeRef
	if ret != "" {
		rt = f.Type(ret)
	}
	m, err := f.Method(f.Modifiers(mods...), name, rt, nil, nil, "")
	require.NoError(t, err)
	return m
}

func person(t *testing.T) *model.TypeDecl {
	return &model.TypeDecl{
		Kind:      model.KindClass,
		Name:      "Person",
		Modifiers: model.Modifiers{model.Public},
		Members: []model.Member{
			field(t, "name", "String", model.Private),
			field(t, "age", "int", model.Private),
		},
	}
}

// summary flattens a builder into "kind name: text" lines for comparison.
func summary(b *model.TypeDecl) []string {
	out := make([]string, 0, len(b.Members))
	for _, m := range b.Members {
		switch n := m.(type) {
		case *model.Field:
			out = append(out, "field "+n.Modifiers.String()+" "+n.Type.Text+" "+n.Name)
		case *model.Constructor:
			out = append(out, "ctor "+n.Modifiers.String()+" "+n.Name+" {"+n.Body+"}")
		case *model.Method:
			params := ""
			for _, p := range n.Params {
				params += p.Modifiers.String() + " " + p.Type.Text + " " + p.Name
			}
			out = append(out, "method "+n.Modifiers.String()+" "+n.ReturnType.Text+" "+n.Name+"("+params+") {"+n.Body+"}")
		}
	}
	return out
}

func TestSynthesizeClass(t *testing.T) {
	decl := person(t)
	res, err := Synthesize(decl, nil, nil)
	require.NoError(t, err)

	want := []string{
		"field protected String name",
		"field protected int age",
		"ctor protected Builder {}",
		"method public static Builder construct() {return new Builder();}",
		"method public String name() {return this.name;}",
		"method public int age() {return this.age;}",
		"method public Builder name(final String name) {this.name = name;\nreturn this;}",
		"method public Builder age(final int age) {this.age = age;\nreturn this;}",
		"method public Person build() {return new Person(this);}",
	}
	if diff := cmp.Diff(want, summary(res.Builder)); diff != "" {
		t.Errorf("builder mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "Builder", res.Builder.Name)
	assert.Equal(t, model.KindClass, res.Builder.Kind)
	assert.Equal(t, "public static", res.Builder.Modifiers.String())
	assert.Equal(t, "Person", res.Constructs)

	// target untouched, rewrite appends exactly one member
	require.Len(t, decl.Members, 2)
	require.Len(t, res.Rewritten.Members, 3)
	assert.Same(t, res.Builder, res.Rewritten.Members[2])
	assert.Same(t, decl, res.Target)
}

func TestSynthesizeInterface(t *testing.T) {
	decl := &model.TypeDecl{
		Kind: model.KindInterface,
		Name: "Shape",
		Members: []model.Member{
			accessor(t, "getArea", "double"),
			accessor(t, "isVisible", "boolean"),
		},
	}
	res, err := Synthesize(decl, nil, nil)
	require.NoError(t, err)

	want := []string{
		"field protected double area",
		"field protected boolean visible",
		"ctor protected Builder {}",
		"method public static Builder construct() {return new Builder();}",
		"method public double area() {return this.area;}",
		"method public boolean visible() {return this.visible;}",
		"method public Builder area(final double area) {this.area = area;\nreturn this;}",
		"method public Builder visible(final boolean visible) {this.visible = visible;\nreturn this;}",
		"method public Shape build() {return new ShapeImpl(this);}",
	}
	if diff := cmp.Diff(want, summary(res.Builder)); diff != "" {
		t.Errorf("builder mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "ShapeImpl", res.Constructs)
}

func TestSynthesizeOptions(ttt *testing.T) {
	tests := []struct {
		name       string
		decl       func(t *testing.T) *model.TypeDecl
		cfg        *builder.Config
		wantBuild  string
		wantCount  int
		wantFields []string
	}{
		{
			name:       "positional",
			decl:       person,
			cfg:        builder.New(builder.WithPositional()),
			wantBuild:  "return new Person(name, age);",
			wantCount:  2 + 1 + 1 + 2 + 2 + 1,
			wantFields: []string{"name", "age"},
		},
		{
			name:       "without getters",
			decl:       person,
			cfg:        builder.New(builder.WithoutGetters()),
			wantBuild:  "return new Person(this);",
			wantCount:  2 + 1 + 1 + 2 + 1,
			wantFields: []string{"name", "age"},
		},
		{
			name: "empty class",
			decl: func(t *testing.T) *model.TypeDecl {
				return &model.TypeDecl{Kind: model.KindClass, Name: "Empty"}
			},
			cfg:        builder.New(builder.WithPositional()),
			wantBuild:  "return new Empty();",
			wantCount:  3,
			wantFields: []string{},
		},
		{
			name: "empty interface",
			decl: func(t *testing.T) *model.TypeDecl {
				return &model.TypeDecl{Kind: model.KindInterface, Name: "Marker"}
			},
			cfg:        builder.NewConfig(),
			wantBuild:  "return new MarkerImpl(this);",
			wantCount:  3,
			wantFields: []string{},
		},
		{
			name: "static fields are not slots",
			decl: func(t *testing.T) *model.TypeDecl {
				return &model.TypeDecl{
					Kind: model.KindClass,
					Name: "Counter",
					Members: []model.Member{
						field(t, "INSTANCES", "int", model.Private, model.Static),
						field(t, "count", "int", model.Private),
						field(t, "LIMIT", "int", model.Public, model.Static, model.Final),
					},
				}
			},
			cfg:        builder.New(builder.WithPositional()),
			wantBuild:  "return new Counter(count);",
			wantCount:  1 + 1 + 1 + 1 + 1 + 1,
			wantFields: []string{"count"},
		},
		{
			name: "custom names",
			decl: func(t *testing.T) *model.TypeDecl {
				return &model.TypeDecl{
					Kind:    model.KindInterface,
					Name:    "Shape",
					Members: []model.Member{accessor(t, "hasCorners", "boolean")},
				}
			},
			cfg: builder.New(
				builder.WithAccessorPrefixes("has"),
				builder.WithImplSuffix("Default"),
				builder.WithBuilderName("Maker"),
			),
			wantBuild:  "return new ShapeDefault(this);",
			wantCount:  1 + 1 + 1 + 1 + 1 + 1,
			wantFields: []string{"corners"},
		},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			res, err := Synthesize(tt.decl(t), f, tt.cfg)
			require.NoError(t, err)
			assert.Len(t, res.Builder.Members, tt.wantCount)
			assert.Equal(t, tt.wantBuild, res.Members.Build.Body)

			names := make([]string, 0, len(res.Members.Fields))
			for _, fld := range res.Members.Fields {
				names = append(names, fld.Name)
			}
			assert.Equal(t, tt.wantFields, names)

			assert.Equal(t, tt.cfg.BuilderName, res.Builder.Name)
			assert.Equal(t, tt.cfg.BuilderName, res.Members.Constructor.Name)
			assert.Equal(t, tt.cfg.BuilderName, res.Members.Factory.ReturnType.Text)
			assert.Equal(t, tt.cfg.FactoryName, res.Members.Factory.Name)
			for _, s := range res.Members.Setters {
				assert.Equal(t, tt.cfg.BuilderName, s.ReturnType.Text)
			}
		})
	}
}

func TestSynthesizeRejectsNonTargets(ttt *testing.T) {
	tests := []struct {
		name string
		decl *model.TypeDecl
	}{
		{name: "nil", decl: nil},
		{name: "enum", decl: &model.TypeDecl{Kind: model.KindOther, Name: "Color"}},
		{name: "invalid", decl: &model.TypeDecl{Name: "Broken"}},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			res, err := Synthesize(tt.decl, nil, nil)
			require.ErrorIs(t, err, ErrNotTarget)
			assert.Nil(t, res)
		})
	}
}

func TestSynthesizeKeepsExistingBuilder(t *testing.T) {
	existing, err := f.Class(f.Modifiers(model.Public, model.Static), "Builder")
	require.NoError(t, err)
	decl := person(t)
	decl.Members = append(decl.Members, existing)

	res, err := Synthesize(decl, nil, nil)
	require.NoError(t, err)
	require.Len(t, res.Rewritten.Members, 4)
	assert.Same(t, existing, res.Rewritten.Members[2])
	assert.Same(t, res.Builder, res.Rewritten.Members[3])
}

// failingFactory refuses to build setters.
type failingFactory struct {
	model.Factory
}

var errRefused = errors.New("refused")

func (failingFactory) Method(mods model.Modifiers, name string, ret *model.TypeRef, params []*model.Variable, throws []*model.TypeRef, body string) (*model.Method, error) {
	if len(params) > 0 {
		return nil, errRefused
	}
	return model.Factory{}.Method(mods, name, ret, params, throws, body)
}

func TestSynthesizeFactoryFailure(t *testing.T) {
	res, err := Synthesize(person(t), failingFactory{}, nil)
	require.ErrorIs(t, err, errRefused)
	assert.Nil(t, res)
}

func TestSynthesizeUnit(ttt *testing.T) {
	tests := []struct {
		name        string
		types       func(t *testing.T) []*model.TypeDecl
		factory     model.NodeFactory
		wantTargets []string
		wantErr     error
	}{
		{
			name: "every class and interface",
			types: func(t *testing.T) []*model.TypeDecl {
				return []*model.TypeDecl{
					person(t),
					{Kind: model.KindOther, Name: "Color"},
					{Kind: model.KindInterface, Name: "Shape"},
				}
			},
			wantTargets: []string{"Person", "Shape"},
		},
		{
			name: "nothing to do",
			types: func(t *testing.T) []*model.TypeDecl {
				return []*model.TypeDecl{{Kind: model.KindOther, Name: "Color"}}
			},
			wantTargets: []string{},
		},
		{
			name: "one failure discards all",
			types: func(t *testing.T) []*model.TypeDecl {
				return []*model.TypeDecl{{Kind: model.KindInterface, Name: "Shape"}, person(t)}
			},
			factory: failingFactory{},
			wantErr: errRefused,
		},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			unit := &model.CompilationUnit{Path: "Demo.java", Language: model.LanguageJava, Types: tt.types(t)}
			results, err := New(tt.factory, nil, unit.Language, nil).SynthesizeUnit(unit)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, results)
				return
			}
			require.NoError(t, err)
			got := make([]string, 0, len(results))
			for _, res := range results {
				got = append(got, res.Target.Name)
			}
			assert.Equal(t, tt.wantTargets, got)
		})
	}
}

func TestNewNormalizesCopy(t *testing.T) {
	cfg := &builder.Config{Getters: true, Mode: "POSITIONAL"}
	s := New(nil, cfg, model.LanguageGo, nil)

	assert.Equal(t, builder.ModePositional, s.Config().Mode)
	assert.Equal(t, "Builder", s.Config().BuilderName)
	assert.Equal(t, []string{"Get", "Is"}, s.prefixes)
	// caller's value is left alone
	assert.Equal(t, builder.BuildMode("POSITIONAL"), cfg.Mode)
	assert.Equal(t, "", cfg.BuilderName)
}
