package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/buildergen/internal/model"
)

func TestDeriveFields(ttt *testing.T) {
	tests := []struct {
		name     string
		decl     func(t *testing.T) *model.TypeDecl
		prefixes []string
		want     []string // "name type"
	}{
		{
			name:     "nil declaration",
			decl:     func(t *testing.T) *model.TypeDecl { return nil },
			prefixes: []string{"get", "is"},
			want:     []string{},
		},
		{
			name: "class fields in order, statics skipped",
			decl: func(t *testing.T) *model.TypeDecl {
				return &model.TypeDecl{
					Kind: model.KindClass,
					Name: "Point",
					Members: []model.Member{
						field(t, "ORIGIN", "Point", model.Public, model.Static, model.Final),
						field(t, "x", "int", model.Private),
						accessor(t, "getX", "int", model.Public),
						field(t, "y", "int", model.Private),
						field(t, "tags", "List<String>"),
					},
				}
			},
			prefixes: []string{"get", "is"},
			want:     []string{"x int", "y int", "tags List<String>"},
		},
		{
			name: "interface accessors",
			decl: func(t *testing.T) *model.TypeDecl {
				withParam, err := f.Method(nil, "getLabel", f.Type("String"), []*model.Variable{{Name: "i", Type: f.Type("int")}}, nil, "")
				require.NoError(t, err)
				return &model.TypeDecl{
					Kind: model.KindInterface,
					Name: "Account",
					Members: []model.Member{
						accessor(t, "getName", "String"),
						accessor(t, "isActive", "boolean"),
						accessor(t, "getDefaultName", "String", model.Static),
						withParam,
						accessor(t, "reset", "void"),
						accessor(t, "getNothing", "void"),
						accessor(t, "getURL", "java.net.URL"),
						accessor(t, "issue", "Issue"),
					},
				}
			},
			prefixes: []string{"get", "is"},
			want:     []string{"name String", "active boolean", "uRL java.net.URL", "sue Issue"},
		},
		{
			name: "degenerate accessor names",
			decl: func(t *testing.T) *model.TypeDecl {
				return &model.TypeDecl{
					Kind: model.KindInterface,
					Name: "Odd",
					Members: []model.Member{
						accessor(t, "get", "String"),
						accessor(t, "is", "boolean"),
						accessor(t, "getId", "long"),
					},
				}
			},
			prefixes: []string{"get", "is"},
			want:     []string{"id long"},
		},
		{
			name: "first matching prefix wins",
			decl: func(t *testing.T) *model.TypeDecl {
				return &model.TypeDecl{
					Kind:    model.KindInterface,
					Name:    "Widget",
					Members: []model.Member{accessor(t, "getterCount", "int")},
				}
			},
			prefixes: []string{"getter", "get"},
			want:     []string{"count int"},
		},
		{
			name: "interface fields are not slots",
			decl: func(t *testing.T) *model.TypeDecl {
				return &model.TypeDecl{
					Kind:    model.KindInterface,
					Name:    "Limits",
					Members: []model.Member{field(t, "MAX", "int", model.Static)},
				}
			},
			prefixes: []string{"get", "is"},
			want:     []string{},
		},
		{
			name: "other kinds contribute nothing",
			decl: func(t *testing.T) *model.TypeDecl {
				return &model.TypeDecl{
					Kind:    model.KindOther,
					Name:    "Color",
					Members: []model.Member{field(t, "rgb", "int")},
				}
			},
			prefixes: []string{"get", "is"},
			want:     []string{},
		},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			specs := DeriveFields(tt.decl(t), tt.prefixes)
			got := make([]string, 0, len(specs))
			for _, s := range specs {
				assert.False(t, s.Static)
				got = append(got, s.Name+" "+s.Type.Text)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAccessorFieldName(t *testing.T) {
	assert.Equal(t, "name", accessorFieldName("getName", "get"))
	assert.Equal(t, "éclair", accessorFieldName("getÉclair", "get"))
	assert.Equal(t, "", accessorFieldName("get", "get"))
	assert.Equal(t, "x", accessorFieldName("isX", "is"))
}
