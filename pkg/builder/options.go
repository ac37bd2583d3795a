package builder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidConfig = errors.New("invalid builder config")

	validate = validator.New()
)

// BuildMode selects how the generated build() method hands values to the
// target's constructor.
type BuildMode string

const (
	// ModeBackReference passes the builder itself: new Target(this).
	ModeBackReference BuildMode = "back-reference"
	// ModePositional passes every field in declaration order: new Target(a, b).
	ModePositional BuildMode = "positional"
)

const (
	DefaultBuilderName = "Builder"
	DefaultFactoryName = "construct"
	DefaultBuildName   = "build"
	DefaultImplSuffix  = "Impl"
)

var (
	javaAccessorPrefixes = []string{"get", "is"}
	goAccessorPrefixes   = []string{"Get", "Is"}
)

// Config controls builder synthesis.
//
// Getters           – emit one getter per field (default true).
// Mode              – back-reference or positional build() body.
// AccessorPrefixes  – interface method prefixes that mark an accessor, tried in
// order. Empty means the language default (get/is, Get/Is for Go).
// ImplSuffix        – appended to an interface name in build().
// BuilderName       – simple name of the nested type, and the setter/factory return type.
// FactoryName       – name of the static factory method.
type Config struct {
	Getters          bool      `json:"getters" yaml:"getters" toml:"getters" mapstructure:"getters"`
	Mode             BuildMode `json:"mode,omitempty" yaml:"mode,omitempty" toml:"mode,omitempty" mapstructure:"mode,omitempty" validate:"oneof=back-reference positional"`
	AccessorPrefixes []string  `json:"accessor_prefixes,omitempty" yaml:"accessor_prefixes,omitempty" toml:"accessor_prefixes,omitempty" mapstructure:"accessor_prefixes,omitempty" validate:"dive,required"`
	ImplSuffix       string    `json:"impl_suffix,omitempty" yaml:"impl_suffix,omitempty" toml:"impl_suffix,omitempty" mapstructure:"impl_suffix,omitempty" validate:"required"`
	BuilderName      string    `json:"builder_name,omitempty" yaml:"builder_name,omitempty" toml:"builder_name,omitempty" mapstructure:"builder_name,omitempty" validate:"required"`
	FactoryName      string    `json:"factory_name,omitempty" yaml:"factory_name,omitempty" toml:"factory_name,omitempty" mapstructure:"factory_name,omitempty" validate:"required"`
}

func NewConfig() *Config {
	return &Config{
		Getters:     true,
		Mode:        ModeBackReference,
		ImplSuffix:  DefaultImplSuffix,
		BuilderName: DefaultBuilderName,
		FactoryName: DefaultFactoryName,
	}
}

// Normalize fills in defaults for every unset string option. Getters is left
// alone since false is a meaningful choice.
func (c *Config) Normalize() {
	c.Mode = BuildMode(strings.ToLower(strings.TrimSpace(string(c.Mode))))
	if c.Mode == "" {
		c.Mode = ModeBackReference
	}
	if c.ImplSuffix == "" {
		c.ImplSuffix = DefaultImplSuffix
	}
	if c.BuilderName == "" {
		c.BuilderName = DefaultBuilderName
	}
	if c.FactoryName == "" {
		c.FactoryName = DefaultFactoryName
	}
	prefixes := make([]string, 0, len(c.AccessorPrefixes))
	for _, p := range c.AccessorPrefixes {
		if p = strings.TrimSpace(p); p != "" {
			prefixes = append(prefixes, p)
		}
	}
	c.AccessorPrefixes = prefixes
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// PrefixesFor returns the accessor prefixes to use for a source language.
func (c *Config) PrefixesFor(language string) []string {
	if len(c.AccessorPrefixes) > 0 {
		return c.AccessorPrefixes
	}
	if language == "go" {
		return goAccessorPrefixes
	}
	return javaAccessorPrefixes
}

// functional option pattern ---------------------------------------------------

type Option func(*Config)

func WithoutGetters() Option          { return func(c *Config) { c.Getters = false } }
func WithGetters(on bool) Option      { return func(c *Config) { c.Getters = on } }
func WithMode(m BuildMode) Option     { return func(c *Config) { c.Mode = m } }
func WithPositional() Option          { return func(c *Config) { c.Mode = ModePositional } }
func WithImplSuffix(s string) Option  { return func(c *Config) { c.ImplSuffix = s } }
func WithBuilderName(s string) Option { return func(c *Config) { c.BuilderName = s } }
func WithFactoryName(s string) Option { return func(c *Config) { c.FactoryName = s } }
func WithAccessorPrefixes(p ...string) Option {
	return func(c *Config) { c.AccessorPrefixes = append([]string{}, p...) }
}

// New returns the default config with opts applied and normalized.
func New(opts ...Option) *Config {
	c := NewConfig()
	for _, fn := range opts {
		fn(c)
	}
	c.Normalize()
	return c
}
