package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cmmoran/buildergen/pkg/action/generate"
	"github.com/cmmoran/buildergen/pkg/builder"
)

func init() {
	var generateCmd = NewGenerateCommand()
	rootCmd.AddCommand(generateCmd)
}

// builderFlags maps each builder.* config key to its flag.
var builderFlags = map[string]string{
	"builder.getters":           "getters",
	"builder.mode":              "mode",
	"builder.accessor_prefixes": "prefix",
	"builder.impl_suffix":       "impl-suffix",
	"builder.builder_name":      "builder-name",
	"builder.factory_name":      "factory-name",
}

func addBuilderFlags(c *cobra.Command) {
	flags := c.Flags()
	flags.Bool("getters", true, "emit one getter per builder field")
	flags.StringP("mode", "m", string(builder.ModeBackReference), "build() body: back-reference passes the builder, positional passes every field")
	flags.StringSliceP("prefix", "p", []string{}, "interface accessor prefixes, tried in order (default get,is; Get,Is for go)")
	flags.String("impl-suffix", builder.DefaultImplSuffix, "suffix of the class an interface's build() instantiates")
	flags.String("builder-name", builder.DefaultBuilderName, "name of the nested builder type")
	flags.String("factory-name", builder.DefaultFactoryName, "name of the static factory method")
}

// builderConfig binds the flags of the running command over the builder.*
// keys and collects them with env and config file values.
func builderConfig(c *cobra.Command) (*builder.Config, error) {
	for key, flag := range builderFlags {
		if err := viper.BindPFlag(key, c.Flags().Lookup(flag)); err != nil {
			return nil, fmt.Errorf("bind %s: %w", flag, err)
		}
	}
	cfg := &builder.Config{
		Getters:          viper.GetBool("builder.getters"),
		Mode:             builder.BuildMode(viper.GetString("builder.mode")),
		AccessorPrefixes: viper.GetStringSlice("builder.accessor_prefixes"),
		ImplSuffix:       viper.GetString("builder.impl_suffix"),
		BuilderName:      viper.GetString("builder.builder_name"),
		FactoryName:      viper.GetString("builder.factory_name"),
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func NewGenerateCommand() *cobra.Command {
	var (
		dryRun       bool
		manifestPath string
	)

	// generateCmd represents the buildergen generate command
	var generateCmd = &cobra.Command{
		Use:          "generate [flags] file...",
		Short:        "add builders",
		Long:         "Synthesize a nested Builder for every class and interface declared in each file and commit the rewrite",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := builderConfig(c)
			if err != nil {
				return err
			}
			_, err = generate.Generate(c.Context(), &generate.Options{
				Files:        args,
				Config:       cfg,
				DryRun:       dryRun,
				ManifestPath: manifestPath,
				Out:          c.OutOrStdout(),
				Logger:       slog.Default(),
			})
			return err
		},
	}
	addBuilderFlags(generateCmd)
	generateCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "print a diff of each rewrite instead of writing it")
	generateCmd.Flags().StringVar(&manifestPath, "manifest", "", "record committed files and their targets in this yaml manifest")

	return generateCmd
}
