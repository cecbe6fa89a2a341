// Package commands implements the metaobjects CLI subcommands.
package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/metaobjects-dev/metaobjects/constraint"
	"github.com/metaobjects-dev/metaobjects/internal/cli/config"
	"github.com/metaobjects-dev/metaobjects/loader"
	"github.com/metaobjects-dev/metaobjects/loader/source"
	"github.com/metaobjects-dev/metaobjects/provider"
	"github.com/metaobjects-dev/metaobjects/registry"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "metaobjects",
		Short: "MetaObjects metadata engine and tooling",
		Long: color.CyanString(`MetaObjects - metadata-driven development

Load object model metadata from XML/JSON, validate it against the
registered type system and constraints, generate code and schemas, and
serve the resolved graph for introspection.`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewValidateCommand())
	rootCmd.AddCommand(NewTypesCommand())
	rootCmd.AddCommand(NewGenerateCommand())
	rootCmd.AddCommand(NewServeCommand())

	return rootCmd
}

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			title := color.New(color.FgCyan, color.Bold)
			title.Print("MetaObjects version: ")
			fmt.Println(Version)
			title.Print("Git commit:          ")
			fmt.Println(GitCommit)
			title.Print("Build date:          ")
			fmt.Println(BuildDate)
			title.Print("Go version:          ")
			fmt.Println(runtime.Version())
		},
	}
}

// newLogger builds the CLI logger; verbose enables debug output.
func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// bootstrap registers the built-in providers and loads the configured
// metadata sources, falling back to the given explicit paths when set.
func bootstrap(log *zap.Logger, paths []string) (*loader.Loader, *registry.Registry, *constraint.Registry, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	if len(paths) == 0 {
		paths = cfg.Sources
	}
	if len(paths) == 0 {
		return nil, nil, nil, fmt.Errorf("no metadata sources: pass file paths or list them under \"sources\" in metaobjects.yml")
	}

	types, constraints, err := provider.Bootstrap(log)
	if err != nil {
		return nil, nil, nil, err
	}

	name := cfg.ProjectName
	if name == "" {
		name = "metaobjects"
	}
	l := loader.New(name, types, constraints, log)

	var roots []*source.RawNode
	for _, path := range paths {
		root, err := readSource(path)
		if err != nil {
			return nil, nil, nil, err
		}
		roots = append(roots, root)
	}
	if err := l.Load(roots...); err != nil {
		return nil, nil, nil, err
	}
	return l, types, constraints, nil
}

func readSource(path string) (*source.RawNode, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return source.ReadXML(f)
	case ".json":
		return source.ReadJSON(f)
	default:
		return nil, fmt.Errorf("unsupported metadata source %q: expected .json or .xml", path)
	}
}
