package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/backdrop/pkg/config"
)

// configFlags holds spawner settings that can be overridden per command.
// Only flags the user actually set replace file values.
type configFlags struct {
	flags *pflag.FlagSet

	maxElements int
	minSize     float64
	maxSize     float64
	minDuration float64
	maxDuration float64
	colors      []string
}

// addConfigFlags registers the override flags on cmd.
func addConfigFlags(cmd *cobra.Command) *configFlags {
	d := config.Default()
	f := &configFlags{flags: cmd.Flags()}
	fs := cmd.Flags()
	fs.IntVar(&f.maxElements, "max-elements", d.MaxElements, "maximum number of live drawings")
	fs.Float64Var(&f.minSize, "min-size", d.MinSize, "minimum size (100 = base footprint)")
	fs.Float64Var(&f.maxSize, "max-size", d.MaxSize, "maximum size (100 = base footprint)")
	fs.Float64Var(&f.minDuration, "min-duration", d.MinDuration, "minimum animation duration in seconds")
	fs.Float64Var(&f.maxDuration, "max-duration", d.MaxDuration, "maximum animation duration in seconds")
	fs.StringSliceVar(&f.colors, "colors", d.Colors, "stroke colors (comma-separated hex)")
	return f
}

func (f *configFlags) apply(cfg *config.Config) {
	if f.flags.Changed("max-elements") {
		cfg.MaxElements = f.maxElements
	}
	if f.flags.Changed("min-size") {
		cfg.MinSize = f.minSize
	}
	if f.flags.Changed("max-size") {
		cfg.MaxSize = f.maxSize
	}
	if f.flags.Changed("min-duration") {
		cfg.MinDuration = f.minDuration
	}
	if f.flags.Changed("max-duration") {
		cfg.MaxDuration = f.maxDuration
	}
	if f.flags.Changed("colors") {
		cfg.Colors = f.colors
	}
}
