package main

import (
	"io"
	"os"
	"time"

	"github.com/brickster241/gels/porcelain"
	"github.com/brickster241/gels/utils"
	"github.com/brickster241/gels/utils/config"
	"github.com/brickster241/gels/utils/logger"
	"github.com/brickster241/gels/utils/render"
	"github.com/brickster241/gels/utils/types"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// options holds the command-line flags. Boolean flags toggle the configured value.
type options struct {
	configPath   string
	all          bool
	resolveLinks bool
	reverse      bool
	dirsFirst    bool
	long         bool
	noColor      bool
	byTime       bool
	bySize       bool
	byName       bool
}

// register defines the command-line flags on flags.
func (o *options) register(flags *pflag.FlagSet) {
	flags.StringVar(&o.configPath, "config", "", "config file (default: discovered gels.ini)")
	flags.BoolVarP(&o.all, "all", "a", false, "toggle showing entries starting with .")
	flags.BoolVarP(&o.resolveLinks, "dereference", "L", false, "toggle resolving symbolic links")
	flags.BoolVarP(&o.reverse, "reverse", "r", false, "toggle reverse order")
	flags.BoolVarP(&o.dirsFirst, "dirs-first", "f", false, "toggle listing directories first")
	flags.BoolVarP(&o.long, "long", "l", false, "toggle the detailed list")
	flags.BoolVarP(&o.noColor, "no-color", "n", false, "toggle colors")
	flags.BoolVarP(&o.byTime, "time", "t", false, "sort by modification time, newest first")
	flags.BoolVarP(&o.bySize, "size", "S", false, "sort by size, largest first")
	flags.BoolVarP(&o.byName, "alpha", "A", false, "sort alphabetically")
}

// apply returns settings with the given flags applied on top.
func (o *options) apply(flags *pflag.FlagSet, settings types.Settings) types.Settings {
	toggles := []struct {
		name  string
		value *bool
	}{
		{"all", &settings.ShowHidden},
		{"dereference", &settings.ResolveLinks},
		{"reverse", &settings.Reversed},
		{"dirs-first", &settings.DirsFirst},
		{"long", &settings.List},
		{"no-color", &settings.Colors},
	}
	for _, t := range toggles {
		if flags.Changed(t.name) {
			*t.value = !*t.value
		}
	}

	// When several sort flags are given, alphabetical wins over size, and size over time
	switch {
	case o.byName:
		settings.Sort = types.SortAlpha
	case o.bySize:
		settings.Sort = types.SortSize
	case o.byTime:
		settings.Sort = types.SortModified
	}
	return settings
}

// NewRootCommand creates the gels command. The exit status of the listing is stored in status.
func NewRootCommand(status *int) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "gels [flags] [path...]",
		Short: "List directory contents with git status",
		Long: `gels lists directories like ls and decorates every entry with its git
status. Files show their own status, directories show whether anything
below them is dirty, and repositories found outside any enclosing
repository are marked as such.

Settings, colors and symbols are read from $XDG_CONFIG_HOME/gels.ini,
~/.gels.ini or ./gels.ini. Boolean flags toggle the configured value.`,
		Version: Version,
		// Silence usage and errors, diagnostics go through the logger
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configPath
			if path == "" {
				path = config.DiscoverPath()
			}
			cfg, err := config.LoadConfig(path)
			if err != nil {
				return err
			}

			settings := opts.apply(cmd.Flags(), cfg.Settings)
			*status = list(settings, cfg.Theme, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
			return nil
		},
	}

	opts.register(cmd.Flags())

	return cmd
}

// list wires the listing pipeline for one run and returns its exit status.
func list(settings types.Settings, theme config.Theme, args []string, stdout, stderr io.Writer) int {
	diag := logger.NewConsole(stderr)

	var ls render.LSColors
	if settings.Colors {
		ls = render.ParseLSColors(os.Getenv("LS_COLORS"))
	}

	out, _ := stdout.(*os.File)
	lister := &porcelain.Lister{
		Settings: settings,
		Builder:  porcelain.NewBuilder(settings, render.NewFormatter(theme.Symbols, time.Now()), diag),
		Renderer: render.NewRenderer(settings, theme, ls),
		Diag:     diag,
		Out:      stdout,
		Width:    utils.TerminalWidth(out),
	}
	return lister.Run(args)
}

// run executes the command line and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	status := 0

	cmd := NewRootCommand(&status)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		logger.NewConsole(stderr).Errorf("%v", err)
		return 1
	}
	return status
}

// Entry point of the application.
func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
