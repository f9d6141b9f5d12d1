// Package cli implements the linkpad command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/skaares/linkpad/pkg/buildinfo"
	"github.com/skaares/linkpad/pkg/settings"
)

// appName is the application name used for directories and display.
const appName = "linkpad"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "linkpad",
		Short:        "Linkpad edits planar link diagrams in the terminal",
		Long:         `Linkpad is a terminal editor for planar link and tangle diagrams. Draw strands, choose which strand passes over at each crossing, and simplify diagrams with Reidemeister moves. Diagrams are saved as JSON and can be rendered to SVG.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.editCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadSettings reads settings from the given path, or from the default
// config location when path is empty.
func (c *CLI) loadSettings(path string) (settings.Settings, error) {
	if path == "" {
		dir, err := configDir()
		if err != nil {
			c.Logger.Debugf("No config dir: %v", err)
			return settings.Default(), nil
		}
		path = filepath.Join(dir, appName+".toml")
	}
	return settings.Load(path)
}

// configDir returns the config directory using the XDG standard
// (~/.config/linkpad/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
