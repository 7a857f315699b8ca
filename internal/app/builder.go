package app

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/thorstenhirsch/ezgit/internal/git"
	"github.com/thorstenhirsch/ezgit/internal/load"
	"github.com/thorstenhirsch/ezgit/internal/logging"
	"github.com/thorstenhirsch/ezgit/internal/tui"
)

// The App struct holds the app-wide entities: the merged configuration and
// the logger built from it.
type App struct {
	Config *Config

	logger *log.Logger
	closer io.Closer
	out    io.Writer
}

// Config is an assembler data to initiate a setup
type Config struct {
	Directory string
	Limit     int
	Remote    string
	LogLevel  string
	Trace     bool
	PrintMode bool
}

// New loads the configuration file, applies the command line on top of it
// and sets up logging.
func New(argConfig *Config) (*App, error) {
	presetConfig, err := loadConfiguration(configurationDirectory)
	if err != nil {
		return nil, err
	}
	return newWithConfig(overrideConfig(presetConfig, argConfig))
}

func newWithConfig(config *Config) (*App, error) {
	logger, closer, err := logging.Setup(logging.Options{
		Trace: config.Trace,
		Level: config.LogLevel,
	})
	if err != nil {
		return nil, err
	}
	return &App{Config: config, logger: logger, closer: closer, out: os.Stdout}, nil
}

// Run opens the repository and starts either the interactive interface or
// print mode.
func (a *App) Run(ctx context.Context) error {
	defer a.closer.Close()

	root, err := repositoryRoot(a.Config.Directory)
	if err != nil {
		return err
	}
	repo, err := git.Open(root, git.Options{Limit: a.Config.Limit, Remote: a.Config.Remote})
	if err != nil {
		return err
	}
	a.logger.Info("opened repository", "path", repo.AbsPath, "limit", a.Config.Limit, "remote", a.Config.Remote)

	ctx = log.WithContext(ctx, a.logger)
	if a.Config.PrintMode {
		snap, err := load.Load(ctx, repo)
		if err != nil {
			return err
		}
		return printSnapshot(a.out, repo.Name, snap)
	}
	return tui.Run(ctx, repo)
}

func overrideConfig(appConfig, setupConfig *Config) *Config {
	// CLI arguments override config file values when they are set
	if setupConfig.Directory != "" {
		appConfig.Directory = setupConfig.Directory
	}
	if setupConfig.Limit > 0 {
		appConfig.Limit = setupConfig.Limit
	}
	if setupConfig.Remote != "" {
		appConfig.Remote = setupConfig.Remote
	}
	if setupConfig.LogLevel != "" {
		appConfig.LogLevel = setupConfig.LogLevel
	}
	if setupConfig.Trace {
		appConfig.Trace = setupConfig.Trace
	}
	if setupConfig.PrintMode {
		appConfig.PrintMode = setupConfig.PrintMode
	}
	return appConfig
}
