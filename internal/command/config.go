package command

import (
	"context"
	"strings"
)

// ConfigOptions defines which value to read from git config
type ConfigOptions struct {
	// Section
	Section string
	// Option
	Option string
	// Site should be Global or Local, empty reads the merged view
	Site ConfigSite
}

// ConfigSite defines a string type for the site.
type ConfigSite string

const (
	// ConfigSiteLocal defines a local config.
	ConfigSiteLocal ConfigSite = "local"

	// ConfigSiteGlobal defines a global config.
	ConfigSiteGlobal ConfigSite = "global"
)

// Config reads a single value with git config --get, so the global and
// system files are honoured the same way git does.
func Config(ctx context.Context, dir string, options *ConfigOptions) (string, error) {
	args := []string{"config"}
	if options.Site != "" {
		args = append(args, "--"+string(options.Site))
	}
	args = append(args, "--get", options.Section+"."+options.Option)
	out, err := RunWithContextTimeout(ctx, dir, "git", args, DefaultTimeout)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
