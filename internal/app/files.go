package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// repositoryRoot walks up from dir to the first directory holding a .git
// folder or file and returns its absolute path.
func repositoryRoot(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	if fi, err := os.Stat(abs); err != nil {
		return "", err
	} else if !fi.IsDir() {
		return "", fmt.Errorf("%s is not a directory", abs)
	}

	for current := abs; ; {
		if _, err := os.Stat(filepath.Join(current, ".git")); err == nil {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("no git repository found at %s or any parent directory", abs)
		}
		current = parent
	}
}
