package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

// Name is the name of the configuration file.
const Name = ".massunpack"

// Loader can be used for loading .massunpack configuration.
type Loader struct {
	cfg *ini.File
}

// Load will traverse the directory hierarchy upwards from the current working directory to find the first
// ".massunpack" file available and load its contents into the Loader.
//
// The name of the .massunpack file is returned, or an empty string if none was found.
func (l *Loader) Load(ctx context.Context) (string, error) {
	cur, err := os.Getwd()
	if err != nil {
		return "", err
	}

	return l.LoadFrom(ctx, cur)
}

// LoadFrom is a variant of Load that starts the search at the given directory instead of the working directory.
func (l *Loader) LoadFrom(ctx context.Context, dir string) (string, error) {
	cur, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for {
		if err = ctx.Err(); err != nil {
			return "", err
		}

		path := filepath.Join(cur, Name)
		switch fi, err := os.Stat(path); {
		case err == nil && !fi.IsDir():
			if l.cfg, err = ini.Load(path); err != nil {
				l.cfg = ini.Empty()
				return path, err
			}

			return path, nil
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return "", err
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return "", nil
		}

		cur = parent
	}
}

// DefaultLoader is the default Loader instance for package-level methods.
var DefaultLoader = &Loader{cfg: ini.Empty()}

// Load calls Loader.Load on the DefaultLoader instance.
func Load(ctx context.Context) (string, error) {
	return DefaultLoader.Load(ctx)
}
