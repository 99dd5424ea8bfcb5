package configutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

func splitExt(f string) (string, string) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i] == '.' {
			return f[0:i], f[i+1:]
		}
	}
	return f, ""
}

// candidate files for a config name, in ascending priority.
// "config.json5" expands to ["config.json5", "config.local.json5"]
func candidates(name string) []string {
	dirname := filepath.Dir(name)
	prefix, ext := splitExt(filepath.Base(name))
	return []string{
		name,
		filepath.Join(dirname, fmt.Sprintf("%s.local.%s", prefix, ext)),
	}
}

// ReadConfig reads a json5 configuration file, `name` should come with a
// file extension. A `<name>.local.<ext>` file sitting next to it is merged
// on top so deployments can override checked-in defaults.
func ReadConfig[T any](name string) (T, error) {
	var out T
	found := false

	for i, path := range candidates(name) {
		contents, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return out, err
		}
		if len(contents) == 0 {
			continue
		}

		if i == 0 {
			err = json5.Unmarshal(contents, &out)
			if err != nil {
				return out, err
			}
		} else {
			var override T
			err = json5.Unmarshal(contents, &override)
			if err != nil {
				return out, err
			}
			err = mergo.Merge(&out, override, mergo.WithOverride)
			if err != nil {
				return out, err
			}
			slog.Info("merging config with local overrides", "local", path)
		}
		found = true
	}

	if !found {
		return out, os.ErrNotExist
	}
	return out, nil
}

// ReadConfig but it walks up the filesystem from the cwd until the root
// to find a configuration file matching the name.
func ReadRecursively[T any](name string) (T, error) {
	var defaultOut T

	root, err := filepath.Abs("/")
	if err != nil {
		return defaultOut, err
	}
	current, err := os.Getwd()
	if err != nil {
		return defaultOut, err
	}

	for current != root {
		config, err := ReadConfig[T](filepath.Join(current, name))
		if os.IsNotExist(err) {
			current = filepath.Join(current, "..")
			continue
		}
		if err != nil {
			return defaultOut, err
		}
		return config, nil
	}

	return defaultOut, os.ErrNotExist
}
