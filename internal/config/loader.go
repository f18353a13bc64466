package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultProjectFile is the default project file name.
const DefaultProjectFile = ".wikibot"

// ErrProjectFileNotFound is returned when the project file does not exist.
var ErrProjectFileNotFound = errors.New("project file not found")

// LoadProjectFile loads a .wikibot YAML file. A missing file is reported
// as ErrProjectFileNotFound so callers can decide whether that matters
// (explicit --config path) or not (default search).
func LoadProjectFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrProjectFileNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	if f.Families == nil {
		f.Families = make(map[string]FamilyConfig)
	}

	return &f, nil
}

// FindProjectFile searches for the project file:
// 1. the explicit path, if given
// 2. .wikibot in the current directory
// 3. .wikibot in the XDG config directory
// 4. .wikibot in the home directory
//
// Returns empty string when nothing is found.
func FindProjectFile(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		p := filepath.Join(cwd, DefaultProjectFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	p := filepath.Join(XDGConfigDir(), DefaultProjectFile)
	if _, err := os.Stat(p); err == nil {
		return p
	}

	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, DefaultProjectFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
