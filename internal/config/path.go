package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ResolvePath applies CLI/XDG/home fallback rules for config.jsonc location.
func ResolvePath(explicit string) (string, error) {
	if strings.TrimSpace(explicit) != "" {
		return explicit, nil
	}

	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, "murmur", "config.jsonc"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.New("unable to resolve user home for config fallback")
	}

	return filepath.Join(home, ".config", "murmur", "config.jsonc"), nil
}

// ResolveGrammarPath expands a grammar.file value. Relative paths are taken
// from the directory holding the config file; "~/" expands to the user home.
func ResolveGrammarPath(configPath, grammarFile string) string {
	grammarFile = strings.TrimSpace(grammarFile)
	if grammarFile == "" {
		return ""
	}
	if grammarFile == "~" || strings.HasPrefix(grammarFile, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(grammarFile, "~"), "/"))
		}
		return grammarFile
	}
	if filepath.IsAbs(grammarFile) || configPath == "" {
		return grammarFile
	}
	return filepath.Join(filepath.Dir(configPath), grammarFile)
}
