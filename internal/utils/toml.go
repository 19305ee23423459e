package utils

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// LoadTOMLFile decodes the TOML file at path into v.
func LoadTOMLFile(path string, v any) error {
	md, err := toml.DecodeFile(path, v)
	if err != nil {
		log.Warnf("TOML error in %s: %v. Attempting partial recovery...", path, err)
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		log.Debugf("Unknown keys in %s: %v", path, undecoded)
	}
	return nil
}

// SaveTOMLFile writes v to path, replacing any existing file.
func SaveTOMLFile(v any, path string) error {
	file, err := os.Create(path)
	if err != nil {
		log.Errorf("Failed to create %s: %v", path, err)
		return err
	}
	defer file.Close()
	return toml.NewEncoder(file).Encode(v)
}

// ParseTOMLWithRecovery decodes path into a generic table so that the
// sections which are well-typed can still be used.
func ParseTOMLWithRecovery(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	table := make(map[string]any)
	if _, err := toml.Decode(string(data), &table); err != nil {
		log.Warnf("No valid configuration in %s: %v", path, err)
		return nil, err
	}
	return table, nil
}

// ExtractSection returns the named table of a parsed document.
func ExtractSection(data map[string]any, name string) (map[string]any, bool) {
	section, ok := data[name].(map[string]any)
	return section, ok
}

func ExtractInt(data map[string]any, key string) (int, bool) {
	if val, ok := data[key].(int64); ok {
		return int(val), true
	}
	return 0, false
}

func ExtractBool(data map[string]any, key string) (bool, bool) {
	val, ok := data[key].(bool)
	return val, ok
}

func ExtractString(data map[string]any, key string) (string, bool) {
	val, ok := data[key].(string)
	return val, ok
}

// ExtractStringSlice reads an array of strings. Arrays holding anything
// else are rejected whole.
func ExtractStringSlice(data map[string]any, key string) ([]string, bool) {
	raw, ok := data[key].([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		s, ok := e.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}
