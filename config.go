package main

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
)

// applyConfigFile reads a TOML run configuration whose keys are flag names
// and sets every flag the command line did not set explicitly.
//
//	width = 1920
//	strategy = "organic"
//	max-rotation = 8.0
func applyConfigFile(path string, flags *pflag.FlagSet) error {
	var values map[string]any
	if _, err := toml.DecodeFile(path, &values); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		f := flags.Lookup(key)
		if f == nil || key == "config" {
			return fmt.Errorf("config %s: unknown key %q", path, key)
		}
		if f.Changed {
			continue
		}
		if err := flags.Set(key, fmt.Sprint(values[key])); err != nil {
			return fmt.Errorf("config %s: key %q: %w", path, key, err)
		}
	}
	return nil
}
