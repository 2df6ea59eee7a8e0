package config

import (
	"errors"
	"strings"
)

var errBlankModelList = errors.New("models.defaults must contain at least one non-blank model id")

// DefaultPreferredModels is the built-in candidate ordering used when no
// override narrows the choice.
var DefaultPreferredModels = []string{
	"gemini-2.5-flash-lite",
	"gemini-2.0-flash",
}

// ModelsConfig defines candidate-model overrides. Override applies to every
// task, Deep to heavy tasks, Fast to token-heavy tasks. All are optional.
type ModelsConfig struct {
	Override string   `mapstructure:"override"`
	Deep     string   `mapstructure:"deep"`
	Fast     string   `mapstructure:"fast"`
	Defaults []string `mapstructure:"defaults"`
}

// Preferred returns the generic candidate ordering: global override, deep,
// fast, then the built-in defaults. Blank entries are dropped and later
// duplicates are ignored.
func (m ModelsConfig) Preferred() []string {
	defaults := m.Defaults
	if len(defaults) == 0 {
		defaults = DefaultPreferredModels
	}

	ordered := make([]string, 0, 3+len(defaults))
	ordered = append(ordered, m.Override, m.Deep, m.Fast)
	ordered = append(ordered, defaults...)

	seen := make(map[string]struct{}, len(ordered))
	out := make([]string, 0, len(ordered))
	for _, id := range ordered {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (m ModelsConfig) validate() error {
	if len(m.Preferred()) == 0 {
		return errBlankModelList
	}
	return nil
}
