package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/shibukawa/conflictsql/upsertdef"
)

// ParamFlags are shared by commands that bind parameters to a definition.
type ParamFlags struct {
	Param      []string `help:"Parameter as key=value (repeatable)" short:"p"`
	ParamsFile string   `name:"params" help:"YAML file with parameters" type:"path"`
}

// load merges the params file and --param flags; flags win.
func (f ParamFlags) load() (map[string]any, error) {
	params := make(map[string]any)

	if f.ParamsFile != "" {
		data, err := os.ReadFile(f.ParamsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read params file: %w", err)
		}

		if err := yaml.Unmarshal(data, &params); err != nil {
			return nil, fmt.Errorf("failed to parse params file: %w", err)
		}

		if params == nil {
			params = make(map[string]any)
		}
	}

	for _, p := range f.Param {
		key, value, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidParam, p)
		}

		params[strings.TrimSpace(key)] = value
	}

	return params, nil
}

func compileDefinition(path string, flags ParamFlags) (*upsertdef.Definition, *upsertdef.Statement, error) {
	def, err := upsertdef.Load(path)
	if err != nil {
		return nil, nil, err
	}

	params, err := flags.load()
	if err != nil {
		return nil, nil, err
	}

	stmt, err := upsertdef.Compile(def, params)
	if err != nil {
		return nil, nil, err
	}

	return def, stmt, nil
}
