package upsertdef

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/shibukawa/conflictsql"
)

func newConditionEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("params", cel.MapType(cel.StringType, cel.AnyType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	return env, nil
}

func compileCondition(env *cel.Env, expr string) (cel.Program, error) {
	ast, issues := env.Compile(expr)
	if issues.Err() != nil {
		return nil, fmt.Errorf("failed to compile expression '%s': %w", expr, issues.Err())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create program for expression '%s': %w", expr, err)
	}

	return program, nil
}

// evaluateCondition runs a when: expression. Anything but a boolean result is
// an error.
func evaluateCondition(program cel.Program, expr string, params map[string]any) (bool, error) {
	result, _, err := program.Eval(map[string]any{"params": params})
	if err != nil {
		return false, fmt.Errorf("%w: '%s': %w", conflictsql.ErrConditionEvaluation, expr, err)
	}

	b, ok := result.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w: '%s' returned %T, not bool", conflictsql.ErrConditionEvaluation, expr, result.Value())
	}

	return b, nil
}
