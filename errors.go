package conflictsql

import "errors"

// Common errors used throughout the conflictsql packages
var (
	// ErrConfigValidation is returned when configuration validation fails
	ErrConfigValidation = errors.New("configuration validation failed")
	// ErrConfigFileNotFound indicates a configuration file could not be located.
	ErrConfigFileNotFound = errors.New("configuration file not found")

	// ErrInvalidIdentifier indicates an identifier that cannot be quoted for the backend.
	// Rendering errors
	ErrInvalidIdentifier = errors.New("invalid SQL identifier")
	// ErrOnConflictUnsupported indicates the backend grammar has no ON CONFLICT clause.
	ErrOnConflictUnsupported = errors.New("backend does not support ON CONFLICT clauses")
	// ErrUnsupportedFeature indicates a dialect lacks a feature required by a fragment.
	ErrUnsupportedFeature = errors.New("feature not supported for dialect")
	// ErrDialectMustBeSpecified indicates a dialect is required but missing.
	ErrDialectMustBeSpecified = errors.New("dialect must be specified (postgres, mysql, sqlite)")
	// ErrUnsupportedDialect indicates the dialect has no backend implementation.
	ErrUnsupportedDialect = errors.New("unsupported dialect")

	// ErrTypeMismatch indicates a value is not accepted by the column's SQL type.
	// Changeset errors
	ErrTypeMismatch = errors.New("value does not match column SQL type")
	// ErrEmptyColumnName indicates an assignment targets a zero-value column.
	ErrEmptyColumnName = errors.New("column name is empty")
	// ErrNilExpression indicates an assignment was built with a nil expression.
	ErrNilExpression = errors.New("expression is nil")
	// ErrDuplicateAssignment indicates one column is assigned twice in a changeset.
	ErrDuplicateAssignment = errors.New("column assigned more than once")

	// ErrInvalidDefinition indicates an upsert definition failed validation.
	// Definition errors
	ErrInvalidDefinition = errors.New("invalid upsert definition")
	// ErrUnknownColumn indicates a definition references an undeclared column.
	ErrUnknownColumn = errors.New("column is not declared in definition")
	// ErrMissingRequiredParam indicates a parameter referenced by a definition was not provided.
	ErrMissingRequiredParam = errors.New("missing required parameter")
	// ErrConditionEvaluation indicates a CEL condition failed to compile or evaluate.
	ErrConditionEvaluation = errors.New("condition evaluation failed")

	// ErrDatabaseConnection indicates the database could not be opened or pinged.
	// Executor errors
	ErrDatabaseConnection = errors.New("database connection failed")
	// ErrQueryExecution indicates a built statement failed to execute.
	ErrQueryExecution = errors.New("query execution failed")
)
