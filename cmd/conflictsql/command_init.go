package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
)

// InitCmd represents the init command
type InitCmd struct {
	Force bool `help:"Overwrite an existing configuration"`
}

func (i *InitCmd) Run(ctx *Context) error {
	if ctx.Verbose {
		color.Blue("Initializing conflictsql project")
	}

	if fileExists(ctx.Config) && !i.Force {
		return fmt.Errorf("%w: %s", ErrConfigExists, ctx.Config)
	}

	if err := os.WriteFile(ctx.Config, []byte(sampleConfig), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if err := os.MkdirAll("upserts", 0755); err != nil {
		return fmt.Errorf("failed to create directory upserts: %w", err)
	}

	sample := filepath.Join("upserts", "record_visit.yaml")
	if !fileExists(sample) {
		if err := os.WriteFile(sample, []byte(sampleDefinition), 0644); err != nil {
			return fmt.Errorf("failed to write sample definition: %w", err)
		}
	}

	if !ctx.Quiet {
		color.Green("conflictsql project initialized successfully")
		fmt.Println("\nNext steps:")
		fmt.Println("1. Edit " + ctx.Config + " to configure your database settings")
		fmt.Println("2. Describe upserts in the upserts/ directory")
		fmt.Println("3. Run 'conflictsql render upserts/record_visit.yaml -p email=a@example.com'")
	}

	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

const sampleConfig = `# SQL dialect used by render when --dialect is not given
dialect: "postgres"  # postgres, sqlite (mysql has no ON CONFLICT)

definitions_dir: "./upserts"

databases:
  development:
    driver: "postgres"
    connection: "postgres://${DB_USER}:${DB_PASS}@${DB_HOST}:${DB_PORT}/${DB_NAME}"

statement_cache:
  enabled: true

logging:
  enabled: false
  include_stack: false

query:
  default_environment: "development"
  timeout: 30
`

const sampleDefinition = `name: record_visit
table: users
columns:
  - {name: email, type: text, required: true}
  - {name: name, type: text}
  - {name: visits, type: integer}
conflict:
  target: [email]
  action: update
  update:
    - {column: name, source: excluded, when: "has(params.name)"}
    - {column: visits, source: increment}
`
