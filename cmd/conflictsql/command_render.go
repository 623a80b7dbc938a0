package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/shibukawa/conflictsql"
	"github.com/shibukawa/conflictsql/backend"
	"github.com/shibukawa/conflictsql/querybuilder"
	"github.com/shibukawa/conflictsql/upsertdef"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RenderCmd represents the render command
type RenderCmd struct {
	Definition string `arg:"" help:"Upsert definition file" type:"path"`
	Dialect    string `help:"Target dialect (defaults to the configured one)" short:"d"`
	ParamFlags `embed:""`
}

// Run executes the render command
func (cmd *RenderCmd) Run(ctx *Context) error {
	return cmd.render(ctx, color.Output)
}

func (cmd *RenderCmd) render(ctx *Context, w io.Writer) error {
	b, err := cmd.backend(ctx)
	if err != nil {
		return err
	}

	def, stmt, err := compileDefinition(cmd.Definition, cmd.ParamFlags)
	if err != nil {
		return err
	}

	query, err := upsertdef.Render(b, stmt)
	if err != nil {
		return err
	}

	printQuery(w, ctx, def, query)

	return nil
}

func (cmd *RenderCmd) backend(ctx *Context) (backend.Backend, error) {
	if cmd.Dialect != "" {
		return backend.FromDialect(cmd.Dialect)
	}

	config, err := conflictsql.LoadConfig(ctx.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	dialect, err := config.DialectValue()
	if err != nil {
		return nil, err
	}

	return backend.FromDialect(string(dialect))
}

func dialectTitle(d conflictsql.Dialect) string {
	return cases.Title(language.English).String(string(d))
}

func printQuery(w io.Writer, ctx *Context, def *upsertdef.Definition, query querybuilder.Query) {
	if ctx.Quiet {
		fmt.Fprintln(w, query.SQL)
		return
	}

	header := color.New(color.FgCyan, color.Bold)
	comment := color.New(color.FgHiBlack)

	name := def.Name
	if name == "" {
		name = def.Table
	}

	header.Fprintf(w, "-- %s (%s)\n", name, dialectTitle(query.Dialect))
	fmt.Fprintln(w, query.SQL)

	for i, arg := range query.Args {
		comment.Fprintf(w, "-- arg %d: %v (%T)\n", i+1, arg, arg)
	}

	if ctx.Verbose {
		if query.Cacheable {
			color.New(color.FgGreen).Fprintln(w, "-- prepared statement cache: eligible")
		} else {
			color.New(color.FgYellow).Fprintln(w, "-- prepared statement cache: not eligible")
		}
	}
}
