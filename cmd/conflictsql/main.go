package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

// Context represents the global context for commands
type Context struct {
	Config  string
	Verbose bool
	Quiet   bool
}

var CLI struct {
	Config  string     `help:"Configuration file path" default:"conflictsql.yaml"`
	Verbose bool       `help:"Enable verbose output" short:"v"`
	Quiet   bool       `help:"Suppress output" short:"q"`
	Render  RenderCmd  `cmd:"" help:"Render an upsert definition as SQL"`
	Exec    ExecCmd    `cmd:"" help:"Execute an upsert definition against a configured database"`
	Init    InitCmd    `cmd:"" help:"Create a starter configuration"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run() error {
	fmt.Println("conflictsql v0.1.0")
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("conflictsql"),
		kong.Description("Render and run INSERT ... ON CONFLICT statements"),
	)

	appCtx := &Context{
		Config:  CLI.Config,
		Verbose: CLI.Verbose,
		Quiet:   CLI.Quiet,
	}

	err := ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
