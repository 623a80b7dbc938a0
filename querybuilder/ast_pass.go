package querybuilder

import (
	"strings"

	"github.com/shibukawa/conflictsql/backend"
)

type passState struct {
	backend       backend.Backend
	sql           strings.Builder
	args          []any
	unsafeToCache bool
}

// AstPass is the output context handed to fragments while a statement is
// rendered. Copies of an AstPass share one buffer; a pass belongs to the
// goroutine building the statement.
type AstPass struct {
	state *passState
}

// NewAstPass starts an empty pass for the backend.
func NewAstPass(b backend.Backend) AstPass {
	return AstPass{state: &passState{backend: b}}
}

// PushSQL appends raw SQL text.
func (p AstPass) PushSQL(sql string) {
	p.state.sql.WriteString(sql)
}

// PushIdentifier appends name quoted by the backend.
func (p AstPass) PushIdentifier(name string) error {
	quoted, err := p.state.backend.QuoteIdentifier(name)
	if err != nil {
		return err
	}

	p.state.sql.WriteString(quoted)

	return nil
}

// PushBindParam appends the backend's placeholder and records value.
func (p AstPass) PushBindParam(value any) {
	p.state.args = append(p.state.args, value)
	p.state.sql.WriteString(p.state.backend.Placeholder(len(p.state.args)))
}

// Reborrow returns a pass writing to the same statement so a nested fragment
// can be walked without the caller giving up its own pass.
func (p AstPass) Reborrow() AstPass {
	return AstPass{state: p.state}
}

// UnsafeToCachePrepared marks the statement as not reusable as a prepared
// plan. The flag is never cleared for the rest of the build.
func (p AstPass) UnsafeToCachePrepared() {
	p.state.unsafeToCache = true
}

// IsSafeToCachePrepared reports whether no fragment has opted out of caching.
func (p AstPass) IsSafeToCachePrepared() bool {
	return !p.state.unsafeToCache
}

// Backend returns the backend the statement is rendered for.
func (p AstPass) Backend() backend.Backend {
	return p.state.backend
}

// SQL returns the text rendered so far.
func (p AstPass) SQL() string {
	return p.state.sql.String()
}

// Args returns the bind arguments recorded so far.
func (p AstPass) Args() []any {
	return p.state.args
}
