package querybuilder

import (
	"github.com/shibukawa/conflictsql"
	"github.com/shibukawa/conflictsql/backend"
)

// Fragment is any piece of SQL that can write itself to an AstPass.
type Fragment interface {
	WalkAST(out AstPass) error
}

// QueryFragment is a fragment that may only be rendered for backend DB.
// ForBackend is never called; it binds the fragment's type to DB.
type QueryFragment[DB backend.Backend] interface {
	Fragment
	ForBackend(DB)
}

// AssignmentSet is the body of an UPDATE-style action: an ordered list of
// `column = expression` pairs that can tell, without rendering, whether it
// would assign anything at all.
type AssignmentSet interface {
	Fragment
	IsNoop() (bool, error)
}

// Query is a fully rendered statement.
type Query struct {
	SQL       string
	Args      []any
	Dialect   conflictsql.Dialect
	Cacheable bool
}

// Build renders f for db.
func Build[DB backend.Backend](db DB, f QueryFragment[DB]) (Query, error) {
	return Render(db, f)
}

// Render renders an untyped fragment. Capability checks that Build performs
// through type parameters are the fragment's own responsibility here.
func Render(b backend.Backend, f Fragment) (Query, error) {
	pass := NewAstPass(b)

	if err := f.WalkAST(pass); err != nil {
		return Query{}, err
	}

	return Query{
		SQL:       pass.SQL(),
		Args:      pass.Args(),
		Dialect:   b.Dialect(),
		Cacheable: pass.IsSafeToCachePrepared(),
	}, nil
}

// SQL is a literal fragment rendered verbatim.
type SQL string

func (s SQL) WalkAST(out AstPass) error {
	out.PushSQL(string(s))
	return nil
}

var _ Fragment = SQL("")
