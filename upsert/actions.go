package upsert

import (
	"github.com/shibukawa/conflictsql/backend"
	"github.com/shibukawa/conflictsql/querybuilder"
)

// DoNothing is the ON CONFLICT DO NOTHING action. DB must support ON
// CONFLICT: DoNothing[backend.MySQL] does not compile.
type DoNothing[DB backend.OnConflictBackend] struct{}

// NewDoNothing returns the DO NOTHING action for DB.
func NewDoNothing[DB backend.OnConflictBackend]() DoNothing[DB] {
	return DoNothing[DB]{}
}

func (DoNothing[DB]) WalkAST(out querybuilder.AstPass) error {
	out.PushSQL(" DO NOTHING")
	return nil
}

func (DoNothing[DB]) ForBackend(DB) {}

// DoUpdate is the ON CONFLICT DO UPDATE SET action. It owns its assignment
// set; an assignment set that turns out to be empty renders as DO NOTHING.
type DoUpdate[DB backend.OnConflictBackend, A querybuilder.AssignmentSet] struct {
	changeset A
}

// NewDoUpdate wraps changeset. DB is given explicitly and A is inferred:
//
//	upsert.NewDoUpdate[backend.Postgres](cs)
func NewDoUpdate[DB backend.OnConflictBackend, A querybuilder.AssignmentSet](changeset A) DoUpdate[DB, A] {
	return DoUpdate[DB, A]{changeset: changeset}
}

// Changeset returns the wrapped assignment set.
func (u DoUpdate[DB, A]) Changeset() A {
	return u.changeset
}

// WalkAST renders the action. Whether the SQL says DO NOTHING or DO UPDATE
// depends on the changeset's contents, not on its type, so the statement is
// always marked unsafe to cache as a prepared plan.
func (u DoUpdate[DB, A]) WalkAST(out querybuilder.AstPass) error {
	out.UnsafeToCachePrepared()

	noop, err := u.changeset.IsNoop()
	if err != nil {
		return err
	}

	if noop {
		out.PushSQL(" DO NOTHING")
		return nil
	}

	out.PushSQL(" DO UPDATE SET ")

	return u.changeset.WalkAST(out.Reborrow())
}

func (DoUpdate[DB, A]) ForBackend(DB) {}
