package upsert

import (
	"github.com/shibukawa/conflictsql"
	"github.com/shibukawa/conflictsql/backend"
	"github.com/shibukawa/conflictsql/changeset"
	"github.com/shibukawa/conflictsql/expression"
	"github.com/shibukawa/conflictsql/querybuilder"
)

// UpsertStatement is INSERT ... ON CONFLICT <target> <action>.
type UpsertStatement[DB backend.OnConflictBackend, T expression.Table] struct {
	insert InsertStatement[DB, T]
	target ConflictTarget[T]
	action querybuilder.QueryFragment[DB]
}

// OnConflict attaches a conflict clause to insert. Only inserts built for a
// backend with ON CONFLICT support are accepted.
func OnConflict[DB backend.OnConflictBackend, T expression.Table](insert InsertStatement[DB, T], target ConflictTarget[T], action querybuilder.QueryFragment[DB]) UpsertStatement[DB, T] {
	return UpsertStatement[DB, T]{insert: insert, target: target, action: action}
}

// OnConflictDoNothing is OnConflict with the DO NOTHING action.
func OnConflictDoNothing[DB backend.OnConflictBackend, T expression.Table](insert InsertStatement[DB, T], target ConflictTarget[T]) UpsertStatement[DB, T] {
	return OnConflict(insert, target, querybuilder.QueryFragment[DB](DoNothing[DB]{}))
}

// OnConflictDoUpdate is OnConflict with a DO UPDATE action whose changeset
// targets the inserted table.
func OnConflictDoUpdate[DB backend.OnConflictBackend, T expression.Table](insert InsertStatement[DB, T], target ConflictTarget[T], set changeset.Changeset[T]) UpsertStatement[DB, T] {
	return OnConflict(insert, target, querybuilder.QueryFragment[DB](NewDoUpdate[DB](set)))
}

func (s UpsertStatement[DB, T]) WalkAST(out querybuilder.AstPass) error {
	if s.action == nil {
		return conflictsql.ErrNilExpression
	}

	if err := s.insert.WalkAST(out.Reborrow()); err != nil {
		return err
	}

	out.PushSQL(" ON CONFLICT")

	if s.target != nil {
		if err := s.target.WalkAST(out.Reborrow()); err != nil {
			return err
		}
	}

	return s.action.WalkAST(out.Reborrow())
}

func (UpsertStatement[DB, T]) ForBackend(DB) {}
