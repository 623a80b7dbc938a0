package expression

import (
	"errors"

	"github.com/shibukawa/conflictsql"
	"github.com/shibukawa/conflictsql/querybuilder"
)

type binaryOp int

const (
	opAdd binaryOp = iota + 1
	opSub
	opConcat
)

// Binary is an infix expression over two operands on the same table and of
// the same SQL type.
type Binary[T Table, ST SQLType] struct {
	op          binaryOp
	left, right TableExpression[T, ST]
}

// Add renders `left + right`.
func Add[T Table, ST NumericType](left, right TableExpression[T, ST]) Binary[T, ST] {
	return Binary[T, ST]{op: opAdd, left: left, right: right}
}

// Sub renders `left - right`.
func Sub[T Table, ST NumericType](left, right TableExpression[T, ST]) Binary[T, ST] {
	return Binary[T, ST]{op: opSub, left: left, right: right}
}

// Concat renders `left || right`, or CONCAT(left, right) on dialects without
// the concatenation operator.
func Concat[T Table](left, right TableExpression[T, Text]) Binary[T, Text] {
	return Binary[T, Text]{op: opConcat, left: left, right: right}
}

func (b Binary[T, ST]) WalkAST(out querybuilder.AstPass) error {
	if err := b.Validate(); err != nil {
		return err
	}

	if b.op == opConcat && !conflictsql.Supports(out.Backend().Dialect(), conflictsql.FeatureConcatOperator) {
		out.PushSQL("CONCAT(")

		if err := b.left.WalkAST(out.Reborrow()); err != nil {
			return err
		}

		out.PushSQL(", ")

		if err := b.right.WalkAST(out.Reborrow()); err != nil {
			return err
		}

		out.PushSQL(")")

		return nil
	}

	if err := b.left.WalkAST(out.Reborrow()); err != nil {
		return err
	}

	switch b.op {
	case opAdd:
		out.PushSQL(" + ")
	case opSub:
		out.PushSQL(" - ")
	case opConcat:
		out.PushSQL(" || ")
	}

	return b.right.WalkAST(out.Reborrow())
}

func (b Binary[T, ST]) SQLType() ST {
	var st ST
	return st
}

func (b Binary[T, ST]) TableScope() T {
	return b.left.TableScope()
}

func (b Binary[T, ST]) Validate() error {
	if b.left == nil || b.right == nil {
		return conflictsql.ErrNilExpression
	}

	return errors.Join(Validate(b.left), Validate(b.right))
}
