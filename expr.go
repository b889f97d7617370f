package sieve

import "strings"

// ═══════════════════════════════════════════════════════════════════════════════
// QUERY EXPRESSION TREE
// ═══════════════════════════════════════════════════════════════════════════════
// An Expr is one of four immutable variants, matching the data model in
// spec §3: Value(word), Phrase(words, per-slot max gaps), Unary(op, child),
// Binary(op, left, right). Every transformation (negate, to_dnf, ...)
// returns a NEW tree; nothing here is ever mutated in place — this is what
// the design notes call replacing the teacher's cyclic self-negating nodes
// with tagged variants (§9).
// ═══════════════════════════════════════════════════════════════════════════════

// UnaryOp is the operator of a Unary node.
type UnaryOp int

const (
	OpIdentity UnaryOp = iota
	OpNot
)

// BinaryOp is the operator of a Binary node.
type BinaryOp int

const (
	OpAnd BinaryOp = iota
	OpOr
)

// ExprKind discriminates the Expr variants.
type ExprKind int

const (
	KindValue ExprKind = iota
	KindPhrase
	KindUnary
	KindBinary
)

// Expr is an immutable boolean/phrase query expression tree node.
type Expr struct {
	Kind ExprKind

	// KindValue
	Value string

	// KindPhrase
	Words    []string
	MaxGaps  []int // len(MaxGaps) == len(Words)-1; slot i bounds Words[i]->Words[i+1]

	// KindUnary
	UnaryOp UnaryOp
	Child   *Expr

	// KindBinary
	BinaryOp BinaryOp
	Left     *Expr
	Right    *Expr
}

// NewValue constructs a single-word leaf.
func NewValue(word string) *Expr {
	return &Expr{Kind: KindValue, Value: word}
}

// NewPhrase constructs a phrase leaf. maxGaps defaults to 1 between every
// adjacent pair (strict adjacency) when nil.
func NewPhrase(words []string, maxGaps []int) *Expr {
	if maxGaps == nil && len(words) > 1 {
		maxGaps = make([]int, len(words)-1)
		for i := range maxGaps {
			maxGaps[i] = 1
		}
	}
	return &Expr{Kind: KindPhrase, Words: words, MaxGaps: maxGaps}
}

// Negate wraps e in a NOT node, collapsing NOT NOT e ≡ e (spec §4.6).
func Negate(e *Expr) *Expr {
	if e.Kind == KindUnary && e.UnaryOp == OpNot {
		return e.Child
	}
	if e.Kind == KindUnary && e.UnaryOp == OpIdentity {
		return Negate(e.Child)
	}
	return &Expr{Kind: KindUnary, UnaryOp: OpNot, Child: e}
}

// Identity wraps e in a no-op unary node (for example a bare parenthesized
// group); ToDNF removes it.
func Identity(e *Expr) *Expr {
	return &Expr{Kind: KindUnary, UnaryOp: OpIdentity, Child: e}
}

// And constructs a Binary AND node.
func And(l, r *Expr) *Expr {
	return &Expr{Kind: KindBinary, BinaryOp: OpAnd, Left: l, Right: r}
}

// Or constructs a Binary OR node.
func Or(l, r *Expr) *Expr {
	return &Expr{Kind: KindBinary, BinaryOp: OpOr, Left: l, Right: r}
}

// ═══════════════════════════════════════════════════════════════════════════════
// DNF NORMALIZATION
// ═══════════════════════════════════════════════════════════════════════════════
// to_dnf rewrites a tree into an OR of ANDs of (possibly negated) leaves,
// distributing AND over OR and pushing NOT to the leaves (De Morgan). This
// normalization is mandatory before evaluation: it lets the evaluator sort
// AND operands by estimated posting-list size without worrying about OR
// nodes appearing beneath an AND.
// ═══════════════════════════════════════════════════════════════════════════════

// ToDNF returns e rewritten into disjunctive normal form.
func ToDNF(e *Expr) *Expr {
	return distribute(pushNotDown(e))
}

// pushNotDown eliminates Identity wrappers and pushes every NOT down to the
// leaves via De Morgan's laws, collapsing double negation along the way.
func pushNotDown(e *Expr) *Expr {
	switch e.Kind {
	case KindValue, KindPhrase:
		return e
	case KindUnary:
		if e.UnaryOp == OpIdentity {
			return pushNotDown(e.Child)
		}
		// NOT child: push into child.
		return pushNotInto(e.Child)
	case KindBinary:
		return &Expr{
			Kind:     KindBinary,
			BinaryOp: e.BinaryOp,
			Left:     pushNotDown(e.Left),
			Right:    pushNotDown(e.Right),
		}
	}
	return e
}

// pushNotInto returns NOT(child) with the negation pushed as far down as
// possible.
func pushNotInto(child *Expr) *Expr {
	switch child.Kind {
	case KindValue, KindPhrase:
		return &Expr{Kind: KindUnary, UnaryOp: OpNot, Child: child}
	case KindUnary:
		if child.UnaryOp == OpNot {
			// NOT NOT x = x
			return pushNotDown(child.Child)
		}
		return pushNotInto(child.Child)
	case KindBinary:
		// De Morgan: NOT(A AND B) = NOT A OR NOT B; NOT(A OR B) = NOT A AND NOT B.
		flipped := OpOr
		if child.BinaryOp == OpOr {
			flipped = OpAnd
		}
		return &Expr{
			Kind:     KindBinary,
			BinaryOp: flipped,
			Left:     pushNotInto(child.Left),
			Right:    pushNotInto(child.Right),
		}
	}
	return child
}

// distribute recursively distributes AND over OR until the tree is an OR
// of ANDs (or a simpler form when fewer operators suffice).
func distribute(e *Expr) *Expr {
	if e.Kind != KindBinary {
		return e
	}

	l := distribute(e.Left)
	r := distribute(e.Right)

	if e.BinaryOp == OpOr {
		return &Expr{Kind: KindBinary, BinaryOp: OpOr, Left: l, Right: r}
	}

	// AND node: distribute over any OR operand.
	if l.Kind == KindBinary && l.BinaryOp == OpOr {
		return distribute(Or(And(l.Left, r), And(l.Right, r)))
	}
	if r.Kind == KindBinary && r.BinaryOp == OpOr {
		return distribute(Or(And(l, r.Left), And(l, r.Right)))
	}
	return &Expr{Kind: KindBinary, BinaryOp: OpAnd, Left: l, Right: r}
}

// ═══════════════════════════════════════════════════════════════════════════════
// CANONICAL STRING RENDERING
// ═══════════════════════════════════════════════════════════════════════════════

// ToQueryString renders e back into the textual query language, for
// logging and round-trip testing.
func ToQueryString(e *Expr) string {
	var b strings.Builder
	writeExpr(&b, e, 0)
	return b.String()
}

// precedence levels, low to high: OR(0) < AND(1) < NOT(2) < leaf(3).
func precedenceOf(e *Expr) int {
	switch e.Kind {
	case KindBinary:
		if e.BinaryOp == OpOr {
			return 0
		}
		return 1
	case KindUnary:
		if e.UnaryOp == OpNot {
			return 2
		}
		return precedenceOf(e.Child)
	default:
		return 3
	}
}

func writeExpr(b *strings.Builder, e *Expr, minPrec int) {
	prec := precedenceOf(e)
	needParens := prec < minPrec

	if needParens {
		b.WriteByte('(')
	}

	switch e.Kind {
	case KindValue:
		b.WriteString(e.Value)
	case KindPhrase:
		b.WriteByte('"')
		b.WriteString(strings.Join(e.Words, " "))
		b.WriteByte('"')
	case KindUnary:
		if e.UnaryOp == OpNot {
			b.WriteByte('!')
			writeExpr(b, e.Child, 2)
		} else {
			writeExpr(b, e.Child, minPrec)
		}
	case KindBinary:
		op := byte('&')
		childPrec := prec + 1
		if e.BinaryOp == OpOr {
			op = '|'
		}
		writeExpr(b, e.Left, childPrec)
		b.WriteByte(op)
		writeExpr(b, e.Right, childPrec)
	}

	if needParens {
		b.WriteByte(')')
	}
}
