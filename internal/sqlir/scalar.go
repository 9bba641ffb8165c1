package sqlir

// ColumnExpr references a column of a base table by (table, name).
// The table part is the alias when the base table carries one.
type ColumnExpr struct {
	table string
	name  string
}

// NewColumn creates a column reference.
// Fails with an InvalidChildError if name is empty.
func NewColumn(table, name string) (*ColumnExpr, error) {
	if name == "" {
		return nil, &InvalidChildError{Kind: "column", Child: "name"}
	}
	return &ColumnExpr{table: table, name: name}, nil
}

func (*ColumnExpr) scalarExpr() {}

// Table returns the qualifying table or alias. May be empty.
func (c *ColumnExpr) Table() string { return c.table }

// Name returns the column name.
func (c *ColumnExpr) Name() string { return c.name }

// Equal reports structural equality: same table qualifier, same name.
func (c *ColumnExpr) Equal(other Node) bool {
	if Node(c) == other {
		return true
	}
	o, ok := other.(*ColumnExpr)
	return ok && o != nil && c.table == o.table && c.name == o.name
}

// Hash returns the structural hash.
func (c *ColumnExpr) Hash() string {
	return hashWithDomain(domainColumn, normIdent(c.table), normIdent(c.name))
}

// Accept renders "table.name" or bare "name".
func (c *ColumnExpr) Accept(p Printer) {
	if c.table != "" {
		p.Append(c.table)
		p.Append(".")
	}
	p.Append(c.name)
}

// LiteralExpr is a literal value leaf.
type LiteralExpr struct {
	value Value
}

// NewLiteral creates a literal expression.
// Fails with an InvalidChildError if value is nil.
func NewLiteral(value Value) (*LiteralExpr, error) {
	if value == nil {
		return nil, &InvalidChildError{Kind: "literal", Child: "value"}
	}
	return &LiteralExpr{value: value}, nil
}

func (*LiteralExpr) scalarExpr() {}

// Value returns the literal value.
func (l *LiteralExpr) Value() Value { return l.value }

// Equal reports structural equality over the literal value.
func (l *LiteralExpr) Equal(other Node) bool {
	if Node(l) == other {
		return true
	}
	o, ok := other.(*LiteralExpr)
	return ok && o != nil && valueEqual(l.value, o.value)
}

// Hash returns the structural hash.
func (l *LiteralExpr) Hash() string {
	return hashWithDomain(domainLiteral, valueHash(l.value))
}

// Accept renders the SQL literal form. A parameterizing printer
// intercepts this node in Visit and never reaches Accept.
func (l *LiteralExpr) Accept(p Printer) {
	p.Append(l.value.SQL())
}

// EqualsExpr is the boolean comparison "left = right".
type EqualsExpr struct {
	left  ScalarExpr
	right ScalarExpr
}

// NewEquals creates an equality comparison.
// Fails with an InvalidChildError if either side is nil.
func NewEquals(left, right ScalarExpr) (*EqualsExpr, error) {
	if left == nil {
		return nil, &InvalidChildError{Kind: "equals", Child: "left"}
	}
	if right == nil {
		return nil, &InvalidChildError{Kind: "equals", Child: "right"}
	}
	return &EqualsExpr{left: left, right: right}, nil
}

func (*EqualsExpr) scalarExpr() {}

// Left returns the left operand.
func (e *EqualsExpr) Left() ScalarExpr { return e.left }

// Right returns the right operand.
func (e *EqualsExpr) Right() ScalarExpr { return e.right }

// Update returns the receiver if both operands are reference-identical
// to the current ones; otherwise a new EqualsExpr with the candidates.
func (e *EqualsExpr) Update(left, right ScalarExpr) (*EqualsExpr, error) {
	if left == e.left && right == e.right {
		return e, nil
	}
	return NewEquals(left, right)
}

// Equal reports structural equality over both operands.
func (e *EqualsExpr) Equal(other Node) bool {
	if Node(e) == other {
		return true
	}
	o, ok := other.(*EqualsExpr)
	return ok && o != nil && e.left.Equal(o.left) && e.right.Equal(o.right)
}

// Hash returns the structural hash.
func (e *EqualsExpr) Hash() string {
	return hashWithDomain(domainEquals, e.left.Hash(), e.right.Hash())
}

// Accept renders "left = right".
func (e *EqualsExpr) Accept(p Printer) {
	p.Visit(e.left)
	p.Append(" = ")
	p.Visit(e.right)
}

// AndExpr is the boolean conjunction "left AND right".
type AndExpr struct {
	left  ScalarExpr
	right ScalarExpr
}

// NewAnd creates a conjunction.
// Fails with an InvalidChildError if either side is nil.
func NewAnd(left, right ScalarExpr) (*AndExpr, error) {
	if left == nil {
		return nil, &InvalidChildError{Kind: "and", Child: "left"}
	}
	if right == nil {
		return nil, &InvalidChildError{Kind: "and", Child: "right"}
	}
	return &AndExpr{left: left, right: right}, nil
}

func (*AndExpr) scalarExpr() {}

// Left returns the left conjunct.
func (a *AndExpr) Left() ScalarExpr { return a.left }

// Right returns the right conjunct.
func (a *AndExpr) Right() ScalarExpr { return a.right }

// Update returns the receiver if both conjuncts are reference-identical
// to the current ones; otherwise a new AndExpr with the candidates.
func (a *AndExpr) Update(left, right ScalarExpr) (*AndExpr, error) {
	if left == a.left && right == a.right {
		return a, nil
	}
	return NewAnd(left, right)
}

// Equal reports structural equality over both conjuncts.
func (a *AndExpr) Equal(other Node) bool {
	if Node(a) == other {
		return true
	}
	o, ok := other.(*AndExpr)
	return ok && o != nil && a.left.Equal(o.left) && a.right.Equal(o.right)
}

// Hash returns the structural hash.
func (a *AndExpr) Hash() string {
	return hashWithDomain(domainAnd, a.left.Hash(), a.right.Hash())
}

// Accept renders "left AND right".
func (a *AndExpr) Accept(p Printer) {
	p.Visit(a.left)
	p.Append(" AND ")
	p.Visit(a.right)
}
