package sqlir

import "slices"

// BaseTableExpr is a named base relation, optionally aliased. It is
// the leaf the join kinds attach to; columns qualify themselves by the
// alias when one is present, else by the table name.
type BaseTableExpr struct {
	tableExprBase
	name  string
	alias string
}

// NewBaseTable creates a base table reference.
// Fails with an InvalidChildError if name is empty.
func NewBaseTable(name, alias string) (*BaseTableExpr, error) {
	if name == "" {
		return nil, &InvalidChildError{Kind: "base table", Child: "name"}
	}
	return &BaseTableExpr{name: name, alias: alias}, nil
}

// Name returns the relation name.
func (t *BaseTableExpr) Name() string { return t.name }

// Alias returns the alias. May be empty.
func (t *BaseTableExpr) Alias() string { return t.alias }

// Binding returns the name columns should qualify by: the alias when
// present, else the table name.
func (t *BaseTableExpr) Binding() string {
	if t.alias != "" {
		return t.alias
	}
	return t.name
}

// WithAnnotations returns a base table with set replacing the annotations.
func (t *BaseTableExpr) WithAnnotations(set *AnnotationSet) TableExpr {
	d := *t
	d.anns = set
	return &d
}

// Equal reports structural equality: same name, same alias.
func (t *BaseTableExpr) Equal(other Node) bool {
	if Node(t) == other {
		return true
	}
	o, ok := other.(*BaseTableExpr)
	return ok && o != nil && t.name == o.name && t.alias == o.alias
}

// Hash returns the structural hash.
func (t *BaseTableExpr) Hash() string {
	return hashWithDomain(domainBaseTable, normIdent(t.name), normIdent(t.alias))
}

// Accept renders "name" or "name AS alias".
func (t *BaseTableExpr) Accept(p Printer) {
	p.Append(t.name)
	if t.alias != "" {
		p.Append(" AS ")
		p.Append(t.alias)
	}
	t.appendAnnotations(p)
}

// SelectExpr is the root table operator: a FROM source, the join nodes
// hung off it in order, an explicit projection (empty renders as *),
// and an optional WHERE predicate.
type SelectExpr struct {
	tableExprBase
	from       TableExpr
	joins      []TableExpr
	projection []ScalarExpr
	where      ScalarExpr
}

// NewSelect creates a select node. The joins and projection slices are
// copied; callers cannot mutate the node through them afterwards.
// Fails with an InvalidChildError if from or any slice element is nil.
// where may be nil (no filter).
func NewSelect(from TableExpr, joins []TableExpr, projection []ScalarExpr, where ScalarExpr) (*SelectExpr, error) {
	return newSelect(from, joins, projection, where, nil)
}

func newSelect(from TableExpr, joins []TableExpr, projection []ScalarExpr, where ScalarExpr, anns *AnnotationSet) (*SelectExpr, error) {
	if from == nil {
		return nil, &InvalidChildError{Kind: "select", Child: "from"}
	}
	for _, j := range joins {
		if j == nil {
			return nil, &InvalidChildError{Kind: "select", Child: "joins"}
		}
	}
	for _, c := range projection {
		if c == nil {
			return nil, &InvalidChildError{Kind: "select", Child: "projection"}
		}
	}
	return &SelectExpr{
		tableExprBase: tableExprBase{anns: anns},
		from:          from,
		joins:         slices.Clone(joins),
		projection:    slices.Clone(projection),
		where:         where,
	}, nil
}

// From returns the FROM source.
func (s *SelectExpr) From() TableExpr { return s.from }

// Joins returns a copy of the join list.
func (s *SelectExpr) Joins() []TableExpr { return slices.Clone(s.joins) }

// Projection returns a copy of the projection list.
func (s *SelectExpr) Projection() []ScalarExpr { return slices.Clone(s.projection) }

// Where returns the WHERE predicate. Nil means no filter.
func (s *SelectExpr) Where() ScalarExpr { return s.where }

// Update returns the receiver when every candidate child is
// reference-identical to the current one; otherwise a new SelectExpr
// with the candidates and the same annotations. Go slices carry no
// identity of their own, so the lists are compared element-wise by
// reference - a cheap pointer walk, never a deep structural comparison.
func (s *SelectExpr) Update(from TableExpr, joins []TableExpr, projection []ScalarExpr, where ScalarExpr) (*SelectExpr, error) {
	if from == s.from &&
		where == s.where &&
		sameTableRefs(joins, s.joins) &&
		sameScalarRefs(projection, s.projection) {
		return s, nil
	}
	return newSelect(from, joins, projection, where, s.anns)
}

// sameTableRefs reports element-wise reference identity.
func sameTableRefs(a, b []TableExpr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// sameScalarRefs reports element-wise reference identity.
func sameScalarRefs(a, b []ScalarExpr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// WithAnnotations returns a select with set replacing the annotations.
func (s *SelectExpr) WithAnnotations(set *AnnotationSet) TableExpr {
	d := *s
	d.anns = set
	return &d
}

// Equal reports structural equality over from, joins, projection, and
// where.
func (s *SelectExpr) Equal(other Node) bool {
	if Node(s) == other {
		return true
	}
	o, ok := other.(*SelectExpr)
	if !ok || o == nil {
		return false
	}
	if !s.from.Equal(o.from) {
		return false
	}
	if len(s.joins) != len(o.joins) || len(s.projection) != len(o.projection) {
		return false
	}
	for i := range s.joins {
		if !s.joins[i].Equal(o.joins[i]) {
			return false
		}
	}
	for i := range s.projection {
		if !s.projection[i].Equal(o.projection[i]) {
			return false
		}
	}
	if s.where == nil || o.where == nil {
		return s.where == nil && o.where == nil
	}
	return s.where.Equal(o.where)
}

// Hash returns the structural hash. The child lists are hashed as
// lists first so that joins and projection cannot blur together.
func (s *SelectExpr) Hash() string {
	joinParts := make([]string, len(s.joins))
	for i, j := range s.joins {
		joinParts[i] = j.Hash()
	}
	projParts := make([]string, len(s.projection))
	for i, c := range s.projection {
		projParts[i] = c.Hash()
	}
	whereHash := ""
	if s.where != nil {
		whereHash = s.where.Hash()
	}
	return hashWithDomain(domainSelect,
		s.from.Hash(),
		hashWithDomain(domainList, joinParts...),
		hashWithDomain(domainList, projParts...),
		whereHash,
	)
}

// Accept renders
// "SELECT <cols> FROM <from> <join>... [WHERE <predicate>]".
// An empty projection renders as *.
func (s *SelectExpr) Accept(p Printer) {
	p.Append("SELECT ")
	if len(s.projection) == 0 {
		p.Append("*")
	} else {
		for i, c := range s.projection {
			if i > 0 {
				p.Append(", ")
			}
			p.Visit(c)
		}
	}
	p.Append(" FROM ")
	p.Visit(s.from)
	for _, j := range s.joins {
		p.Append(" ")
		p.Visit(j)
	}
	if s.where != nil {
		p.Append(" WHERE ")
		p.Visit(s.where)
	}
	s.appendAnnotations(p)
}
