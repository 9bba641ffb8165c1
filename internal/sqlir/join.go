package sqlir

// predicateJoin is the shared shape of join kinds that carry an ON
// condition. The joined-in table, the predicate, and the prunable flag
// are fixed at construction for the node's lifetime.
//
// Prunable marks the join as eligible for removal by a rewrite pass if
// no downstream consumer references its output. It is a structural
// classification fixed by whichever pass created the node, not a
// runtime-toggleable flag, so it participates in Equal and Hash.
type predicateJoin struct {
	tableExprBase
	table     TableExpr
	predicate ScalarExpr
	prunable  bool
}

// newPredicateJoin validates children for a predicate join kind.
func newPredicateJoin(kind string, table TableExpr, predicate ScalarExpr, prunable bool, anns *AnnotationSet) (predicateJoin, error) {
	if table == nil {
		return predicateJoin{}, &InvalidChildError{Kind: kind, Child: "table"}
	}
	if predicate == nil {
		return predicateJoin{}, &InvalidChildError{Kind: kind, Child: "predicate"}
	}
	return predicateJoin{
		tableExprBase: tableExprBase{anns: anns},
		table:         table,
		predicate:     predicate,
		prunable:      prunable,
	}, nil
}

// Table returns the joined-in subtree.
func (j predicateJoin) Table() TableExpr { return j.table }

// Predicate returns the ON condition.
func (j predicateJoin) Predicate() ScalarExpr { return j.predicate }

// Prunable reports whether a rewrite pass may elide this join.
func (j predicateJoin) Prunable() bool { return j.prunable }

// update applies the rebuild-or-share rule shared by every predicate
// join kind. The short-circuit is reference identity, NOT structural
// equality: a deep comparison here would cost O(n) on every pass and
// a deep-equal-but-distinct child must still produce a fresh node.
func (j predicateJoin) update(kind string, table TableExpr, predicate ScalarExpr) (predicateJoin, bool, error) {
	if table == j.table && predicate == j.predicate {
		return j, false, nil
	}
	next, err := newPredicateJoin(kind, table, predicate, j.prunable, j.anns)
	if err != nil {
		return predicateJoin{}, false, err
	}
	return next, true, nil
}

// equalJoin compares the structural fields shared by predicate join
// kinds. Callers have already established that the concrete kinds match.
func (j predicateJoin) equalJoin(o predicateJoin) bool {
	return j.prunable == o.prunable &&
		j.table.Equal(o.table) &&
		j.predicate.Equal(o.predicate)
}

// hashJoin hashes the structural fields under a kind-specific domain.
func (j predicateJoin) hashJoin(domain string) string {
	return hashWithDomain(domain, j.table.Hash(), j.predicate.Hash(), hashBool(j.prunable))
}

// printJoin emits: keyword, the rendered table, " ON ", the rendered
// predicate, then the annotation comment. The keyword includes its
// trailing space.
func (j predicateJoin) printJoin(p Printer, keyword string) {
	p.Append(keyword)
	p.Visit(j.table)
	p.Append(" ON ")
	p.Visit(j.predicate)
	j.appendAnnotations(p)
}

// InnerJoinExpr is "joined with a table using INNER JOIN ... ON".
type InnerJoinExpr struct {
	predicateJoin
}

// NewInnerJoin creates an inner join node.
// Fails with an InvalidChildError if table or predicate is nil.
func NewInnerJoin(table TableExpr, predicate ScalarExpr, prunable bool) (*InnerJoinExpr, error) {
	pj, err := newPredicateJoin("inner join", table, predicate, prunable, nil)
	if err != nil {
		return nil, err
	}
	return &InnerJoinExpr{predicateJoin: pj}, nil
}

// Update returns the receiver when both candidates are
// reference-identical to the current children; otherwise a new node of
// the same kind with the candidates, the same prunable flag, and the
// same annotations. This is the central rewriting primitive: passes
// rely on getting the exact same instance back to short-circuit
// "nothing changed here" all the way up the tree.
func (j *InnerJoinExpr) Update(table TableExpr, predicate ScalarExpr) (*InnerJoinExpr, error) {
	pj, changed, err := j.update("inner join", table, predicate)
	if err != nil {
		return nil, err
	}
	if !changed {
		return j, nil
	}
	return &InnerJoinExpr{predicateJoin: pj}, nil
}

// UpdateTable is Update for passes that only touch the joined-in
// table. Same unchanged-returns-receiver rule.
func (j *InnerJoinExpr) UpdateTable(table TableExpr) (*InnerJoinExpr, error) {
	return j.Update(table, j.predicate)
}

// WithAnnotations returns an inner join with the same structural
// fields and set replacing the annotations.
func (j *InnerJoinExpr) WithAnnotations(set *AnnotationSet) TableExpr {
	d := *j
	d.anns = set
	return &d
}

// Equal reports structural equality. Another kind of join with
// identical children is never equal.
func (j *InnerJoinExpr) Equal(other Node) bool {
	if Node(j) == other {
		return true
	}
	o, ok := other.(*InnerJoinExpr)
	return ok && o != nil && j.equalJoin(o.predicateJoin)
}

// Hash returns the structural hash.
func (j *InnerJoinExpr) Hash() string { return j.hashJoin(domainInnerJoin) }

// Accept renders "INNER JOIN <table> ON <predicate>".
func (j *InnerJoinExpr) Accept(p Printer) { j.printJoin(p, "INNER JOIN ") }

// LeftJoinExpr is "joined with a table using LEFT JOIN ... ON".
type LeftJoinExpr struct {
	predicateJoin
}

// NewLeftJoin creates a left outer join node.
// Fails with an InvalidChildError if table or predicate is nil.
func NewLeftJoin(table TableExpr, predicate ScalarExpr, prunable bool) (*LeftJoinExpr, error) {
	pj, err := newPredicateJoin("left join", table, predicate, prunable, nil)
	if err != nil {
		return nil, err
	}
	return &LeftJoinExpr{predicateJoin: pj}, nil
}

// Update applies the rebuild-or-share rule; see InnerJoinExpr.Update.
func (j *LeftJoinExpr) Update(table TableExpr, predicate ScalarExpr) (*LeftJoinExpr, error) {
	pj, changed, err := j.update("left join", table, predicate)
	if err != nil {
		return nil, err
	}
	if !changed {
		return j, nil
	}
	return &LeftJoinExpr{predicateJoin: pj}, nil
}

// UpdateTable is Update for passes that only touch the joined-in table.
func (j *LeftJoinExpr) UpdateTable(table TableExpr) (*LeftJoinExpr, error) {
	return j.Update(table, j.predicate)
}

// WithAnnotations returns a left join with set replacing the annotations.
func (j *LeftJoinExpr) WithAnnotations(set *AnnotationSet) TableExpr {
	d := *j
	d.anns = set
	return &d
}

// Equal reports structural equality against another left join.
func (j *LeftJoinExpr) Equal(other Node) bool {
	if Node(j) == other {
		return true
	}
	o, ok := other.(*LeftJoinExpr)
	return ok && o != nil && j.equalJoin(o.predicateJoin)
}

// Hash returns the structural hash.
func (j *LeftJoinExpr) Hash() string { return j.hashJoin(domainLeftJoin) }

// Accept renders "LEFT JOIN <table> ON <predicate>".
func (j *LeftJoinExpr) Accept(p Printer) { j.printJoin(p, "LEFT JOIN ") }

// RightJoinExpr is "joined with a table using RIGHT JOIN ... ON".
type RightJoinExpr struct {
	predicateJoin
}

// NewRightJoin creates a right outer join node.
// Fails with an InvalidChildError if table or predicate is nil.
func NewRightJoin(table TableExpr, predicate ScalarExpr, prunable bool) (*RightJoinExpr, error) {
	pj, err := newPredicateJoin("right join", table, predicate, prunable, nil)
	if err != nil {
		return nil, err
	}
	return &RightJoinExpr{predicateJoin: pj}, nil
}

// Update applies the rebuild-or-share rule; see InnerJoinExpr.Update.
func (j *RightJoinExpr) Update(table TableExpr, predicate ScalarExpr) (*RightJoinExpr, error) {
	pj, changed, err := j.update("right join", table, predicate)
	if err != nil {
		return nil, err
	}
	if !changed {
		return j, nil
	}
	return &RightJoinExpr{predicateJoin: pj}, nil
}

// UpdateTable is Update for passes that only touch the joined-in table.
func (j *RightJoinExpr) UpdateTable(table TableExpr) (*RightJoinExpr, error) {
	return j.Update(table, j.predicate)
}

// WithAnnotations returns a right join with set replacing the annotations.
func (j *RightJoinExpr) WithAnnotations(set *AnnotationSet) TableExpr {
	d := *j
	d.anns = set
	return &d
}

// Equal reports structural equality against another right join.
func (j *RightJoinExpr) Equal(other Node) bool {
	if Node(j) == other {
		return true
	}
	o, ok := other.(*RightJoinExpr)
	return ok && o != nil && j.equalJoin(o.predicateJoin)
}

// Hash returns the structural hash.
func (j *RightJoinExpr) Hash() string { return j.hashJoin(domainRightJoin) }

// Accept renders "RIGHT JOIN <table> ON <predicate>".
func (j *RightJoinExpr) Accept(p Printer) { j.printJoin(p, "RIGHT JOIN ") }

// tableJoin is the shared shape of join kinds without an ON condition.
// Absence of a predicate is a property of the kind, not a nil field:
// a cross join cannot even represent one.
type tableJoin struct {
	tableExprBase
	table    TableExpr
	prunable bool
}

func newTableJoin(kind string, table TableExpr, prunable bool, anns *AnnotationSet) (tableJoin, error) {
	if table == nil {
		return tableJoin{}, &InvalidChildError{Kind: kind, Child: "table"}
	}
	return tableJoin{
		tableExprBase: tableExprBase{anns: anns},
		table:         table,
		prunable:      prunable,
	}, nil
}

// Table returns the joined-in subtree.
func (j tableJoin) Table() TableExpr { return j.table }

// Prunable reports whether a rewrite pass may elide this join.
func (j tableJoin) Prunable() bool { return j.prunable }

func (j tableJoin) update(kind string, table TableExpr) (tableJoin, bool, error) {
	if table == j.table {
		return j, false, nil
	}
	next, err := newTableJoin(kind, table, j.prunable, j.anns)
	if err != nil {
		return tableJoin{}, false, err
	}
	return next, true, nil
}

func (j tableJoin) equalJoin(o tableJoin) bool {
	return j.prunable == o.prunable && j.table.Equal(o.table)
}

func (j tableJoin) hashJoin(domain string) string {
	return hashWithDomain(domain, j.table.Hash(), hashBool(j.prunable))
}

func (j tableJoin) printJoin(p Printer, keyword string) {
	p.Append(keyword)
	p.Visit(j.table)
	j.appendAnnotations(p)
}

// CrossJoinExpr is "joined with a table using CROSS JOIN" (no ON clause).
type CrossJoinExpr struct {
	tableJoin
}

// NewCrossJoin creates a cross join node.
// Fails with an InvalidChildError if table is nil.
func NewCrossJoin(table TableExpr, prunable bool) (*CrossJoinExpr, error) {
	tj, err := newTableJoin("cross join", table, prunable, nil)
	if err != nil {
		return nil, err
	}
	return &CrossJoinExpr{tableJoin: tj}, nil
}

// UpdateTable applies the rebuild-or-share rule for the only child.
func (j *CrossJoinExpr) UpdateTable(table TableExpr) (*CrossJoinExpr, error) {
	tj, changed, err := j.update("cross join", table)
	if err != nil {
		return nil, err
	}
	if !changed {
		return j, nil
	}
	return &CrossJoinExpr{tableJoin: tj}, nil
}

// WithAnnotations returns a cross join with set replacing the annotations.
func (j *CrossJoinExpr) WithAnnotations(set *AnnotationSet) TableExpr {
	d := *j
	d.anns = set
	return &d
}

// Equal reports structural equality against another cross join.
func (j *CrossJoinExpr) Equal(other Node) bool {
	if Node(j) == other {
		return true
	}
	o, ok := other.(*CrossJoinExpr)
	return ok && o != nil && j.equalJoin(o.tableJoin)
}

// Hash returns the structural hash.
func (j *CrossJoinExpr) Hash() string { return j.hashJoin(domainCrossJoin) }

// Accept renders "CROSS JOIN <table>".
func (j *CrossJoinExpr) Accept(p Printer) { j.printJoin(p, "CROSS JOIN ") }

// CrossApplyExpr is "joined with a table using CROSS APPLY".
type CrossApplyExpr struct {
	tableJoin
}

// NewCrossApply creates a cross apply node.
// Fails with an InvalidChildError if table is nil.
func NewCrossApply(table TableExpr, prunable bool) (*CrossApplyExpr, error) {
	tj, err := newTableJoin("cross apply", table, prunable, nil)
	if err != nil {
		return nil, err
	}
	return &CrossApplyExpr{tableJoin: tj}, nil
}

// UpdateTable applies the rebuild-or-share rule for the only child.
func (j *CrossApplyExpr) UpdateTable(table TableExpr) (*CrossApplyExpr, error) {
	tj, changed, err := j.update("cross apply", table)
	if err != nil {
		return nil, err
	}
	if !changed {
		return j, nil
	}
	return &CrossApplyExpr{tableJoin: tj}, nil
}

// WithAnnotations returns a cross apply with set replacing the annotations.
func (j *CrossApplyExpr) WithAnnotations(set *AnnotationSet) TableExpr {
	d := *j
	d.anns = set
	return &d
}

// Equal reports structural equality against another cross apply.
func (j *CrossApplyExpr) Equal(other Node) bool {
	if Node(j) == other {
		return true
	}
	o, ok := other.(*CrossApplyExpr)
	return ok && o != nil && j.equalJoin(o.tableJoin)
}

// Hash returns the structural hash.
func (j *CrossApplyExpr) Hash() string { return j.hashJoin(domainCrossApply) }

// Accept renders "CROSS APPLY <table>".
func (j *CrossApplyExpr) Accept(p Printer) { j.printJoin(p, "CROSS APPLY ") }

// OuterApplyExpr is "joined with a table using OUTER APPLY".
type OuterApplyExpr struct {
	tableJoin
}

// NewOuterApply creates an outer apply node.
// Fails with an InvalidChildError if table is nil.
func NewOuterApply(table TableExpr, prunable bool) (*OuterApplyExpr, error) {
	tj, err := newTableJoin("outer apply", table, prunable, nil)
	if err != nil {
		return nil, err
	}
	return &OuterApplyExpr{tableJoin: tj}, nil
}

// UpdateTable applies the rebuild-or-share rule for the only child.
func (j *OuterApplyExpr) UpdateTable(table TableExpr) (*OuterApplyExpr, error) {
	tj, changed, err := j.update("outer apply", table)
	if err != nil {
		return nil, err
	}
	if !changed {
		return j, nil
	}
	return &OuterApplyExpr{tableJoin: tj}, nil
}

// WithAnnotations returns an outer apply with set replacing the annotations.
func (j *OuterApplyExpr) WithAnnotations(set *AnnotationSet) TableExpr {
	d := *j
	d.anns = set
	return &d
}

// Equal reports structural equality against another outer apply.
func (j *OuterApplyExpr) Equal(other Node) bool {
	if Node(j) == other {
		return true
	}
	o, ok := other.(*OuterApplyExpr)
	return ok && o != nil && j.equalJoin(o.tableJoin)
}

// Hash returns the structural hash.
func (j *OuterApplyExpr) Hash() string { return j.hashJoin(domainOuterApply) }

// Accept renders "OUTER APPLY <table>".
func (j *OuterApplyExpr) Accept(p Printer) { j.printJoin(p, "OUTER APPLY ") }
