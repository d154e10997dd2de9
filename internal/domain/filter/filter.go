// Package filter describes index pre-filters: tag equality and numeric ranges
// combined with AND / AND NOT semantics.
package filter

import "fmt"

// MaxConditions bounds the number of conditions per group.
const MaxConditions = 16

// Expression is a conjunction of conditions with optional negated conditions.
type Expression struct {
	must    []Condition
	mustNot []Condition
}

// NewExpression validates and creates an Expression.
func NewExpression(must, mustNot []Condition) (Expression, error) {
	if len(must) > MaxConditions {
		return Expression{}, fmt.Errorf("too many must conditions (max %d)", MaxConditions)
	}
	if len(mustNot) > MaxConditions {
		return Expression{}, fmt.Errorf("too many must_not conditions (max %d)", MaxConditions)
	}
	return Expression{must: must, mustNot: mustNot}, nil
}

// Where builds an Expression from must conditions only.
func Where(must ...Condition) (Expression, error) {
	return NewExpression(must, nil)
}

// Must returns the must conditions.
func (e Expression) Must() []Condition { return e.must }

// MustNot returns the negated conditions.
func (e Expression) MustNot() []Condition { return e.mustNot }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool {
	return len(e.must) == 0 && len(e.mustNot) == 0
}

// Condition is a single clause: a tag match or a numeric range.
type Condition struct {
	key       string
	match     string
	rangeExpr *Range
}

// NewMatch creates an exact tag match condition.
func NewMatch(key, match string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if match == "" {
		return Condition{}, fmt.Errorf("match value is required for key %q", key)
	}
	return Condition{key: key, match: match}, nil
}

// NewRange creates a numeric range condition.
func NewRange(key string, r Range) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	return Condition{key: key, rangeExpr: &r}, nil
}

// Key returns the field alias.
func (c Condition) Key() string { return c.key }

// Match returns the exact match value.
func (c Condition) Match() string { return c.match }

// Range returns the numeric range.
func (c Condition) Range() *Range { return c.rangeExpr }

// IsMatch reports whether this is a match condition.
func (c Condition) IsMatch() bool { return c.match != "" }

// IsRange reports whether this is a range condition.
func (c Condition) IsRange() bool { return c.rangeExpr != nil }

// Range is a numeric interval. Nil bounds are open.
type Range struct {
	gte *float64
	lt  *float64
}

// NewRangeFilter validates and creates a half-open range [gte, lt).
func NewRangeFilter(gte, lt *float64) (Range, error) {
	if gte == nil && lt == nil {
		return Range{}, fmt.Errorf("at least one range boundary is required")
	}
	if gte != nil && lt != nil && *lt <= *gte {
		return Range{}, fmt.Errorf("empty range [%g, %g)", *gte, *lt)
	}
	return Range{gte: gte, lt: lt}, nil
}

// AtLeast returns the range [v, +inf).
func AtLeast(v float64) Range {
	return Range{gte: &v}
}

// GTE returns the inclusive lower bound.
func (r Range) GTE() *float64 { return r.gte }

// LT returns the exclusive upper bound.
func (r Range) LT() *float64 { return r.lt }

// Equal builds a conjunction of tag matches from key/value pairs.
func Equal(kv ...string) (Expression, error) {
	if len(kv)%2 != 0 {
		return Expression{}, fmt.Errorf("odd number of key/value arguments")
	}
	must := make([]Condition, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		c, err := NewMatch(kv[i], kv[i+1])
		if err != nil {
			return Expression{}, err
		}
		must = append(must, c)
	}
	return Where(must...)
}
