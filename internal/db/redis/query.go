package redis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/talentmatch/internal/domain/filter"
)

// scoreField receives the KNN distance in the reply.
const scoreField = "__vector_score"

// knnQuery renders "(<filter>)=>[KNN k @field $BLOB AS __vector_score]".
// With ef set the clause also reads EF_RUNTIME from the $EF parameter.
func knnQuery(f filter.Expression, k int, field string, ef bool) string {
	efPart := ""
	if ef {
		efPart = " EF_RUNTIME $EF"
	}
	knn := fmt.Sprintf("[KNN %d @%s $BLOB%s AS %s]", k, field, efPart, scoreField)

	pre := "*"
	if q := buildFilter(f); q != "" {
		pre = "(" + q + ")"
	}
	return pre + "=>" + knn
}

// filterQuery renders f, or the match-all query when f is empty.
func filterQuery(f filter.Expression) string {
	if q := buildFilter(f); q != "" {
		return q
	}
	return "*"
}

// buildFilter joins conditions with spaces (AND); negated conditions get a
// leading "-".
func buildFilter(expr filter.Expression) string {
	if expr.IsEmpty() {
		return ""
	}
	var b strings.Builder
	write := func(prefix string, c filter.Condition) {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(prefix)
		b.WriteString(condition(c))
	}
	for _, c := range expr.Must() {
		write("", c)
	}
	for _, c := range expr.MustNot() {
		write("-", c)
	}
	return b.String()
}

func condition(c filter.Condition) string {
	switch {
	case c.IsMatch():
		return "@" + c.Key() + ":{" + escapeTag(c.Match()) + "}"
	case c.IsRange():
		r := c.Range()
		lo, hi := "-inf", "+inf"
		if r.GTE() != nil {
			lo = formatFloat(*r.GTE())
		}
		if r.LT() != nil {
			hi = "(" + formatFloat(*r.LT())
		}
		return "@" + c.Key() + ":[" + lo + " " + hi + "]"
	default:
		return ""
	}
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// escapeTag backslash-escapes every byte that is not a letter, digit or
// underscore, which covers the RediSearch tokenizer's separators.
func escapeTag(v string) string {
	var b strings.Builder
	b.Grow(len(v) + 4)
	for _, r := range v {
		if r < 128 && !isWordRune(r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
