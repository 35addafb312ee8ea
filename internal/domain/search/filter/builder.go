package filter

import "github.com/kailas-cloud/catalog/internal/domain/item"

// Build maps a selection to the remote filter expression.
// Precedence: type, then language, then category. The free-text term is never included.
func Build(s Selection) Expression {
	if t := s.Type(); t != "" {
		return typeExpression(t)
	}
	if l := s.Language(); l != "" {
		return eqExpression(string(DimensionLanguage), l)
	}
	if c := s.Category(); c != "" {
		return eqExpression(string(DimensionCategory), c)
	}
	return Expression{}
}

// typeExpression handles relation types: the named relation and every relation after it
// must be null. Other type values match the item's type attribute.
func typeExpression(t string) Expression {
	rels := item.Relations()
	start := -1
	for i, r := range rels {
		if string(r) == t {
			start = i
			break
		}
	}
	if start < 0 {
		return eqExpression(string(DimensionType), t)
	}

	ops := make([]Expression, 0, len(rels)-start)
	for _, r := range rels[start:] {
		c, _ := NewIsNull(string(r))
		ops = append(ops, Match(c))
	}
	e, _ := And(ops...)
	return e
}

func eqExpression(field, value string) Expression {
	c, err := NewEq(field, value)
	if err != nil {
		return Expression{}
	}
	return Match(c)
}
