package filter

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/catalog/internal/domain"
	"github.com/kailas-cloud/catalog/internal/domain/item"
)

// MaxConditionsPerGroup is the maximum number of operands in an "and" group.
const MaxConditionsPerGroup = 32

// MaxDepth is the maximum nesting depth of a decoded expression.
const MaxDepth = 8

// Operator is a comparison operator. Only equality is supported by the remote collection.
type Operator string

// OpEq is the equality operator.
const OpEq Operator = "=="

// Condition is a single field comparison. A nil value compares against null.
type Condition struct {
	field string
	op    Operator
	value *string
}

// NewEq creates a field == value condition.
func NewEq(field, value string) (Condition, error) {
	if field == "" {
		return Condition{}, fmt.Errorf("filter field is required")
	}
	if value == "" {
		return Condition{}, fmt.Errorf("match value is required for field %q", field)
	}
	v := value
	return Condition{field: field, op: OpEq, value: &v}, nil
}

// NewIsNull creates a field == null condition.
func NewIsNull(field string) (Condition, error) {
	if field == "" {
		return Condition{}, fmt.Errorf("filter field is required")
	}
	return Condition{field: field, op: OpEq}, nil
}

// Field returns the field name.
func (c Condition) Field() string { return c.field }

// Operator returns the comparison operator.
func (c Condition) Operator() Operator { return c.op }

// Value returns the compared value; ok=false means null.
func (c Condition) Value() (string, bool) {
	if c.value == nil {
		return "", false
	}
	return *c.value, true
}

// Eval reports whether the item satisfies the condition.
func (c Condition) Eval(it *item.Item) bool {
	got, present := it.Field(c.field)
	want, notNull := c.Value()
	if !notNull {
		return !present
	}
	return present && got == want
}

// Expression is a remote filter: empty, a single condition, or a conjunction.
type Expression struct {
	cond *Condition
	and  []Expression
}

// Match wraps a single condition.
func Match(c Condition) Expression {
	return Expression{cond: &c}
}

// And builds a conjunction. Empty operands are dropped; a single operand is returned unwrapped.
func And(exprs ...Expression) (Expression, error) {
	ops := make([]Expression, 0, len(exprs))
	for _, e := range exprs {
		if !e.IsEmpty() {
			ops = append(ops, e)
		}
	}
	if len(ops) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many and operands (max %d)", MaxConditionsPerGroup)
	}
	switch len(ops) {
	case 0:
		return Expression{}, nil
	case 1:
		return ops[0], nil
	}
	return Expression{and: ops}, nil
}

// IsEmpty reports whether the expression has no constraint.
func (e Expression) IsEmpty() bool {
	return e.cond == nil && len(e.and) == 0
}

// Condition returns the single condition, if this is a leaf.
func (e Expression) Condition() (Condition, bool) {
	if e.cond == nil {
		return Condition{}, false
	}
	return *e.cond, true
}

// Eval reports whether the item satisfies the expression. Empty matches everything.
func (e Expression) Eval(it *item.Item) bool {
	if e.cond != nil {
		return e.cond.Eval(it)
	}
	for _, op := range e.and {
		if !op.Eval(it) {
			return false
		}
	}
	return true
}

type conditionJSON struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    *string  `json:"value"`
}

type expressionJSON struct {
	Field    *string           `json:"field,omitempty"`
	Operator *Operator         `json:"operator,omitempty"`
	Value    json.RawMessage   `json:"value,omitempty"`
	And      []json.RawMessage `json:"and,omitempty"`
}

// MarshalJSON encodes {} / {field,operator,value} / {and:[...]}.
func (e Expression) MarshalJSON() ([]byte, error) {
	if e.cond != nil {
		return json.Marshal(conditionJSON{Field: e.cond.field, Operator: e.cond.op, Value: e.cond.value})
	}
	if len(e.and) > 0 {
		return json.Marshal(struct {
			And []Expression `json:"and"`
		}{And: e.and})
	}
	return []byte("{}"), nil
}

// UnmarshalJSON decodes the wire shapes, rejecting unknown operators and deep nesting.
func (e *Expression) UnmarshalJSON(data []byte) error {
	out, err := decode(data, 0)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidExpression, err)
	}
	*e = out
	return nil
}

func decode(data []byte, depth int) (Expression, error) {
	if depth > MaxDepth {
		return Expression{}, fmt.Errorf("expression nested too deep (max %d)", MaxDepth)
	}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return Expression{}, nil
	}
	var raw expressionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return Expression{}, fmt.Errorf("decode expression: %w", err)
	}

	if raw.And != nil {
		if raw.Field != nil {
			return Expression{}, fmt.Errorf("expression has both and and field")
		}
		ops := make([]Expression, 0, len(raw.And))
		for i, r := range raw.And {
			op, err := decode(r, depth+1)
			if err != nil {
				return Expression{}, fmt.Errorf("and[%d]: %w", i, err)
			}
			ops = append(ops, op)
		}
		return And(ops...)
	}

	if raw.Field == nil {
		return Expression{}, nil
	}
	if raw.Operator == nil || *raw.Operator != OpEq {
		return Expression{}, fmt.Errorf("unsupported operator for field %q", *raw.Field)
	}
	var value *string
	if len(raw.Value) > 0 && !bytes.Equal(raw.Value, []byte("null")) {
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return Expression{}, fmt.Errorf("value for field %q must be a string or null", *raw.Field)
		}
		value = &s
	}
	if value == nil {
		c, err := NewIsNull(*raw.Field)
		if err != nil {
			return Expression{}, err
		}
		return Match(c), nil
	}
	c, err := NewEq(*raw.Field, *value)
	if err != nil {
		return Expression{}, err
	}
	return Match(c), nil
}
