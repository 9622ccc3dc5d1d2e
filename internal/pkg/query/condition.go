package query

import "fmt"

// Dialect selects how bind parameters are rendered.
type Dialect int

const (
	// Spanner renders named parameters (@p0, @p1, ...).
	Spanner Dialect = iota
	// Postgres renders positional parameters ($1, $2, ...).
	Postgres
)

// Param returns the placeholder for the zero-based parameter index.
func (d Dialect) Param(index int) string {
	if d == Postgres {
		return fmt.Sprintf("$%d", index+1)
	}
	return fmt.Sprintf("@p%d", index)
}

// Condition represents a WHERE clause condition.
type Condition interface {
	// SQL returns the SQL fragment and the values bound by it, in order.
	// paramIndex is the index of the first parameter this condition uses.
	SQL(d Dialect, paramIndex int) (string, []interface{})
}

// eqCondition implements equality comparison (field = value).
type eqCondition struct {
	field string
	value interface{}
}

// Eq creates a WHERE condition for equality comparison.
// Example: Eq("category", "FOOD") generates "category = @p0"
func Eq(field string, value interface{}) Condition {
	return &eqCondition{
		field: field,
		value: value,
	}
}

// SQL generates the SQL fragment for equality comparison.
func (c *eqCondition) SQL(d Dialect, paramIndex int) (string, []interface{}) {
	return fmt.Sprintf("%s = %s", c.field, d.Param(paramIndex)), []interface{}{c.value}
}
