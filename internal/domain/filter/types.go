// Package filter defines the field-level predicate language consumed by the
// persistence layer. Conditions compose with boolean AND/OR.
package filter

// ComparisonType defines the comparison kinds.
type ComparisonType string

const (
	Equal          ComparisonType = "eq"       // equals
	NotEqual       ComparisonType = "neq"      // not equals
	Less           ComparisonType = "lt"       // less than
	LessOrEqual    ComparisonType = "lte"      // less than or equal
	Greater        ComparisonType = "gt"       // greater than
	GreaterOrEqual ComparisonType = "gte"      // greater than or equal
	InList         ComparisonType = "in"       // set membership
	Contains       ComparisonType = "contains" // substring (ILIKE %val%)
)

// Item represents a single field condition.
type Item struct {
	Field    string         `json:"field"`    // column name (snake_case)
	Operator ComparisonType `json:"operator"` // comparison kind
	Value    any            `json:"value"`    // string, number, or slice for "in"
}

// Logic joins the items of a Group.
type Logic string

const (
	And Logic = "and"
	Or  Logic = "or"
)

// Group combines several items under one boolean connective.
// A slice of Groups is always joined with AND.
type Group struct {
	Logic Logic  `json:"logic"`
	Items []Item `json:"items"`
}

// Eq is shorthand for an equality item.
func Eq(field string, value any) Item {
	return Item{Field: field, Operator: Equal, Value: value}
}

// ContainsText is shorthand for a substring item.
func ContainsText(field, value string) Item {
	return Item{Field: field, Operator: Contains, Value: value}
}

// AllOf wraps items into an AND group.
func AllOf(items ...Item) Group {
	return Group{Logic: And, Items: items}
}

// AnyOf wraps items into an OR group.
func AnyOf(items ...Item) Group {
	return Group{Logic: Or, Items: items}
}
