package postgres

import (
	"fmt"

	"github.com/Masterminds/squirrel"

	"wisma/internal/core/apperror"
	"wisma/internal/domain/filter"
)

// ApplyFilterItems adds each item as an AND condition on the builder. Column
// names are validated against the whitelist before they reach SQL text.
func ApplyFilterItems(q squirrel.SelectBuilder, items []filter.Item, validCols map[string]bool) (squirrel.SelectBuilder, error) {
	for _, item := range items {
		cond, err := itemToSqlizer(item, validCols)
		if err != nil {
			return q, err
		}
		q = q.Where(cond)
	}
	return q, nil
}

// ApplyFilterGroups adds each group as an AND condition; a group's items are
// joined with its own connective.
func ApplyFilterGroups(q squirrel.SelectBuilder, groups []filter.Group, validCols map[string]bool) (squirrel.SelectBuilder, error) {
	for _, group := range groups {
		cond, err := groupToSqlizer(group, validCols)
		if err != nil {
			return q, err
		}
		if cond != nil {
			q = q.Where(cond)
		}
	}
	return q, nil
}

func groupToSqlizer(group filter.Group, validCols map[string]bool) (squirrel.Sqlizer, error) {
	if len(group.Items) == 0 {
		return nil, nil
	}

	conds := make([]squirrel.Sqlizer, 0, len(group.Items))
	for _, item := range group.Items {
		cond, err := itemToSqlizer(item, validCols)
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)
	}

	if group.Logic == filter.Or {
		or := make(squirrel.Or, len(conds))
		copy(or, conds)
		return or, nil
	}
	and := make(squirrel.And, len(conds))
	copy(and, conds)
	return and, nil
}

func itemToSqlizer(item filter.Item, validCols map[string]bool) (squirrel.Sqlizer, error) {
	if !validCols[item.Field] {
		return nil, apperror.NewValidation("unknown filter column").
			WithDetail("field", item.Field)
	}

	switch item.Operator {
	case filter.Equal:
		return squirrel.Eq{item.Field: item.Value}, nil
	case filter.NotEqual:
		return squirrel.NotEq{item.Field: item.Value}, nil
	case filter.Less:
		return squirrel.Lt{item.Field: item.Value}, nil
	case filter.LessOrEqual:
		return squirrel.LtOrEq{item.Field: item.Value}, nil
	case filter.Greater:
		return squirrel.Gt{item.Field: item.Value}, nil
	case filter.GreaterOrEqual:
		return squirrel.GtOrEq{item.Field: item.Value}, nil
	case filter.InList:
		// squirrel renders slice values as IN (...)
		return squirrel.Eq{item.Field: item.Value}, nil
	case filter.Contains:
		return squirrel.ILike{item.Field: fmt.Sprintf("%%%v%%", item.Value)}, nil
	default:
		return nil, apperror.NewValidation("unknown filter operator").
			WithDetail("operator", string(item.Operator))
	}
}
