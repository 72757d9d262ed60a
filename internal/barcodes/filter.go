package barcodes

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/stocktag/stocktag/internal/shared"
)

// Filters is the declarative filter object received from callers. Field
// names are matched against the schema below; unknown fields are ignored.
type Filters map[string]any

// Sorters maps field name to "asc" or "desc". Declared fields are applied
// in a fixed order to keep ties deterministic, not in map iteration order.
type Sorters map[string]string

// RuleType classifies how a filter field is interpreted.
type RuleType string

const (
	// RuleString matches substrings case-insensitively.
	RuleString RuleType = "string"
	// RuleArray matches membership of a scalar column in the given set, or
	// set intersection when the column itself is an array.
	RuleArray RuleType = "array"
	// RuleDateRange matches an inclusive from/to window; either bound may
	// be absent for an open-ended range.
	RuleDateRange RuleType = "dateRange"
	// RuleBoolArray matches a boolean column against an IN-set.
	RuleBoolArray RuleType = "booleanArray"
)

// FieldRule binds a filter field to a column and rule type.
type FieldRule struct {
	Column    string
	Type      RuleType
	Intersect bool
}

var barcodeFilterSchema = map[string]FieldRule{
	"code":       {Column: "code", Type: RuleString},
	"ids":        {Column: "id", Type: RuleArray},
	"productIds": {Column: "product_ids", Type: RuleArray, Intersect: true},
	"active":     {Column: "active", Type: RuleBoolArray},
	"createdAt":  {Column: "created_at", Type: RuleDateRange},
	"updatedAt":  {Column: "updated_at", Type: RuleDateRange},
}

// barcodeSortFields fixes the order sort fields are applied in.
var barcodeSortFields = []struct{ Field, Column string }{
	{"code", "code"},
	{"active", "active"},
	{"createdAt", "created_at"},
	{"updatedAt", "updated_at"},
}

// CompileFilter turns a filter object into SQL conditions and bound args.
// Arg placeholders start at firstArg. An empty filter yields no conditions
// (the repository adds the removed = FALSE base predicate itself).
func CompileFilter(schema map[string]FieldRule, filters Filters, firstArg int) ([]string, []any, error) {
	var conds []string
	var args []any
	next := firstArg

	// deterministic condition order for stable query text
	for _, field := range sortedKeys(filters) {
		rule, ok := schema[field]
		if !ok {
			continue
		}
		value := filters[field]
		if value == nil {
			continue
		}

		switch rule.Type {
		case RuleString:
			s, ok := value.(string)
			if !ok {
				return nil, nil, fmt.Errorf("%w: filter field %s expects a string", shared.ErrValidation, field)
			}
			if s == "" {
				continue
			}
			conds = append(conds, rule.Column+` ILIKE $`+strconv.Itoa(next))
			args = append(args, "%"+s+"%")
			next++

		case RuleArray:
			set, err := stringSet(value)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: filter field %s expects a list of ids", shared.ErrValidation, field)
			}
			if len(set) == 0 {
				continue
			}
			if rule.Intersect {
				conds = append(conds, rule.Column+` && $`+strconv.Itoa(next))
			} else {
				conds = append(conds, rule.Column+` = ANY($`+strconv.Itoa(next)+`)`)
			}
			args = append(args, set)
			next++

		case RuleBoolArray:
			set, err := boolSet(value)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: filter field %s expects a list of booleans", shared.ErrValidation, field)
			}
			if len(set) == 0 {
				continue
			}
			conds = append(conds, rule.Column+` = ANY($`+strconv.Itoa(next)+`)`)
			args = append(args, set)
			next++

		case RuleDateRange:
			from, to, err := dateRange(value)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: filter field %s: %v", shared.ErrValidation, field, err)
			}
			if from != nil {
				conds = append(conds, rule.Column+` >= $`+strconv.Itoa(next))
				args = append(args, *from)
				next++
			}
			if to != nil {
				conds = append(conds, rule.Column+` <= $`+strconv.Itoa(next))
				args = append(args, *to)
				next++
			}
		}
	}
	return conds, args, nil
}

// CompileSort produces the ORDER BY clause. Unknown fields are ignored;
// invalid directions are rejected. A stable id tiebreak is always appended.
func CompileSort(sorters Sorters) (string, error) {
	var parts []string
	for _, sf := range barcodeSortFields {
		dir, ok := sorters[sf.Field]
		if !ok {
			continue
		}
		if dir != "asc" && dir != "desc" {
			return "", fmt.Errorf("%w: sort field %s expects asc or desc", shared.ErrValidation, sf.Field)
		}
		parts = append(parts, sf.Column+" "+strings.ToUpper(dir))
	}
	parts = append(parts, "id ASC")
	return "ORDER BY " + strings.Join(parts, ", "), nil
}

func sortedKeys(filters Filters) []string {
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func stringSet(value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []any:
		set := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("non-string element")
			}
			set = append(set, s)
		}
		return set, nil
	}
	return nil, fmt.Errorf("not a list")
}

func boolSet(value any) ([]bool, error) {
	switch v := value.(type) {
	case []bool:
		return v, nil
	case []any:
		set := make([]bool, 0, len(v))
		for _, item := range v {
			b, ok := item.(bool)
			if !ok {
				return nil, fmt.Errorf("non-boolean element")
			}
			set = append(set, b)
		}
		return set, nil
	}
	return nil, fmt.Errorf("not a list")
}

func dateRange(value any) (*time.Time, *time.Time, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return nil, nil, fmt.Errorf("expects an object with from/to")
	}
	from, err := parseBound(m["from"])
	if err != nil {
		return nil, nil, err
	}
	to, err := parseBound(m["to"])
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

func parseBound(value any) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	switch v := value.(type) {
	case time.Time:
		return &v, nil
	case string:
		if v == "" {
			return nil, nil
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, v); err == nil {
				return &t, nil
			}
		}
		return nil, fmt.Errorf("unparseable date %q", v)
	}
	return nil, fmt.Errorf("unparseable date bound")
}
