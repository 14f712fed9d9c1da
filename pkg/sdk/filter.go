package sdk

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/go-bexpr"
	lru "github.com/hashicorp/golang-lru/v2"
)

const filterCacheSize = 64

// FilterCache holds compiled bexpr evaluators keyed by expression.
type FilterCache struct {
	evaluators *lru.Cache[string, *bexpr.Evaluator]
}

// NewFilterCache returns a cache holding up to size compiled expressions.
func NewFilterCache(size int) (*FilterCache, error) {
	cache, err := lru.New[string, *bexpr.Evaluator](size)
	if err != nil {
		return nil, fmt.Errorf("create filter cache: %w", err)
	}
	return &FilterCache{evaluators: cache}, nil
}

var defaultFilterCache = func() *FilterCache {
	fc, err := NewFilterCache(filterCacheSize)
	if err != nil {
		panic(err)
	}
	return fc
}()

func (fc *FilterCache) evaluator(expr string) (*bexpr.Evaluator, error) {
	if cached, ok := fc.evaluators.Get(expr); ok {
		return cached, nil
	}
	evaluator, err := bexpr.CreateEvaluator(expr)
	if err != nil {
		return nil, &ValidationError{Field: "filter", Message: err.Error()}
	}
	fc.evaluators.Add(expr, evaluator)
	return evaluator, nil
}

// Filter keeps the items matching a bexpr expression such as
// `category == "dairy" and location == "fridge"`. Field names are the
// items' JSON names. An empty expression keeps everything.
func Filter[T any](expr string, items []T) ([]T, error) {
	return FilterWith(defaultFilterCache, expr, items)
}

// FilterWith is Filter with an explicit evaluator cache.
func FilterWith[T any](fc *FilterCache, expr string, items []T) ([]T, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return items, nil
	}
	evaluator, err := fc.evaluator(expr)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		ok, err := evaluator.Evaluate(item)
		if err != nil {
			return nil, &ValidationError{Field: "filter", Message: err.Error()}
		}
		if ok {
			out = append(out, item)
		}
	}
	return out, nil
}

// BuildEqualityFilter turns key=value pairs into an AND of equality checks.
// Numbers and booleans are emitted verbatim, everything else is quoted.
func BuildEqualityFilter(fields map[string]string) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	expressions := make([]string, 0, len(keys))
	for _, key := range keys {
		expressions = append(expressions, fmt.Sprintf("%s == %s", key, formatFilterValue(fields[key])))
	}
	return strings.Join(expressions, " and ")
}

func formatFilterValue(v string) string {
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return v
	}
	if _, err := strconv.ParseBool(v); err == nil {
		return v
	}
	return strconv.Quote(v)
}

// ParseEqualityArgs parses repeated key=value flags. Later duplicates win
// and produce a warning.
func ParseEqualityArgs(args []string) (map[string]string, []string, error) {
	fields := make(map[string]string, len(args))
	var warnings []string
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, nil, &ValidationError{Field: "where", Message: fmt.Sprintf("expected key=value, got %q", arg)}
		}
		if _, dup := fields[key]; dup {
			warnings = append(warnings, fmt.Sprintf("duplicate key %q: using last value %q", key, value))
		}
		fields[key] = strings.TrimSpace(value)
	}
	return fields, warnings, nil
}

// CombineFilters ANDs non-empty expressions together.
func CombineFilters(exprs ...string) string {
	var parts []string
	for _, e := range exprs {
		if e = strings.TrimSpace(e); e != "" {
			parts = append(parts, e)
		}
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	for i, p := range parts {
		parts[i] = "(" + p + ")"
	}
	return strings.Join(parts, " and ")
}
