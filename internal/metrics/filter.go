package metrics

import (
	"fmt"
	"sort"
	"strings"
)

// Filter is a conjunctive set of inclusion lists keyed by dimension. An
// event passes when, for every populated dimension, at least one of its
// values is in the allowed list.
type Filter map[Dimension][]string

// Empty reports whether the filter has no populated dimension.
func (f Filter) Empty() bool {
	for _, allowed := range f {
		if len(allowed) > 0 {
			return false
		}
	}
	return true
}

// Matches applies the filter to an event's dimension values.
func (f Filter) Matches(v values) bool {
	for dim, allowed := range f {
		if len(allowed) == 0 {
			continue
		}
		if !intersects(v[dim], allowed) {
			return false
		}
	}
	return true
}

func intersects(have, allowed []string) bool {
	for _, h := range have {
		for _, a := range allowed {
			if h == a {
				return true
			}
		}
	}
	return false
}

// ParseFilter builds a filter from "dimension=value1,value2" expressions.
// Repeating a dimension extends its allowed list.
func ParseFilter(exprs []string) (Filter, error) {
	f := Filter{}
	for _, expr := range exprs {
		key, list, ok := strings.Cut(expr, "=")
		if !ok {
			return nil, fmt.Errorf("invalid filter %q: expected dimension=value[,value]", expr)
		}
		dim, err := ParseDimension(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("invalid filter %q: %w", expr, err)
		}
		for _, v := range strings.Split(list, ",") {
			if v = strings.TrimSpace(v); v != "" {
				f[dim] = append(f[dim], v)
			}
		}
	}
	return f, nil
}

// String renders the filter deterministically.
func (f Filter) String() string {
	dims := make([]string, 0, len(f))
	for d, allowed := range f {
		if len(allowed) > 0 {
			dims = append(dims, string(d))
		}
	}
	sort.Strings(dims)
	parts := make([]string, 0, len(dims))
	for _, d := range dims {
		parts = append(parts, d+"="+strings.Join(f[Dimension(d)], ","))
	}
	return strings.Join(parts, " ")
}
