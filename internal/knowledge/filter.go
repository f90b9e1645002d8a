package knowledge

import "fmt"

// Filter restricts item selection by kind.
type Filter string

const (
	FilterAny    Filter = "any"
	FilterPhrase Filter = "phrase"
	FilterWord   Filter = "word"
)

var filterOrder = []Filter{FilterAny, FilterWord, FilterPhrase}

// ParseFilter parses a filter name. The empty string means FilterAny.
func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case "", FilterAny:
		return FilterAny, nil
	case FilterPhrase, FilterWord:
		return Filter(s), nil
	}
	return "", fmt.Errorf("unknown knowledge filter %q (want any, word or phrase)", s)
}

// Match reports whether the item passes the filter.
func (f Filter) Match(it Item) bool {
	switch f {
	case FilterPhrase:
		return it.Kind == KindPhrase
	case FilterWord:
		return it.Kind == KindWord
	}
	return true
}

// Next returns the filter that follows f in selector order.
func (f Filter) Next() Filter {
	for i, o := range filterOrder {
		if o == f {
			return filterOrder[(i+1)%len(filterOrder)]
		}
	}
	return FilterAny
}

// Label returns the selector label.
func (f Filter) Label() string {
	switch f {
	case FilterPhrase:
		return "Phrases"
	case FilterWord:
		return "Words"
	}
	return "Both"
}

// Count returns how many items in b pass the filter.
func (b Base) Count(f Filter) int {
	n := 0
	for _, it := range b {
		if f.Match(it) {
			n++
		}
	}
	return n
}
