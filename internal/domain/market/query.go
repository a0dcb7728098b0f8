package market

import "sort"

// Filters captures the query parameters for GET /market: strict equality
// filters on arbitrary descriptive fields (plus the synthetic "installed"
// filter), a free-text search, and sort direction.
type Filters struct {
	// Strict holds exact-match filters, e.g. {"namespace": "official"}.
	Strict map[string]string
	// Installed filters on installed state: nil means no filter.
	Installed *bool
	// Search is matched case-insensitively and accent-stripped against all
	// string/list fields.
	Search string
	// Order is the field name to sort by; empty means input order.
	Order string
	// Direction is "asc" (default) or "desc".
	Direction string
}

// HasNonPagingFilter reports whether any filter beyond limit/offset is
// active, used by Count to decide between raw and filtered counts.
func (f Filters) HasNonPagingFilter() bool {
	return len(f.Strict) > 0 || f.Installed != nil || f.Search != ""
}

// Paging captures limit/offset pagination.
type Paging struct {
	Limit  int
	Offset int
}

// Count returns the filtered count if any non-paging filter is active,
// otherwise the raw entry count.
func Count(entries []Entry, filters Filters) int {
	if !filters.HasNonPagingFilter() {
		return len(entries)
	}
	return len(Filter(entries, filters))
}

// Filter applies strict equality filters (including "installed"), then the
// search substring match, preserving input order.
func Filter(entries []Entry, filters Filters) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !matchesStrict(e, filters.Strict) {
			continue
		}
		if filters.Installed != nil && e.IsInstalled() != *filters.Installed {
			continue
		}
		if !matchesSearch(e, filters.Search) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func matchesStrict(e Entry, strict map[string]string) bool {
	for field, want := range strict {
		got, ok := fieldValue(e, field)
		if !ok || got != want {
			return false
		}
	}
	return true
}

func fieldValue(e Entry, field string) (string, bool) {
	switch field {
	case "namespace":
		return e.Namespace, true
	case "name":
		return e.Name, true
	case "description":
		return e.Description, true
	default:
		v, ok := e.Fields[field]
		if !ok {
			return "", false
		}
		s, ok := v.(string)
		return s, ok
	}
}

// List applies Filter then Sort then pagination, the full pipeline behind
// GET /market.
func List(entries []Entry, filters Filters, paging Paging) ([]Entry, error) {
	filtered := Filter(entries, filters)
	sorted, err := Sort(filtered, filters.Order, filters.Direction)
	if err != nil {
		return nil, err
	}
	return Paginate(sorted, paging), nil
}

// Sort orders entries by the named field, stably (ties retain input order).
// An empty field leaves entries untouched. If any entry lacks an orderable
// string value for the field, returns InvalidSortParamsError.
func Sort(entries []Entry, field, direction string) ([]Entry, error) {
	if field == "" {
		return entries, nil
	}

	for _, e := range entries {
		if _, ok := fieldValue(e, field); !ok {
			return nil, &InvalidSortParamsError{Field: field}
		}
	}

	out := make([]Entry, len(entries))
	copy(out, entries)

	desc := direction == "desc"
	sort.SliceStable(out, func(i, j int) bool {
		ki, _ := fieldValue(out[i], field)
		kj, _ := fieldValue(out[j], field)
		if desc {
			return ki > kj
		}
		return ki < kj
	})
	return out, nil
}

// Paginate applies limit/offset. A zero Limit means "no limit".
func Paginate(entries []Entry, paging Paging) []Entry {
	offset := paging.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(entries) {
		return []Entry{}
	}
	end := len(entries)
	if paging.Limit > 0 && offset+paging.Limit < end {
		end = offset + paging.Limit
	}
	return entries[offset:end]
}

// Get returns the strict (namespace, name) match, or NotFoundError if zero
// entries match.
func Get(entries []Entry, namespace, name string) (Entry, error) {
	for _, e := range entries {
		if e.Namespace == namespace && e.Name == name {
			return e, nil
		}
	}
	return Entry{}, &NotFoundError{Namespace: namespace, Name: name}
}
