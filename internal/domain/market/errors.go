package market

import "fmt"

// NotFoundError indicates get(ns, name) matched zero catalog entries.
type NotFoundError struct {
	Namespace string
	Name      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("market plugin %s/%s not found", e.Namespace, e.Name)
}

// InvalidSortParamsError indicates the requested sort key's values are not
// mutually orderable (not all strings).
type InvalidSortParamsError struct {
	Field string
}

func (e *InvalidSortParamsError) Error() string {
	return fmt.Sprintf("cannot sort on field %q: values are not mutually orderable", e.Field)
}
