package xlgen

import (
	"fmt"
	"sort"
	"sync"

	"github.com/xuri/excelize/v2"
)

// Styler builds a cell style against the live workbook. Use it when a
// structured Style cannot express the look, e.g. theme colors.
type Styler interface {
	CellStyle(f *excelize.File) (*excelize.Style, error)
}

// StylerFunc adapts a function to the Styler interface.
type StylerFunc func(f *excelize.File) (*excelize.Style, error)

// CellStyle calls fn(f).
func (fn StylerFunc) CellStyle(f *excelize.File) (*excelize.Style, error) {
	return fn(f)
}

// StylerRegistry maps styler names to factories. A styler is instantiated
// on first use and the instance is reused by every generator sharing the
// registry. It is safe for concurrent use.
type StylerRegistry struct {
	mu        sync.Mutex
	factories map[string]func() Styler
	instances map[string]Styler
}

// NewStylerRegistry creates an empty registry.
func NewStylerRegistry() *StylerRegistry {
	return &StylerRegistry{
		factories: make(map[string]func() Styler),
		instances: make(map[string]Styler),
	}
}

// Register adds a factory under name, replacing any previous one.
func (r *StylerRegistry) Register(name string, factory func() Styler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
	delete(r.instances, name)
}

// Get returns the styler registered under name, creating it on first use.
func (r *StylerRegistry) Get(name string) (Styler, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.instances[name]; ok {
		return s, nil
	}
	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStyler, name)
	}
	s := factory()
	r.instances[name] = s
	return s, nil
}

// Names returns the registered names, sorted.
func (r *StylerRegistry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
