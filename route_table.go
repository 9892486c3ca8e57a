package hashroute

import "sync"

// RouteTable is an ordered collection of route bindings. The most recently
// registered binding is tried first, which lets application code override
// earlier routes by registering a new one for the same fragments.
//
// RouteTable is safe for concurrent use. Handlers are invoked without any
// lock held, so they may register routes themselves.
type RouteTable struct {
	mu           sync.RWMutex
	firstBinding *Binding
	length       int
}

// NewRouteTable creates an empty route table.
func NewRouteTable() *RouteTable {
	return &RouteTable{}
}

// Register compiles the template and binds it to the handler with the
// highest priority. Compile errors are returned immediately.
//
//	table.Register("users/:id", "user", showUser)
//	table.Register("files/*path", "file", showFile)
func (t *RouteTable) Register(template string, name string, handler Handler) error {
	pattern, err := NewPattern(template)
	if err != nil {
		return err
	}
	t.RegisterPattern(pattern, name, handler)
	return nil
}

// RegisterPattern is like Register but takes an already compiled pattern.
// Panics if the pattern or handler is nil.
func (t *RouteTable) RegisterPattern(pattern *Pattern, name string, handler Handler) {
	if pattern == nil {
		panic("nil pattern provided")
	}
	if handler == nil {
		panic("nil handler provided")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.firstBinding = &Binding{
		Pattern: pattern,
		Name:    name,
		Handler: handler,
		Next:    t.firstBinding,
	}
	t.length += 1
}

// Dispatch tries the bindings in priority order and invokes the handler of
// the first one whose pattern matches the fragment. At most one handler is
// invoked. Returns false if no binding matched.
func (t *RouteTable) Dispatch(fragment string) bool {
	t.mu.RLock()
	currentBinding := t.firstBinding
	t.mu.RUnlock()

	for currentBinding != nil {
		if ctx, ok := currentBinding.tryMatch(fragment); ok {
			currentBinding.Handler.Handle(ctx)
			return true
		}
		currentBinding = currentBinding.Next
	}

	return false
}

// Bindings returns a snapshot of the bindings in the order they are tried.
func (t *RouteTable) Bindings() []*Binding {
	t.mu.RLock()
	defer t.mu.RUnlock()

	bindings := make([]*Binding, 0, t.length)
	for currentBinding := t.firstBinding; currentBinding != nil; currentBinding = currentBinding.Next {
		bindings = append(bindings, currentBinding)
	}
	return bindings
}

// Len returns the number of bindings in the table.
func (t *RouteTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.length
}
