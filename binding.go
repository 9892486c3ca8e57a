package hashroute

// Binding associates a compiled pattern with the handler it dispatches to.
// Bindings form a linked list held by a RouteTable, highest priority first.
// A binding is never mutated once it has been added to a table.
type Binding struct {
	Pattern *Pattern
	Name    string
	Handler Handler
	Next    *Binding
}

func (b *Binding) tryMatch(fragment string) (*Context, bool) {
	params, ok := b.Pattern.Match(fragment)
	if !ok {
		return nil, false
	}
	return &Context{
		fragment:  fragment,
		routeName: b.Name,
		pattern:   b.Pattern,
		params:    params,
	}, true
}
