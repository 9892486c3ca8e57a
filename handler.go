package hashroute

// Handler is a handler object interface. Any object that implements this
// interface can be bound to a route.
type Handler interface {
	Handle(ctx *Context)
}

// HandlerFunc is a function adapter that allows ordinary functions to be used
// as handlers. This is the most common way to define handlers.
type HandlerFunc func(ctx *Context)

var _ Handler = HandlerFunc(nil)

// Handle calls f(ctx).
func (f HandlerFunc) Handle(ctx *Context) {
	f(ctx)
}
