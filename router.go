package hashroute

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// RouteMapping declares a route by template and handler name for
// RouterConfig.Routes.
type RouteMapping struct {
	Pattern string
	Name    string
}

// RouterConfig configures a Router created with NewRouter.
type RouterConfig struct {
	// Routes are registered in order, so a mapping declared later takes
	// priority over one declared earlier when both match a fragment.
	Routes []RouteMapping

	// Handlers maps route names to handlers. Routes registered without a
	// handler are resolved here by name.
	Handlers map[string]Handler

	// Logger receives a record for every route that fires. Defaults to a
	// no-op logger.
	Logger *zap.Logger
}

// Router is the application facing side of a History. It registers named
// routes, reports which route fired, and forwards navigation requests.
type Router struct {
	history          *History
	handlers         map[string]Handler
	logger           *zap.Logger
	mu               sync.RWMutex
	routeDescriptors []*RouteDescriptor
	routeObservers   []func(name string, ctx *Context)
}

// NewRouter creates a router bound to history and registers config.Routes.
// Returns the first registration error.
func NewRouter(history *History, config RouterConfig) (*Router, error) {
	if history == nil {
		panic("nil history provided")
	}

	r := &Router{
		history:  history,
		handlers: config.Handlers,
		logger:   config.Logger,
	}
	if r.handlers == nil {
		r.handlers = map[string]Handler{}
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}

	for _, mapping := range config.Routes {
		if err := r.Route(mapping.Pattern, mapping.Name, nil); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Route binds template to handler under the given name, with priority over
// every route registered before it. If handler is nil it is looked up by
// name in RouterConfig.Handlers.
//
//	router.Route("users/:id", "user", nil)
//	router.Route("users/new", "newUser", hashroute.HandlerFunc(newUser))
//
// Returns an error if the template is malformed or the handler can't be
// resolved.
func (r *Router) Route(template string, name string, handler Handler) error {
	if handler == nil {
		resolved, ok := r.handlers[name]
		if !ok || resolved == nil {
			return fmt.Errorf("%w: route %q", ErrHandlerNotFound, name)
		}
		handler = resolved
	}

	pattern, err := NewPattern(template)
	if err != nil {
		return err
	}

	r.history.Route(pattern, name, r.wrapHandler(name, handler))

	r.mu.Lock()
	r.routeDescriptors = append(r.routeDescriptors, &RouteDescriptor{
		Pattern: pattern,
		Name:    name,
	})
	r.mu.Unlock()

	return nil
}

// OnRoute registers an observer called after any route of this router fires.
func (r *Router) OnRoute(observer func(name string, ctx *Context)) {
	if observer == nil {
		panic("nil observer provided")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routeObservers = append(r.routeObservers, observer)
}

// Navigate forwards to History.Navigate.
func (r *Router) Navigate(fragment string, opts ...NavigateOption) (bool, error) {
	return r.history.Navigate(fragment, opts...)
}

// History returns the history the router is bound to.
func (r *Router) History() *History {
	return r.history
}

// RouteDescriptors returns the routes registered through this router, in the
// order they are tried.
func (r *Router) RouteDescriptors() []*RouteDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	descriptors := make([]*RouteDescriptor, len(r.routeDescriptors))
	for i, descriptor := range r.routeDescriptors {
		descriptors[len(descriptors)-1-i] = descriptor
	}
	return descriptors
}

func (r *Router) wrapHandler(name string, handler Handler) Handler {
	return HandlerFunc(func(ctx *Context) {
		handler.Handle(ctx)

		r.logger.Info("route fired",
			zap.String("route", name),
			zap.String("fragment", ctx.Fragment()),
		)

		r.mu.RLock()
		observers := r.routeObservers
		r.mu.RUnlock()
		for _, observer := range observers {
			observer(name, ctx)
		}
	})
}
