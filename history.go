package hashroute

import (
	"strings"
	"sync"
	"unicode"

	"go.uber.org/zap"
)

// StartOptions configures History.Start.
type StartOptions struct {
	// Root is the path the application is served from. Defaults to "/".
	Root string

	// Silent skips dispatching the current fragment on start.
	Silent bool
}

func (o StartOptions) withDefaults() StartOptions {
	if o.Root == "" {
		o.Root = "/"
	}
	return o
}

// HistoryOption configures a History created with NewHistory.
type HistoryOption func(*History)

// WithLogger sets the logger used by the history. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) HistoryOption {
	return func(h *History) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// History keeps the current fragment in sync with a LocationProvider and
// dispatches fragment changes to its route table.
//
// A History starts exactly once. Each distinct fragment transition is
// dispatched at most once, whether it came from Navigate or from a change
// notification of the provider. History is safe for concurrent use.
type History struct {
	mu           sync.Mutex
	provider     LocationProvider
	routes       *RouteTable
	logger       *zap.Logger
	started      bool
	root         string
	fragment     string
	version      uint64
	subscription Subscription
	subscribed   bool
}

// NewHistory creates a history bound to the given location provider. It
// does nothing until Start is called.
func NewHistory(provider LocationProvider, opts ...HistoryOption) *History {
	if provider == nil {
		panic("nil location provider")
	}
	h := &History{
		provider: provider,
		routes:   NewRouteTable(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Start records the root, captures the current fragment, subscribes to the
// provider's change notifications and, unless options.Silent is set,
// dispatches the current fragment. It returns whether that dispatch matched
// a route.
//
// Starting a history twice returns ErrAlreadyStarted and changes nothing.
func (h *History) Start(options StartOptions) (bool, error) {
	options = options.withDefaults()
	fragment := h.GetFragment()

	h.mu.Lock()
	if h.started {
		h.mu.Unlock()
		h.logger.Warn("history already started")
		return false, ErrAlreadyStarted
	}
	h.started = true
	h.root = options.Root
	h.storeFragment(fragment)
	h.mu.Unlock()

	subscription := h.provider.OnChange(h.handleChange)

	h.mu.Lock()
	h.subscription = subscription
	h.subscribed = true
	h.mu.Unlock()

	h.logger.Info("history started",
		zap.String("root", options.Root),
		zap.String("fragment", fragment),
		zap.Bool("silent", options.Silent),
	)

	if options.Silent {
		return false, nil
	}
	return h.LoadURL(), nil
}

// Stop unsubscribes from the provider's change notifications. The history
// remains started; Navigate keeps working but external changes are no
// longer dispatched.
func (h *History) Stop() {
	h.mu.Lock()
	if !h.subscribed {
		h.mu.Unlock()
		return
	}
	subscription := h.subscription
	h.subscribed = false
	h.subscription = ""
	h.mu.Unlock()

	h.provider.OffChange(subscription)
	h.logger.Info("history stopped")
}

// Started reports whether Start has been called successfully.
func (h *History) Started() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.started
}

// Root returns the root recorded by Start.
func (h *History) Root() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.root
}

// Fragment returns the stored current fragment.
func (h *History) Fragment() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fragment
}

// Routes returns the route table the history dispatches to.
func (h *History) Routes() *RouteTable {
	return h.routes
}

// Route binds a compiled pattern to a handler with the highest priority.
func (h *History) Route(pattern *Pattern, name string, handler Handler) {
	h.routes.RegisterPattern(pattern, name, handler)
}

// GetFragment reads the provider's current location and returns it in
// canonical form.
func (h *History) GetFragment() string {
	return CanonicalFragment(h.provider.CurrentFragment())
}

// CheckURL compares the provider's location with the stored fragment and
// dispatches it if it changed. It is called for every change notification.
// Returns whether a route matched.
//
// If the stored fragment is replaced while the provider is being read, the
// read is stale and CheckURL does nothing.
func (h *History) CheckURL() bool {
	h.mu.Lock()
	version := h.version
	h.mu.Unlock()

	current := h.GetFragment()

	h.mu.Lock()
	if h.version != version {
		h.mu.Unlock()
		h.logger.Debug("fragment changed during check", zap.String("fragment", current))
		return false
	}
	if current == h.fragment {
		h.mu.Unlock()
		h.logger.Debug("fragment unchanged", zap.String("fragment", current))
		return false
	}
	h.storeFragment(current)
	h.mu.Unlock()

	return h.dispatch(current)
}

// LoadURL stores the provider's current fragment and dispatches it. Returns
// whether a route matched.
func (h *History) LoadURL() bool {
	return h.LoadFragment(h.provider.CurrentFragment())
}

// LoadFragment stores the canonical form of fragment as the current fragment
// and dispatches it. Returns whether a route matched.
func (h *History) LoadFragment(fragment string) bool {
	fragment = CanonicalFragment(fragment)

	h.mu.Lock()
	h.storeFragment(fragment)
	h.mu.Unlock()

	return h.dispatch(fragment)
}

// Navigate moves the provider to fragment. It does nothing and returns false
// if the history has not been started or if fragment is already the current
// fragment. The stored fragment is updated before the provider is written
// so that the change notification the write causes is not dispatched again.
//
// With WithTrigger the fragment is dispatched immediately and the result
// reports whether a route matched. The error is the provider's write error.
//
//	history.Navigate("users/42", hashroute.WithTrigger())
//	history.Navigate("login", hashroute.WithReplace())
func (h *History) Navigate(fragment string, opts ...NavigateOption) (bool, error) {
	return h.NavigateWithOptions(fragment, navigateOptionsFrom(opts))
}

// NavigateWithOptions is like Navigate but takes the options as a struct.
func (h *History) NavigateWithOptions(fragment string, options NavigateOptions) (bool, error) {
	fragment = stripInnerFragment(CanonicalFragment(fragment))

	h.mu.Lock()
	if !h.started {
		h.mu.Unlock()
		return false, nil
	}
	if h.fragment == fragment {
		h.mu.Unlock()
		h.logger.Debug("navigation to current fragment ignored", zap.String("fragment", fragment))
		return false, nil
	}
	previous := h.fragment
	h.storeFragment(fragment)
	url := joinRoot(h.root, fragment)
	h.mu.Unlock()

	h.logger.Debug("navigating",
		zap.String("fragment", fragment),
		zap.String("url", url),
		zap.Bool("replace", options.Replace),
		zap.Bool("trigger", options.Trigger),
	)

	if err := h.provider.SetLocation(fragment, options.Replace); err != nil {
		h.mu.Lock()
		if h.fragment == fragment {
			h.storeFragment(previous)
		}
		h.mu.Unlock()
		return false, err
	}

	if options.Trigger {
		return h.LoadFragment(fragment), nil
	}
	return false, nil
}

// URL returns the location fragment would have under the history's root.
// An empty fragment yields the root without its trailing slash.
func (h *History) URL(fragment string) string {
	h.mu.Lock()
	root := h.root
	h.mu.Unlock()
	if root == "" {
		root = "/"
	}
	return joinRoot(root, stripInnerFragment(CanonicalFragment(fragment)))
}

// storeFragment must be called with h.mu held.
func (h *History) storeFragment(fragment string) {
	h.fragment = fragment
	h.version++
}

func (h *History) handleChange() {
	h.CheckURL()
}

func (h *History) dispatch(fragment string) bool {
	if !h.routes.Dispatch(fragment) {
		h.logger.Debug("no route matched", zap.String("fragment", fragment))
		return false
	}
	return true
}

// CanonicalFragment strips one leading '#' or '/', and any trailing
// whitespace, from a raw location string.
func CanonicalFragment(raw string) string {
	if len(raw) > 0 && (raw[0] == '#' || raw[0] == '/') {
		raw = raw[1:]
	}
	return strings.TrimRightFunc(raw, unicode.IsSpace)
}

func stripInnerFragment(fragment string) string {
	if i := strings.IndexByte(fragment, '#'); i >= 0 {
		return fragment[:i]
	}
	return fragment
}

func joinRoot(root string, fragment string) string {
	url := root + fragment
	if fragment == "" && url != "/" {
		url = strings.TrimSuffix(url, "/")
	}
	return url
}
