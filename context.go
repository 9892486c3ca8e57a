package hashroute

import "net/url"

// Context is passed to the handler of the route that matched a fragment. It
// carries the fragment, the name of the route and the captured params.
type Context struct {
	fragment  string
	routeName string
	pattern   *Pattern
	params    Params
}

// Fragment returns the canonical fragment being dispatched.
func (c *Context) Fragment() string {
	return c.fragment
}

// RouteName returns the display name the matching route was registered with.
func (c *Context) RouteName() string {
	return c.routeName
}

// Pattern returns the pattern of the matching route.
func (c *Context) Pattern() *Pattern {
	return c.pattern
}

// Params returns all params captured from the fragment, in slot order. The
// last entry is the raw query string.
func (c *Context) Params() Params {
	return c.params
}

// Param returns the decoded value of a named or splat parameter. The lookup
// is case-insensitive. Returns an empty string if the parameter is absent.
func (c *Context) Param(name string) string {
	return c.params.Get(name)
}

// Query returns the raw, undecoded query string of the fragment, if any.
func (c *Context) Query() (string, bool) {
	return c.params.Query()
}

// QueryValues parses the query string of the fragment. An absent query yields
// empty values.
func (c *Context) QueryValues() (url.Values, error) {
	query, _ := c.params.Query()
	return url.ParseQuery(query)
}
