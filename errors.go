package hashroute

import "errors"

var (
	// ErrAlreadyStarted is returned by History.Start when the history has
	// already been started. It is safe to ignore.
	ErrAlreadyStarted = errors.New("history already started")

	// ErrMalformedTemplate is wrapped by errors returned from NewPattern when
	// a route template cannot be translated.
	ErrMalformedTemplate = errors.New("malformed route template")

	// ErrHandlerNotFound is returned by Router.Route when no handler is given
	// and none is registered under the route name.
	ErrHandlerNotFound = errors.New("handler not found")

	// ErrMissingParam is wrapped by errors returned from Pattern.Path when a
	// required parameter has no value.
	ErrMissingParam = errors.New("missing required parameter")
)
