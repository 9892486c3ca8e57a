package hashroute

// NavigateOptions configures History.Navigate.
type NavigateOptions struct {
	// Trigger dispatches the new fragment immediately instead of waiting for
	// a change notification.
	Trigger bool

	// Replace replaces the current location entry instead of pushing a new one.
	Replace bool
}

// NavigateOption is a functional option for Navigate.
type NavigateOption func(*NavigateOptions)

// WithTrigger dispatches the fragment to the matching route after updating
// the location.
func WithTrigger() NavigateOption {
	return func(o *NavigateOptions) {
		o.Trigger = true
	}
}

// WithReplace replaces the current location entry instead of pushing.
func WithReplace() NavigateOption {
	return func(o *NavigateOptions) {
		o.Replace = true
	}
}

func navigateOptionsFrom(opts []NavigateOption) NavigateOptions {
	options := NavigateOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
