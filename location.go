package hashroute

// Subscription identifies a change listener registered with a
// LocationProvider.
type Subscription string

// LocationProvider is the external, observable location resource that a
// History keeps in sync with. Implementations include an in-memory history
// stack, a browser connected over a websocket, and a NATS channel.
//
// A provider may invoke change listeners synchronously from SetLocation or
// from its own goroutines. History tolerates both.
type LocationProvider interface {
	// CurrentFragment returns the raw current location, for example "#users/1".
	CurrentFragment() string

	// SetLocation moves the location to fragment. If replace is true the
	// current entry is replaced instead of a new one being pushed.
	SetLocation(fragment string, replace bool) error

	// OnChange registers a listener called whenever the location changes.
	OnChange(listener func()) Subscription

	// OffChange removes a listener registered with OnChange.
	OffChange(subscription Subscription)
}
