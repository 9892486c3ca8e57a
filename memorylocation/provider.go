// Package memorylocation provides an in-process hashroute.LocationProvider
// backed by a back/forward history stack. It is useful for tests and for
// driving a router without a browser.
package memorylocation

import (
	"strings"
	"sync"

	"github.com/RobertWHurst/hashroute"
	"github.com/google/uuid"
)

type listener struct {
	subscription hashroute.Subscription
	fn           func()
}

// Provider is an in-memory location. Change listeners are called
// synchronously, after the location changed, from the goroutine that
// changed it.
type Provider struct {
	mu        sync.Mutex
	entries   []string
	index     int
	writes    int
	listeners []listener
}

var _ hashroute.LocationProvider = &Provider{}

// New creates a provider whose only entry is the initial fragment.
func New(initial string) *Provider {
	return &Provider{
		entries: []string{strings.TrimPrefix(initial, "#")},
	}
}

// CurrentFragment returns the current entry with a leading '#', the way a
// browser reports location.hash.
func (p *Provider) CurrentFragment() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return "#" + p.entries[p.index]
}

// SetLocation pushes fragment as a new entry, dropping any forward entries,
// or replaces the current entry if replace is true. Listeners are notified
// if the location changed.
func (p *Provider) SetLocation(fragment string, replace bool) error {
	p.mu.Lock()
	p.writes += 1
	p.mu.Unlock()

	p.move(strings.TrimPrefix(fragment, "#"), replace)
	return nil
}

// SetFragment simulates the user editing the location. It pushes a new
// entry and notifies listeners if the location changed.
func (p *Provider) SetFragment(fragment string) {
	p.move(strings.TrimPrefix(fragment, "#"), false)
}

// Back moves to the previous entry. Returns false if there is none.
func (p *Provider) Back() bool {
	return p.step(-1)
}

// Forward moves to the next entry. Returns false if there is none.
func (p *Provider) Forward() bool {
	return p.step(1)
}

// Entries returns a copy of the history stack.
func (p *Provider) Entries() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	entries := make([]string, len(p.entries))
	copy(entries, p.entries)
	return entries
}

// Writes returns how many times SetLocation has been called.
func (p *Provider) Writes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writes
}

// OnChange registers a change listener.
func (p *Provider) OnChange(fn func()) hashroute.Subscription {
	p.mu.Lock()
	defer p.mu.Unlock()
	subscription := hashroute.Subscription(uuid.NewString())
	p.listeners = append(p.listeners, listener{subscription: subscription, fn: fn})
	return subscription
}

// OffChange removes a change listener. Unknown subscriptions are ignored.
func (p *Provider) OffChange(subscription hashroute.Subscription) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, l := range p.listeners {
		if l.subscription == subscription {
			p.listeners = append(p.listeners[:i], p.listeners[i+1:]...)
			return
		}
	}
}

func (p *Provider) move(fragment string, replace bool) {
	p.mu.Lock()
	previous := p.entries[p.index]
	if replace {
		p.entries[p.index] = fragment
	} else {
		p.entries = append(p.entries[:p.index+1], fragment)
		p.index += 1
	}
	p.mu.Unlock()

	if previous != fragment {
		p.notify()
	}
}

func (p *Provider) step(delta int) bool {
	p.mu.Lock()
	next := p.index + delta
	if next < 0 || next >= len(p.entries) {
		p.mu.Unlock()
		return false
	}
	changed := p.entries[p.index] != p.entries[next]
	p.index = next
	p.mu.Unlock()

	if changed {
		p.notify()
	}
	return true
}

func (p *Provider) notify() {
	p.mu.Lock()
	listeners := make([]listener, len(p.listeners))
	copy(listeners, p.listeners)
	p.mu.Unlock()

	for _, l := range listeners {
		l.fn()
	}
}
