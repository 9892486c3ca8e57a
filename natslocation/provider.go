// Package natslocation provides a hashroute.LocationProvider that shares a
// location over NATS. Whoever owns the location publishes "change" messages
// on the channel's changed subject and follows "set" messages published on
// its set subject.
package natslocation

import (
	"strings"
	"sync"

	"github.com/RobertWHurst/hashroute"
	"github.com/RobertWHurst/hashroute/wire"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

type listener struct {
	subscription hashroute.Subscription
	fn           func()
}

// Options configures a Provider.
type Options struct {
	// Codec encodes location messages. Defaults to wire.JSON.
	Codec wire.Codec
	// Logger receives malformed message warnings. Defaults to a no-op logger.
	Logger *zap.Logger
	// Initial is the location assumed until the first change message.
	Initial string
}

// Provider is a location provider backed by a NATS channel. Change
// listeners are called from the NATS subscription goroutine.
type Provider struct {
	NatsConnection *nats.Conn
	channel        string
	codec          wire.Codec
	logger         *zap.Logger
	unbindChange   func()

	mu        sync.Mutex
	fragment  string
	listeners []listener
}

var _ hashroute.LocationProvider = &Provider{}

// New creates a provider for channel and subscribes to its changed subject.
func New(conn *nats.Conn, channel string, options *Options) (*Provider, error) {
	p := newProvider(channel, options)
	p.NatsConnection = conn

	sub, err := conn.Subscribe(ChangedSubject(channel), p.handleChange)
	if err != nil {
		return nil, err
	}
	p.unbindChange = func() {
		_ = sub.Unsubscribe()
	}

	return p, nil
}

func newProvider(channel string, options *Options) *Provider {
	if options == nil {
		options = &Options{}
	}
	p := &Provider{
		channel:      channel,
		codec:        options.Codec,
		logger:       options.Logger,
		fragment:     options.Initial,
		unbindChange: func() {},
	}
	if p.codec == nil {
		p.codec = wire.JSON
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	return p
}

// ChangedSubject is the subject change messages for channel are published on.
func ChangedSubject(channel string) string {
	return namespace("changed", channel)
}

// SetSubject is the subject set messages for channel are published on.
func SetSubject(channel string) string {
	return namespace("set", channel)
}

func namespace(parts ...string) string {
	return "hashroute.location." + strings.Join(parts, ".")
}

// CurrentFragment returns the last location announced on the channel.
func (p *Provider) CurrentFragment() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fragment
}

// SetLocation publishes a set message and records fragment as the current
// location.
func (p *Provider) SetLocation(fragment string, replace bool) error {
	data, err := p.codec.Marshal(&wire.Message{
		Type:     wire.SetMessage,
		Fragment: fragment,
		Replace:  replace,
	})
	if err != nil {
		return err
	}
	if err := p.NatsConnection.Publish(SetSubject(p.channel), data); err != nil {
		return err
	}

	p.mu.Lock()
	p.fragment = fragment
	p.mu.Unlock()

	return nil
}

// Announce publishes a change message for the channel, as the owner of the
// location does when it moves.
func (p *Provider) Announce(fragment string) error {
	data, err := p.codec.Marshal(&wire.Message{
		Type:     wire.ChangeMessage,
		Fragment: fragment,
	})
	if err != nil {
		return err
	}
	return p.NatsConnection.Publish(ChangedSubject(p.channel), data)
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

// Close unsubscribes from the channel.
func (p *Provider) Close() {
	p.unbindChange()
}

func (p *Provider) handleChange(msg *nats.Msg) {
	message := &wire.Message{}
	if err := p.codec.Unmarshal(msg.Data, message); err != nil {
		p.logger.Warn("malformed location message", zap.String("subject", msg.Subject), zap.Error(err))
		return
	}
	if message.Type != wire.ChangeMessage {
		p.logger.Warn("unexpected location message", zap.String("type", string(message.Type)))
		return
	}

	p.mu.Lock()
	changed := p.fragment != message.Fragment
	p.fragment = message.Fragment
	listeners := make([]listener, len(p.listeners))
	copy(listeners, p.listeners)
	p.mu.Unlock()

	if !changed {
		return
	}
	for _, l := range listeners {
		l.fn()
	}
}
