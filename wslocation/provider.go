// Package wslocation provides a hashroute.LocationProvider whose location
// lives in a remote client, typically a browser, connected over a
// websocket. The client reports its location with "change" messages and is
// moved with "set" messages, encoded with a wire.Codec.
package wslocation

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/RobertWHurst/hashroute"
	"github.com/RobertWHurst/hashroute/wire"
	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultWriteTimeout bounds how long SetLocation waits for a write.
const DefaultWriteTimeout = 5 * time.Second

type listener struct {
	subscription hashroute.Subscription
	fn           func()
}

// Provider is a location provider backed by a websocket connection. Change
// listeners are called from the goroutine running Run.
type Provider struct {
	conn         *websocket.Conn
	codec        wire.Codec
	logger       *zap.Logger
	writeTimeout time.Duration

	mu        sync.Mutex
	fragment  string
	listeners []listener
}

var _ hashroute.LocationProvider = &Provider{}

// Options configures a Provider.
type Options struct {
	// Codec encodes location messages. Defaults to wire.JSON.
	Codec wire.Codec
	// Logger receives malformed message warnings. Defaults to a no-op logger.
	Logger *zap.Logger
	// WriteTimeout defaults to DefaultWriteTimeout.
	WriteTimeout time.Duration
}

// AcceptOptions configures Accept.
type AcceptOptions struct {
	Options
	// OriginPatterns lists the allowed origins. If empty, all origins are
	// allowed (equivalent to []string{"*"}).
	OriginPatterns []string
}

// New creates a provider for an established websocket connection.
func New(conn *websocket.Conn, options *Options) *Provider {
	if options == nil {
		options = &Options{}
	}
	p := &Provider{
		conn:         conn,
		codec:        options.Codec,
		logger:       options.Logger,
		writeTimeout: options.WriteTimeout,
	}
	if p.codec == nil {
		p.codec = wire.JSON
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	if p.writeTimeout <= 0 {
		p.writeTimeout = DefaultWriteTimeout
	}
	return p
}

// Accept upgrades an HTTP request to a websocket connection and returns a
// provider for it. The codec's subprotocol is offered to the client.
func Accept(res http.ResponseWriter, req *http.Request, options *AcceptOptions) (*Provider, error) {
	if options == nil {
		options = &AcceptOptions{}
	}
	codec := options.Codec
	if codec == nil {
		codec = wire.JSON
	}
	origins := options.OriginPatterns
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	conn, err := websocket.Accept(res, req, &websocket.AcceptOptions{
		OriginPatterns: origins,
		Subprotocols:   []string{wire.Subprotocol(codec)},
	})
	if err != nil {
		return nil, err
	}

	providerOptions := options.Options
	providerOptions.Codec = codec
	return New(conn, &providerOptions), nil
}

// ReadInitial blocks until the client reports its location and records it
// without notifying listeners. Call it before starting a history so the
// history captures the client's actual location.
func (p *Provider) ReadInitial(ctx context.Context) error {
	for {
		message, err := p.read(ctx)
		if err != nil {
			return err
		}
		if message == nil {
			continue
		}
		p.mu.Lock()
		p.fragment = message.Fragment
		p.mu.Unlock()
		return nil
	}
}

// Run reads change messages until the connection closes or ctx is done,
// notifying listeners whenever the client's location changed.
func (p *Provider) Run(ctx context.Context) error {
	for {
		message, err := p.read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if message == nil {
			continue
		}

		p.mu.Lock()
		changed := p.fragment != message.Fragment
		p.fragment = message.Fragment
		p.mu.Unlock()

		if changed {
			p.notify()
		}
	}
}

// CurrentFragment returns the last location reported by the client.
func (p *Provider) CurrentFragment() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fragment
}

// SetLocation sends a set message to the client and records fragment as
// the current location.
func (p *Provider) SetLocation(fragment string, replace bool) error {
	data, err := p.codec.Marshal(&wire.Message{
		Type:     wire.SetMessage,
		Fragment: fragment,
		Replace:  replace,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.writeTimeout)
	defer cancel()
	if err := p.conn.Write(ctx, p.messageType(), data); err != nil {
		return err
	}

	p.mu.Lock()
	p.fragment = fragment
	p.mu.Unlock()

	return nil
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

// Close closes the websocket connection with the given status and reason.
func (p *Provider) Close(status websocket.StatusCode, reason string) error {
	return p.conn.Close(status, reason)
}

// read returns the next change message, or nil if the message was skipped.
func (p *Provider) read(ctx context.Context) (*wire.Message, error) {
	_, data, err := p.conn.Read(ctx)
	if err != nil {
		return nil, err
	}

	message := &wire.Message{}
	if err := p.codec.Unmarshal(data, message); err != nil {
		p.logger.Warn("malformed location message", zap.Error(err))
		return nil, nil
	}
	if message.Type != wire.ChangeMessage {
		p.logger.Warn("unexpected location message", zap.String("type", string(message.Type)))
		return nil, nil
	}
	return message, nil
}

func (p *Provider) messageType() websocket.MessageType {
	if p.codec.Binary() {
		return websocket.MessageBinary
	}
	return websocket.MessageText
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
