// Package hashroute provides fragment routing for single-page clients.
//
// Hashroute maps location fragments (the part of a URL after '#') to
// handlers, and keeps an in-process current fragment in sync with an
// observable location such as a browser address bar.
//
// # Key Features
//
//   - Route templates with named parameters, splats and optional groups
//   - Most recently registered route wins, so defaults can be overridden
//   - Deduplicated navigation: each fragment transition dispatches once
//   - Pluggable location providers (in-memory, websocket, NATS)
//
// # Quick Start
//
// Create a history over a location provider, register routes through a
// router, then start the history:
//
//	history := hashroute.NewHistory(memorylocation.New(""))
//	router, err := hashroute.NewRouter(history, hashroute.RouterConfig{
//	    Routes: []hashroute.RouteMapping{
//	        {Pattern: "users/:id", Name: "user"},
//	    },
//	    Handlers: map[string]hashroute.Handler{
//	        "user": hashroute.HandlerFunc(func(ctx *hashroute.Context) {
//	            log.Printf("user %s", ctx.Param("id"))
//	        }),
//	    },
//	})
//	history.Start(hashroute.StartOptions{})
//	router.Navigate("users/42", hashroute.WithTrigger())
//
// # Route Templates
//
//	"help"                   // Literal text
//	"users/:id"              // Named parameter, one segment
//	"files/*path"            // Splat, may span '/'
//	"search(/:query)"        // Optional group
//
// Every template also accepts a trailing '?query' which is captured raw as
// the last param. All other params are percent-decoded.
//
// # Location Providers
//
// A History reads and writes the location through a LocationProvider. The
// memorylocation, wslocation and natslocation packages provide
// implementations for tests, remote browsers and shared NATS channels.
package hashroute
