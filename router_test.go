package hashroute_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/RobertWHurst/hashroute"
	"github.com/RobertWHurst/hashroute/memorylocation"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func setupRouter(t *testing.T, routes []hashroute.RouteMapping) (*hashroute.Router, *memorylocation.Provider, *recorder) {
	t.Helper()
	rec := &recorder{}
	provider := memorylocation.New("")
	history := hashroute.NewHistory(provider)
	router, err := hashroute.NewRouter(history, hashroute.RouterConfig{
		Routes: routes,
		Handlers: map[string]hashroute.Handler{
			"user":    rec.handler("user"),
			"newUser": rec.handler("newUser"),
			"search":  rec.handler("search"),
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := history.Start(hashroute.StartOptions{Silent: true}); err != nil {
		t.Fatal(err)
	}
	return router, provider, rec
}

func TestRouterLaterMappingWins(t *testing.T) {
	router, _, rec := setupRouter(t, []hashroute.RouteMapping{
		{Pattern: "users/:id", Name: "user"},
		{Pattern: "users/new", Name: "newUser"},
	})

	_, _ = router.Navigate("users/new", hashroute.WithTrigger())
	_, _ = router.Navigate("users/9", hashroute.WithTrigger())

	if len(rec.calls) != 2 || rec.calls[0] != "newUser" || rec.calls[1] != "user" {
		t.Errorf("expected [newUser user], got %v", rec.calls)
	}
}

func TestRouterEarlierMappingIsShadowed(t *testing.T) {
	router, _, rec := setupRouter(t, []hashroute.RouteMapping{
		{Pattern: "users/new", Name: "newUser"},
		{Pattern: "users/:id", Name: "user"},
	})

	matched, err := router.Navigate("users/new", hashroute.WithTrigger())
	if err != nil || !matched {
		t.Fatalf("expected navigate to match, got %v, %v", matched, err)
	}
	if len(rec.calls) != 1 || rec.calls[0] != "user" || rec.last().Param("id") != "new" {
		t.Errorf("expected user to fire with id new, got %v", rec.calls)
	}
}

func TestRouterRouteWithHandler(t *testing.T) {
	router, _, rec := setupRouter(t, nil)

	if err := router.Route("files/*path", "file", rec.handler("file")); err != nil {
		t.Fatal(err)
	}
	_, _ = router.Navigate("files/docs/readme.md", hashroute.WithTrigger())

	if len(rec.calls) != 1 || rec.last().Param("path") != "docs/readme.md" {
		t.Errorf("expected file to fire with docs/readme.md, got %v", rec.calls)
	}
	if rec.last().RouteName() != "file" {
		t.Errorf("expected route name file, got %q", rec.last().RouteName())
	}
}

func TestRouterUnknownHandler(t *testing.T) {
	router, _, _ := setupRouter(t, nil)

	if err := router.Route("missing", "missing", nil); !errors.Is(err, hashroute.ErrHandlerNotFound) {
		t.Errorf("expected ErrHandlerNotFound, got %v", err)
	}

	_, err := hashroute.NewRouter(hashroute.NewHistory(memorylocation.New("")), hashroute.RouterConfig{
		Routes: []hashroute.RouteMapping{{Pattern: "a", Name: "a"}},
	})
	if !errors.Is(err, hashroute.ErrHandlerNotFound) {
		t.Errorf("expected ErrHandlerNotFound, got %v", err)
	}
}

func TestRouterMalformedTemplate(t *testing.T) {
	_, err := hashroute.NewRouter(hashroute.NewHistory(memorylocation.New("")), hashroute.RouterConfig{
		Routes:   []hashroute.RouteMapping{{Pattern: "search(/:query", Name: "search"}},
		Handlers: map[string]hashroute.Handler{"search": (&recorder{}).handler("search")},
	})
	if !errors.Is(err, hashroute.ErrMalformedTemplate) {
		t.Errorf("expected ErrMalformedTemplate, got %v", err)
	}
}

func TestRouterReportsFiredRoute(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	provider := memorylocation.New("#search/cats")
	history := hashroute.NewHistory(provider)
	router, err := hashroute.NewRouter(history, hashroute.RouterConfig{
		Routes:   []hashroute.RouteMapping{{Pattern: "search(/:query)", Name: "search"}},
		Handlers: map[string]hashroute.Handler{"search": hashroute.HandlerFunc(func(ctx *hashroute.Context) {})},
		Logger:   zap.New(core),
	})
	if err != nil {
		t.Fatal(err)
	}

	fired := []string{}
	router.OnRoute(func(name string, ctx *hashroute.Context) {
		fired = append(fired, name+":"+ctx.Param("query"))
	})

	if _, err := history.Start(hashroute.StartOptions{}); err != nil {
		t.Fatal(err)
	}
	provider.SetFragment("search")
	provider.SetFragment("elsewhere")

	if len(fired) != 2 || fired[0] != "search:cats" || fired[1] != "search:" {
		t.Errorf("expected [search:cats search:], got %v", fired)
	}

	entries := logs.FilterMessage("route fired").All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 route fired records, got %d", len(entries))
	}
	if entries[0].ContextMap()["route"] != "search" || entries[0].ContextMap()["fragment"] != "search/cats" {
		t.Errorf("unexpected record fields %v", entries[0].ContextMap())
	}
}

func TestRouterRouteDescriptors(t *testing.T) {
	router, _, _ := setupRouter(t, []hashroute.RouteMapping{
		{Pattern: "users/:id", Name: "user"},
		{Pattern: "users/new", Name: "newUser"},
	})

	descriptors := router.RouteDescriptors()
	if len(descriptors) != 2 || descriptors[0].Name != "newUser" || descriptors[1].Name != "user" {
		t.Fatalf("expected descriptors in priority order, got %v", descriptors)
	}

	data, err := json.Marshal(descriptors)
	if err != nil {
		t.Fatal(err)
	}
	expected := `[{"Pattern":"users/new","Name":"newUser"},{"Pattern":"users/:id","Name":"user"}]`
	if string(data) != expected {
		t.Errorf("expected %s, got %s", expected, string(data))
	}

	var decoded []*hashroute.RouteDescriptor
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded[1].Pattern.String() != "users/:id" || decoded[1].Name != "user" {
		t.Errorf("unexpected decoded descriptor %+v", decoded[1])
	}
	if _, ok := decoded[1].Pattern.Match("users/3"); !ok {
		t.Error("expected decoded pattern to be compiled")
	}

	if err := json.Unmarshal([]byte(`[{"Pattern":"a(","Name":"a"}]`), &decoded); !errors.Is(err, hashroute.ErrMalformedTemplate) {
		t.Errorf("expected ErrMalformedTemplate, got %v", err)
	}
}

func TestRouterHistory(t *testing.T) {
	history := hashroute.NewHistory(memorylocation.New(""))
	router, err := hashroute.NewRouter(history, hashroute.RouterConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if router.History() != history {
		t.Error("expected router to expose its history")
	}
	matched, err := router.Navigate("anything", hashroute.WithTrigger())
	if matched || err != nil {
		t.Errorf("expected navigate before start to do nothing, got %v, %v", matched, err)
	}
}
