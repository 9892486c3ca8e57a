package hashroute_test

import (
	"errors"
	"testing"

	"github.com/RobertWHurst/hashroute"
)

type recorder struct {
	calls []string
	ctxs  []*hashroute.Context
}

func (r *recorder) handler(name string) hashroute.Handler {
	return hashroute.HandlerFunc(func(ctx *hashroute.Context) {
		r.calls = append(r.calls, name)
		r.ctxs = append(r.ctxs, ctx)
	})
}

func (r *recorder) last() *hashroute.Context {
	if len(r.ctxs) == 0 {
		return nil
	}
	return r.ctxs[len(r.ctxs)-1]
}

func TestRouteTableDispatch(t *testing.T) {
	rec := &recorder{}
	table := hashroute.NewRouteTable()
	if err := table.Register("users/:id", "user", rec.handler("user")); err != nil {
		t.Fatal(err)
	}

	if !table.Dispatch("users/42") {
		t.Fatal("expected users/42 to match")
	}
	ctx := rec.last()
	if ctx.Param("id") != "42" || ctx.RouteName() != "user" || ctx.Fragment() != "users/42" {
		t.Errorf("unexpected context: id=%q name=%q fragment=%q", ctx.Param("id"), ctx.RouteName(), ctx.Fragment())
	}
	if ctx.Pattern().String() != "users/:id" {
		t.Errorf("unexpected pattern %q", ctx.Pattern().String())
	}
}

func TestRouteTableNoMatch(t *testing.T) {
	rec := &recorder{}
	table := hashroute.NewRouteTable()
	if err := table.Register("users/:id", "user", rec.handler("user")); err != nil {
		t.Fatal(err)
	}

	if table.Dispatch("posts/1") {
		t.Error("expected posts/1 not to match")
	}
	if len(rec.calls) != 0 {
		t.Errorf("expected no handler to fire, got %v", rec.calls)
	}
	if hashroute.NewRouteTable().Dispatch("") {
		t.Error("expected an empty table not to match")
	}
}

func TestRouteTableLaterRegistrationWins(t *testing.T) {
	rec := &recorder{}
	table := hashroute.NewRouteTable()
	_ = table.Register("users/:id", "A", rec.handler("A"))
	_ = table.Register("users/new", "B", rec.handler("B"))

	table.Dispatch("users/new")
	table.Dispatch("users/7")

	if len(rec.calls) != 2 || rec.calls[0] != "B" || rec.calls[1] != "A" {
		t.Errorf("expected [B A], got %v", rec.calls)
	}
}

func TestRouteTableEarlierLiteralIsShadowed(t *testing.T) {
	rec := &recorder{}
	table := hashroute.NewRouteTable()
	_ = table.Register("users/new", "B", rec.handler("B"))
	_ = table.Register("users/:id", "A", rec.handler("A"))

	table.Dispatch("users/new")

	if len(rec.calls) != 1 || rec.calls[0] != "A" {
		t.Errorf("expected only A to fire, got %v", rec.calls)
	}
}

func TestRouteTableRegisterMalformed(t *testing.T) {
	table := hashroute.NewRouteTable()
	err := table.Register("users/(:id", "user", (&recorder{}).handler("user"))
	if !errors.Is(err, hashroute.ErrMalformedTemplate) {
		t.Errorf("expected ErrMalformedTemplate, got %v", err)
	}
	if table.Len() != 0 {
		t.Errorf("expected nothing to be registered, got %d bindings", table.Len())
	}
}

func TestRouteTableBindings(t *testing.T) {
	table := hashroute.NewRouteTable()
	rec := &recorder{}
	_ = table.Register("a", "a", rec.handler("a"))
	_ = table.Register("b", "b", rec.handler("b"))
	table.RegisterPattern(hashroute.MustPattern("c"), "c", rec.handler("c"))

	bindings := table.Bindings()
	if len(bindings) != 3 || table.Len() != 3 {
		t.Fatalf("expected 3 bindings, got %d", len(bindings))
	}
	for i, name := range []string{"c", "b", "a"} {
		if bindings[i].Name != name {
			t.Errorf("expected binding %d to be %q, got %q", i, name, bindings[i].Name)
		}
	}
}

func TestRouteTableHandlerMayRegister(t *testing.T) {
	table := hashroute.NewRouteTable()
	rec := &recorder{}
	_ = table.Register("setup", "setup", hashroute.HandlerFunc(func(ctx *hashroute.Context) {
		_ = table.Register("late", "late", rec.handler("late"))
	}))

	table.Dispatch("setup")
	if !table.Dispatch("late") {
		t.Error("expected route registered from a handler to match")
	}
}

func TestRouteTableRenderedFragmentsDispatch(t *testing.T) {
	pattern := hashroute.MustPattern("orgs/:org/members/:member")
	rec := &recorder{}
	table := hashroute.NewRouteTable()
	table.RegisterPattern(pattern, "member", rec.handler("member"))

	for _, value := range []string{"acme", "Acme Inc", "a%b", "東京", "x:y", "tab\tsep"} {
		fragment, err := pattern.Path(map[string]string{"org": value, "member": value})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !table.Dispatch(fragment) {
			t.Fatalf("expected %q to match", fragment)
		}
		ctx := rec.last()
		if ctx.Param("org") != value || ctx.Param("member") != value {
			t.Errorf("expected %q, got org=%q member=%q", value, ctx.Param("org"), ctx.Param("member"))
		}
	}
}

func TestContextQueryValues(t *testing.T) {
	rec := &recorder{}
	table := hashroute.NewRouteTable()
	_ = table.Register("search", "search", rec.handler("search"))

	table.Dispatch("search?q=hello%20world&page=2")
	ctx := rec.last()

	raw, ok := ctx.Query()
	if !ok || raw != "q=hello%20world&page=2" {
		t.Errorf("expected raw query, got %q", raw)
	}
	values, err := ctx.QueryValues()
	if err != nil {
		t.Fatal(err)
	}
	if values.Get("q") != "hello world" || values.Get("page") != "2" {
		t.Errorf("unexpected query values %v", values)
	}

	table.Dispatch("search")
	values, err = rec.last().QueryValues()
	if err != nil || len(values) != 0 {
		t.Errorf("expected empty query values, got %v, %v", values, err)
	}
}
