package memorylocation_test

import (
	"testing"

	"github.com/RobertWHurst/hashroute/memorylocation"
	"github.com/google/go-cmp/cmp"
)

func TestProviderPushAndReplace(t *testing.T) {
	provider := memorylocation.New("#home")

	if err := provider.SetLocation("users", false); err != nil {
		t.Fatal(err)
	}
	if err := provider.SetLocation("users/1", true); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"home", "users/1"}, provider.Entries()); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
	if provider.CurrentFragment() != "#users/1" {
		t.Errorf("expected #users/1, got %q", provider.CurrentFragment())
	}
	if provider.Writes() != 2 {
		t.Errorf("expected 2 writes, got %d", provider.Writes())
	}
}

func TestProviderBackForward(t *testing.T) {
	provider := memorylocation.New("")
	provider.SetFragment("a")
	provider.SetFragment("b")

	notifications := 0
	provider.OnChange(func() { notifications += 1 })

	if !provider.Back() || provider.CurrentFragment() != "#a" {
		t.Fatalf("expected back to #a, got %q", provider.CurrentFragment())
	}
	if !provider.Back() || provider.CurrentFragment() != "#" {
		t.Fatalf("expected back to #, got %q", provider.CurrentFragment())
	}
	if provider.Back() {
		t.Error("expected no entry before the first")
	}
	if !provider.Forward() || provider.CurrentFragment() != "#a" {
		t.Fatalf("expected forward to #a, got %q", provider.CurrentFragment())
	}

	provider.SetFragment("c")
	if diff := cmp.Diff([]string{"", "a", "c"}, provider.Entries()); diff != "" {
		t.Errorf("forward entries should be dropped (-want +got):\n%s", diff)
	}
	if provider.Forward() {
		t.Error("expected no entry after the last")
	}
	if notifications != 4 {
		t.Errorf("expected 4 notifications, got %d", notifications)
	}
}

func TestProviderNotifiesOnlyOnChange(t *testing.T) {
	provider := memorylocation.New("a")

	notifications := 0
	subscription := provider.OnChange(func() { notifications += 1 })

	_ = provider.SetLocation("a", true)
	if notifications != 0 {
		t.Errorf("expected no notification for an unchanged location, got %d", notifications)
	}

	provider.SetFragment("b")
	if notifications != 1 {
		t.Errorf("expected 1 notification, got %d", notifications)
	}

	provider.OffChange(subscription)
	provider.SetFragment("c")
	if notifications != 1 {
		t.Errorf("expected no notification after OffChange, got %d", notifications)
	}
}
