package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
)

type fakeSender struct {
	name  string
	err   error
	sent  []string
	title string
}

func (f *fakeSender) Send(_ context.Context, title, body string) error {
	if f.err != nil {
		return f.err
	}
	f.title = title
	f.sent = append(f.sent, body)
	return nil
}

func (f *fakeSender) Name() string { return f.name }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotifyFansOutToAllSenders(t *testing.T) {
	a := &fakeSender{name: "a"}
	b := &fakeSender{name: "b"}
	n := New([]Sender{a, b}, nil, testLogger())

	if err := n.Notify(context.Background(), EventMatchSettled, "Match settled", "Hawks 101 : 99 Bulls"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	for _, s := range []*fakeSender{a, b} {
		if len(s.sent) != 1 {
			t.Fatalf("sender %s received %d alerts, want 1", s.name, len(s.sent))
		}
		if s.title != "Match settled" {
			t.Errorf("sender %s title = %q", s.name, s.title)
		}
	}
}

func TestNotifyFiltersDisallowedEvents(t *testing.T) {
	s := &fakeSender{name: "only-settled"}
	n := New([]Sender{s}, []string{EventMatchSettled}, testLogger())

	if err := n.Notify(context.Background(), EventModelEvaluated, "ignored", "ignored"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(s.sent) != 0 {
		t.Fatalf("filtered event was delivered: %v", s.sent)
	}

	if err := n.Notify(context.Background(), EventMatchSettled, "ok", "ok"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(s.sent) != 1 {
		t.Fatalf("allowed event not delivered")
	}
}

func TestNotifyContinuesPastFailingSender(t *testing.T) {
	bad := &fakeSender{name: "bad", err: errors.New("boom")}
	good := &fakeSender{name: "good"}
	n := New([]Sender{bad, good}, nil, testLogger())

	err := n.Notify(context.Background(), EventMatchSettled, "t", "b")
	if err == nil {
		t.Fatal("expected joined error from failing sender")
	}
	if len(good.sent) != 1 {
		t.Fatal("healthy sender skipped after earlier failure")
	}
}
