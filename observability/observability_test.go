package observability_test

import (
	"errors"
	"testing"

	"github.com/wudi/redactkit/observability"
)

func TestCaptureRecordsEvents(t *testing.T) {
	log := &observability.Capture{}
	log.Info("started", observability.Int("ops", 7))
	log.Warn("odd input")

	if len(log.Events) != 2 {
		t.Fatalf("captured %d events, want 2", len(log.Events))
	}
	e := log.Events[0]
	if e.Level != "info" || e.Msg != "started" {
		t.Errorf("event = %+v", e)
	}
	if len(e.Fields) != 1 || e.Fields[0].Key() != "ops" || e.Fields[0].Value() != 7 {
		t.Errorf("fields = %+v", e.Fields)
	}
	if !log.Has("warn", "odd input") {
		t.Error("Has should find the warning")
	}
}

func TestCaptureWithSharesEventList(t *testing.T) {
	root := &observability.Capture{}
	derived := root.With(observability.String("page", "3"))
	derived.Error("bad stream", observability.Error("cause", errors.New("boom")))

	if len(root.Events) != 1 {
		t.Fatalf("root captured %d events, want 1", len(root.Events))
	}
	e := root.Events[0]
	if e.Level != "error" || e.Msg != "bad stream" {
		t.Errorf("event = %+v", e)
	}
	// Bound fields come first, then the call-site fields.
	if len(e.Fields) != 2 || e.Fields[0].Key() != "page" || e.Fields[1].Key() != "cause" {
		t.Errorf("fields = %+v", e.Fields)
	}

	// Deriving twice still lands in the same root list.
	derived.With(observability.Int("attempt", 2)).Warn("retrying")
	if len(root.Events) != 2 {
		t.Fatalf("root captured %d events, want 2", len(root.Events))
	}
	if !root.Has("warn", "retrying") {
		t.Error("Has should find events logged through derived loggers")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	var log observability.Logger = observability.NopLogger{}
	log.With(observability.String("k", "v")).Info("ignored")
}
