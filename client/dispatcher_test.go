package client

import "testing"

func TestDispatcher_PublishAndSubscribe(t *testing.T) {
	d := NewDispatcher()

	var got []string
	d.Subscribe("taskCreated", func(payload []byte) {
		got = append(got, string(payload))
	})
	d.Subscribe("taskCreated", func(payload []byte) {
		got = append(got, string(payload))
	})
	d.Subscribe("taskDeleted", func(payload []byte) {
		t.Error("taskDeleted handler should not fire for taskCreated")
	})

	d.Publish("taskCreated", []byte(`{"id":"t-1"}`))

	if len(got) != 2 {
		t.Fatalf("expected both handlers to fire, got %d calls", len(got))
	}
	if got[0] != `{"id":"t-1"}` {
		t.Errorf("unexpected payload %q", got[0])
	}

	// Publishing an event nobody listens to is a no-op.
	d.Publish("unknown", []byte(`{}`))
}

func TestDispatcher_Cancel(t *testing.T) {
	d := NewDispatcher()

	calls := 0
	sub := d.Subscribe("taskUpdated", func([]byte) { calls++ })
	keep := d.Subscribe("taskUpdated", func([]byte) {})

	if got := d.SubscriberCount("taskUpdated"); got != 2 {
		t.Fatalf("expected 2 subscribers, got %d", got)
	}

	sub.Cancel()
	sub.Cancel() // second cancel is a no-op

	if got := d.SubscriberCount("taskUpdated"); got != 1 {
		t.Errorf("expected 1 subscriber after cancel, got %d", got)
	}

	d.Publish("taskUpdated", nil)
	if calls != 0 {
		t.Errorf("cancelled handler fired %d times", calls)
	}

	keep.Cancel()
	if got := d.SubscriberCount("taskUpdated"); got != 0 {
		t.Errorf("expected 0 subscribers, got %d", got)
	}
}

func TestDispatcher_PanickingHandlerDoesNotStopOthers(t *testing.T) {
	d := NewDispatcher()

	fired := false
	d.Subscribe("taskCreated", func([]byte) { panic("boom") })
	d.Subscribe("taskCreated", func([]byte) { fired = true })

	d.Publish("taskCreated", nil)

	if !fired {
		t.Error("expected the remaining handler to run after a panic")
	}
}
