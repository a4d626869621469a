package notify

import (
	"bytes"
	"testing"
	"time"
)

func newTestBell(debounce time.Duration, events ...string) (*Bell, *bytes.Buffer) {
	var buf bytes.Buffer
	b := NewBell(debounce, events)
	b.SetOutput(&buf)
	return b, &buf
}

func TestBell_RingOnTriggerEvent(t *testing.T) {
	b, out := newTestBell(5*time.Second, "finish")
	now := time.Now()

	if !b.Ring("finish", now) {
		t.Error("finish should trigger bell")
	}
	if out.String() != "\a" {
		t.Errorf("output = %q, want BEL", out.String())
	}
}

func TestBell_NoRingOnOtherEvents(t *testing.T) {
	b, out := newTestBell(5*time.Second, "finish")
	now := time.Now()

	if b.Ring("sleep", now) {
		t.Error("sleep should not trigger bell")
	}
	if b.Ring("countdown", now) {
		t.Error("countdown should not trigger bell")
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestBell_Debounce(t *testing.T) {
	b, _ := newTestBell(5*time.Second, "finish")
	now := time.Now()

	// First ring should succeed
	if !b.Ring("finish", now) {
		t.Error("first ring should succeed")
	}

	// Second ring within debounce should fail
	if b.Ring("finish", now.Add(2*time.Second)) {
		t.Error("ring within debounce window should be suppressed")
	}

	// Ring after debounce should succeed
	if !b.Ring("finish", now.Add(6*time.Second)) {
		t.Error("ring after debounce window should succeed")
	}
}

func TestBell_Nil(t *testing.T) {
	var b *Bell
	if b.Ring("finish", time.Now()) {
		t.Error("nil bell should never ring")
	}
}
