package realtime

import (
	"testing"
	"time"
)

func TestHub_PublishReachesRoomMembersOnly(t *testing.T) {
	h := NewHub(4)

	subA := h.Join("auction:auc-1", "client-a")
	subB := h.Join("auction:auc-1", "client-b")
	subOther := h.Join("auction:auc-2", "client-c")

	h.Publish("auction:auc-1", Event{Name: EventBidUpdate})

	for _, sub := range []*Subscription{subA, subB} {
		select {
		case ev := <-sub.C:
			if ev.Name != EventBidUpdate {
				t.Fatalf("expected bid_update, got %s", ev.Name)
			}
		case <-time.After(time.Second):
			t.Fatal("room member did not receive event")
		}
	}

	select {
	case ev := <-subOther.C:
		t.Fatalf("other room received %s", ev.Name)
	default:
	}
}

func TestHub_SlowSubscriberDropped(t *testing.T) {
	h := NewHub(1)

	slow := h.Join("auction:auc-1", "slow")
	h.Publish("auction:auc-1", Event{Name: EventTimerTick})
	// Buffer full: the next publish must drop the subscriber instead of
	// blocking.
	h.Publish("auction:auc-1", Event{Name: EventTimerTick})

	if size := h.RoomSize("auction:auc-1"); size != 0 {
		t.Fatalf("expected slow subscriber dropped, room size %d", size)
	}

	// Drain: one buffered event, then closed channel.
	if _, ok := <-slow.C; !ok {
		t.Fatal("expected the buffered event before close")
	}
	if _, ok := <-slow.C; ok {
		t.Fatal("expected closed channel after drop")
	}
}

func TestHub_LeaveAndCloseRoom(t *testing.T) {
	h := NewHub(4)

	sub := h.Join("auction:auc-1", "client-a")
	h.Join("auction:auc-1", "client-b")

	h.Leave("auction:auc-1", "client-a")
	if _, ok := <-sub.C; ok {
		t.Fatal("expected closed channel after leave")
	}

	h.CloseRoom("auction:auc-1")
	if size := h.RoomSize("auction:auc-1"); size != 0 {
		t.Fatalf("expected empty room after close, got %d", size)
	}
}

func TestHub_RejoinReplacesSubscription(t *testing.T) {
	h := NewHub(4)

	first := h.Join("auction:auc-1", "client-a")
	h.Join("auction:auc-1", "client-a")

	if _, ok := <-first.C; ok {
		t.Fatal("expected original subscription closed on rejoin")
	}
	if size := h.RoomSize("auction:auc-1"); size != 1 {
		t.Fatalf("expected one subscriber after rejoin, got %d", size)
	}
}
