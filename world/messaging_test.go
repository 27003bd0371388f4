package world

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestMessaging_DeliveredAtCommit(t *testing.T) {
	w := newTestWorld(t, 4, 4)
	sender := spawnAt(t, w, Pos{X: 0, Y: 0})
	receiver := spawnAt(t, w, Pos{X: 2, Y: 2})

	if err := sender.Act(Send(receiver.UID(), "hello")); err != nil {
		t.Fatalf("Act returned error: %v", err)
	}

	_, events := mustTick(t, w)

	sent := filterEvents(events, EventMessageSent)
	if len(sent) != 1 {
		t.Fatalf("expected one message-sent event, got %v", eventNames(events))
	}
	payload := sent[0].Data.(MessageSentPayload)
	if payload.From != sender.UID() || payload.To != receiver.UID() {
		t.Fatalf("unexpected message-sent payload: %+v", payload)
	}

	obs, err := w.Observe(receiver)
	if err != nil {
		t.Fatalf("Observe returned error: %v", err)
	}
	if len(obs.Messages) != 1 {
		t.Fatalf("expected one delivered message, got %d", len(obs.Messages))
	}
	msg := obs.Messages[0]
	if msg.SrcUID != sender.UID() || msg.Payload != "hello" || msg.Tick != 1 {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestMessaging_InboxLivesExactlyOneTick(t *testing.T) {
	w := newTestWorld(t, 4, 4)
	sender := spawnAt(t, w, Pos{X: 0, Y: 0})
	receiver := spawnAt(t, w, Pos{X: 2, Y: 2})

	if err := sender.Act(Send(receiver.UID(), "ping")); err != nil {
		t.Fatalf("Act returned error: %v", err)
	}
	mustTick(t, w)

	obs, err := w.Observe(receiver)
	if err != nil {
		t.Fatalf("Observe returned error: %v", err)
	}
	if len(obs.Messages) != 1 {
		t.Fatalf("expected the message visible after delivery, got %d", len(obs.Messages))
	}

	mustTick(t, w)
	obs, err = w.Observe(receiver)
	if err != nil {
		t.Fatalf("Observe returned error: %v", err)
	}
	if len(obs.Messages) != 0 {
		t.Fatalf("expected the inbox cleared on the next tick, got %d", len(obs.Messages))
	}
}

func TestMessaging_PayloadTruncatedAtLimit(t *testing.T) {
	w := newTestWorld(t, 4, 4)
	sender := spawnAt(t, w, Pos{X: 0, Y: 0})
	receiver := spawnAt(t, w, Pos{X: 2, Y: 2})

	long := strings.Repeat("x", MaxMessageLen+50)
	if err := sender.Act(Send(receiver.UID(), long)); err != nil {
		t.Fatalf("Act returned error: %v", err)
	}
	mustTick(t, w)

	obs, err := w.Observe(receiver)
	if err != nil {
		t.Fatalf("Observe returned error: %v", err)
	}
	if len(obs.Messages) != 1 {
		t.Fatalf("expected one delivered message, got %d", len(obs.Messages))
	}
	if got := len(obs.Messages[0].Payload); got != MaxMessageLen {
		t.Fatalf("expected payload truncated to %d, got %d", MaxMessageLen, got)
	}
}

func TestMessaging_TruncationCountsRunesNotBytes(t *testing.T) {
	w := newTestWorld(t, 4, 4)
	sender := spawnAt(t, w, Pos{X: 0, Y: 0})
	receiver := spawnAt(t, w, Pos{X: 2, Y: 2})

	// Three bytes per rune: a byte-boundary cut would split a character.
	long := strings.Repeat("界", MaxMessageLen+10)
	if err := sender.Act(Send(receiver.UID(), long)); err != nil {
		t.Fatalf("Act returned error: %v", err)
	}
	mustTick(t, w)

	obs, err := w.Observe(receiver)
	if err != nil {
		t.Fatalf("Observe returned error: %v", err)
	}
	if len(obs.Messages) != 1 {
		t.Fatalf("expected one delivered message, got %d", len(obs.Messages))
	}
	payload := obs.Messages[0].Payload
	if !utf8.ValidString(payload) {
		t.Fatalf("truncated payload is not valid UTF-8")
	}
	if got := utf8.RuneCountInString(payload); got != MaxMessageLen {
		t.Fatalf("expected %d runes, got %d", MaxMessageLen, got)
	}
}

func TestMessaging_AbsentRecipientDropsMessage(t *testing.T) {
	w := newTestWorld(t, 4, 4)
	sender := spawnAt(t, w, Pos{X: 0, Y: 0})

	if err := sender.Act(Send(999, "anyone there")); err != nil {
		t.Fatalf("Act returned error: %v", err)
	}
	_, events := mustTick(t, w)

	dropped := filterEvents(events, EventMessageDropped)
	if len(dropped) != 1 {
		t.Fatalf("expected one message-dropped event, got %v", eventNames(events))
	}
	payload := dropped[0].Data.(MessageDroppedPayload)
	if payload.From != sender.UID() || payload.To != 999 {
		t.Fatalf("unexpected message-dropped payload: %+v", payload)
	}
	if len(filterEvents(events, EventMessageSent)) != 0 {
		t.Fatalf("expected no message-sent event, got %v", eventNames(events))
	}
}

func TestMessaging_DeliveryOrderFollowsSenderUID(t *testing.T) {
	w := newTestWorld(t, 6, 6)
	first := spawnAt(t, w, Pos{X: 0, Y: 0})
	second := spawnAt(t, w, Pos{X: 2, Y: 0})
	receiver := spawnAt(t, w, Pos{X: 4, Y: 0})

	// Submission order is reversed on purpose: delivery follows uid order,
	// not Act call order.
	if err := second.Act(Send(receiver.UID(), "from-second")); err != nil {
		t.Fatalf("Act returned error: %v", err)
	}
	if err := first.Act(Send(receiver.UID(), "from-first")); err != nil {
		t.Fatalf("Act returned error: %v", err)
	}
	mustTick(t, w)

	obs, err := w.Observe(receiver)
	if err != nil {
		t.Fatalf("Observe returned error: %v", err)
	}
	if len(obs.Messages) != 2 {
		t.Fatalf("expected two delivered messages, got %d", len(obs.Messages))
	}
	if obs.Messages[0].SrcUID != first.UID() || obs.Messages[1].SrcUID != second.UID() {
		t.Fatalf("expected sender-uid delivery order, got %d then %d",
			obs.Messages[0].SrcUID, obs.Messages[1].SrcUID)
	}
}

func TestMessaging_SelfSendDelivers(t *testing.T) {
	w := newTestWorld(t, 4, 4)
	a := spawnAt(t, w, Pos{X: 1, Y: 1})

	if err := a.Act(Send(a.UID(), "note to self")); err != nil {
		t.Fatalf("Act returned error: %v", err)
	}
	mustTick(t, w)

	obs, err := w.Observe(a)
	if err != nil {
		t.Fatalf("Observe returned error: %v", err)
	}
	if len(obs.Messages) != 1 || obs.Messages[0].SrcUID != a.UID() {
		t.Fatalf("expected self-delivered message, got %+v", obs.Messages)
	}
}
