package amqp

import (
	"testing"
	"time"
)

func TestCategorizeMessageRoundTrip(t *testing.T) {
	msg := NewCategorizeMessage("e7a2f0aa-0d4c-4f6f-9f5d-2f2b9a8cc001")

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error: %v", err)
	}

	decoded, err := CategorizeMessageFromJSON(body)
	if err != nil {
		t.Fatalf("CategorizeMessageFromJSON() error: %v", err)
	}
	if decoded.ID != msg.ID {
		t.Errorf("ID = %q, want %q", decoded.ID, msg.ID)
	}
	if !decoded.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", decoded.Timestamp, msg.Timestamp)
	}
	if time.Since(decoded.Timestamp) > time.Minute {
		t.Errorf("Timestamp not recent: %v", decoded.Timestamp)
	}
}

func TestCategorizeMessageFromJSONRejectsGarbage(t *testing.T) {
	if _, err := CategorizeMessageFromJSON([]byte("{broken")); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}
