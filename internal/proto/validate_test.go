package proto

import (
	"strings"
	"testing"
	"time"
)

func TestValidateUsesJSONNames(t *testing.T) {
	err := Validate(UserJoinData{Username: "Al"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "userId is required") || !strings.Contains(msg, "sessionId is required") {
		t.Fatalf("unexpected message: %q", msg)
	}
	if strings.Contains(msg, "username") {
		t.Fatalf("username was present, got %q", msg)
	}
}

func TestValidateMoodScale(t *testing.T) {
	zero, eleven := 0, 11

	if err := Validate(MoodUpdateData{UserID: "u1", Mood: "low", Scale: &zero}); err != nil {
		t.Fatalf("scale 0 should be accepted: %v", err)
	}
	if err := Validate(MoodUpdateData{UserID: "u1", Mood: "low"}); err == nil || err.Error() != "scale is required" {
		t.Fatalf("missing scale: got %v", err)
	}
	if err := Validate(MoodUpdateData{UserID: "u1", Mood: "high", Scale: &eleven}); err == nil || err.Error() != "scale must be at most 10" {
		t.Fatalf("out of range scale: got %v", err)
	}
}

func TestValidateWellnessNotesOptional(t *testing.T) {
	if err := Validate(WellnessCheckinData{UserID: "u1", Status: "ok"}); err != nil {
		t.Fatalf("empty notes should be accepted: %v", err)
	}
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2025, 3, 14, 11, 26, 53, 120_000_000, time.FixedZone("CEST", 2*3600))
	if got := FormatTimestamp(ts); got != "2025-03-14T09:26:53.120Z" {
		t.Fatalf("FormatTimestamp = %q", got)
	}
}
