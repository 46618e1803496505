package core

import "time"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventUserJoined confirms a user_join to its sender.
	EventUserJoined EventKind = iota
	// EventMoodBroadcast relays a mood update to other connections.
	EventMoodBroadcast
	// EventMessageSent echoes a user chat message.
	EventMessageSent
	// EventAIMessage echoes an AI reply.
	EventAIMessage
	// EventUserTyping relays typing state to other connections.
	EventUserTyping
	// EventSupportJoined confirms a support room join.
	EventSupportJoined
	// EventEmergencyNotification relays an emergency alert to every connection.
	EventEmergencyNotification
	// EventWellnessUpdate relays a wellness check-in to other connections.
	EventWellnessUpdate
	// EventHeartbeatAck answers a heartbeat.
	EventHeartbeatAck
	// EventUserLeft announces that an identified user disconnected.
	EventUserLeft
	// EventConnectionError reports a non-fatal problem with an inbound event.
	EventConnectionError
)

var eventNames = [...]string{
	EventUserJoined:            "user_joined",
	EventMoodBroadcast:         "mood_broadcast",
	EventMessageSent:           "message_sent",
	EventAIMessage:             "ai_message",
	EventUserTyping:            "user_typing",
	EventSupportJoined:         "support_joined",
	EventEmergencyNotification: "emergency_notification",
	EventWellnessUpdate:        "wellness_update",
	EventHeartbeatAck:          "heartbeat_ack",
	EventUserLeft:              "user_left",
	EventConnectionError:       "connection_error",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[k]
}

// Event is sent to clients to describe what happened in the system.
// Data holds the payload type matching Kind.
type Event struct {
	Kind EventKind
	Data any
}

// Joined is the payload of EventUserJoined.
type Joined struct {
	SessionID string
}

// MoodBroadcast is the payload of EventMoodBroadcast.
type MoodBroadcast struct {
	UserID    string
	Mood      string
	Scale     int
	Timestamp time.Time
}

// TypingState is the payload of EventUserTyping.
type TypingState struct {
	SessionID string
	Typing    bool
}

// SupportJoined is the payload of EventSupportJoined.
type SupportJoined struct {
	RoomID string
}

// EmergencyNotification is the payload of EventEmergencyNotification.
type EmergencyNotification struct {
	UserID    string
	Severity  string
	Message   string
	Timestamp time.Time
}

// WellnessUpdate is the payload of EventWellnessUpdate.
type WellnessUpdate struct {
	UserID    string
	Status    string
	Notes     string
	Timestamp time.Time
}

// HeartbeatAck is the payload of EventHeartbeatAck.
type HeartbeatAck struct {
	Timestamp time.Time
}

// UserLeft is the payload of EventUserLeft.
type UserLeft struct {
	UserID   string
	Username string
	Reason   string
}

// ConnectionError is the payload of EventConnectionError.
type ConnectionError struct {
	Code      string
	Detail    string
	Timestamp time.Time
}
