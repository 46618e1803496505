package proto

import (
	"encoding/json"
	"time"
)

// Inbound event names (client -> server).
const (
	InboundUserJoin        = "user_join"
	InboundMoodUpdate      = "mood_update"
	InboundSendMessage     = "send_message"
	InboundAIResponse      = "ai_response"
	InboundTypingStart     = "typing_start"
	InboundTypingStop      = "typing_stop"
	InboundJoinSupport     = "join_support"
	InboundEmergencyAlert  = "emergency_alert"
	InboundWellnessCheckin = "wellness_checkin"
	InboundHeartbeat       = "heartbeat"
)

// Fixed strings carried by outbound payloads.
const (
	JoinedMessage        = "Connected to MoodSync"
	SupportJoinedMessage = "Connected to support chat"
	ConnectionErrorText  = "Connection error occurred"

	MessageTypeUser = "user"
	MessageTypeAI   = "ai"
)

// TimestampLayout renders server timestamps as millisecond ISO-8601 in UTC.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestamp renders t with TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// UserJoinData attaches an identity to the connection.
type UserJoinData struct {
	UserID    string `json:"userId" validate:"required"`
	Username  string `json:"username" validate:"required"`
	SessionID string `json:"sessionId" validate:"required"`
}

// MoodUpdateData is a mood reading. Scale is a pointer so that 0 counts as present.
type MoodUpdateData struct {
	UserID string `json:"userId" validate:"required"`
	Mood   string `json:"mood" validate:"required"`
	Scale  *int   `json:"scale" validate:"required,min=0,max=10"`
}

// SendMessageData is a chat message the user typed; it is echoed back as message_sent.
type SendMessageData struct {
	Message   string `json:"message" validate:"required"`
	SessionID string `json:"sessionId" validate:"required"`
	UserID    string `json:"userId" validate:"required"`
}

// AIResponseData relays a companion reply to the sender as ai_message.
type AIResponseData struct {
	Response  string `json:"response" validate:"required"`
	SessionID string `json:"sessionId" validate:"required"`
	UserID    string `json:"userId" validate:"required"`
}

// TypingData is shared by typing_start and typing_stop.
type TypingData struct {
	SessionID string `json:"sessionId" validate:"required"`
}

// JoinSupportData names the support room to join.
type JoinSupportData struct {
	RoomID string `json:"roomId" validate:"required"`
}

// EmergencyAlertData raises an alert that every connection receives.
type EmergencyAlertData struct {
	UserID   string `json:"userId" validate:"required"`
	Severity string `json:"severity" validate:"required"`
	Message  string `json:"message" validate:"required"`
}

// WellnessCheckinData carries free-form notes, which may be empty.
type WellnessCheckinData struct {
	UserID string `json:"userId" validate:"required"`
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes"`
}

// UserJoinedData acknowledges user_join.
type UserJoinedData struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

// MoodBroadcastData announces another user's mood reading.
type MoodBroadcastData struct {
	UserID    string `json:"userId"`
	Mood      string `json:"mood"`
	Scale     int    `json:"scale"`
	Timestamp string `json:"timestamp"`
}

// MessageSentData acknowledges send_message with a server id and timestamp.
type MessageSentData struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
}

// AIMessageData delivers a companion reply.
type AIMessageData struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
}

// UserTypingData reports typing_start or typing_stop from another connection.
type UserTypingData struct {
	SessionID string `json:"sessionId"`
	Typing    bool   `json:"typing"`
}

// SupportJoinedData acknowledges join_support.
type SupportJoinedData struct {
	Success bool   `json:"success"`
	RoomID  string `json:"roomId"`
	Message string `json:"message"`
}

// EmergencyNotificationData is the broadcast form of emergency_alert.
type EmergencyNotificationData struct {
	UserID    string `json:"userId"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// WellnessUpdateData announces another user's wellness check-in.
type WellnessUpdateData struct {
	UserID    string `json:"userId"`
	Status    string `json:"status"`
	Notes     string `json:"notes"`
	Timestamp string `json:"timestamp"`
}

// HeartbeatAckData answers heartbeat; Status is always "connected".
type HeartbeatAckData struct {
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
}

// UserLeftData announces that an identified connection went away.
type UserLeftData struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Reason   string `json:"reason"`
}

// ConnectionErrorData reports a rejected inbound event. Code and Detail
// narrow down the generic Error text.
type ConnectionErrorData struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Detail    string `json:"detail,omitempty"`
	Timestamp string `json:"timestamp"`
}
