package core

// CommandKind identifies an inbound event.
type CommandKind int

const (
	// CommandUserJoin attaches a user identity to the connection.
	CommandUserJoin CommandKind = iota
	// CommandMoodUpdate shares a mood reading with everyone else.
	CommandMoodUpdate
	// CommandSendMessage acknowledges a chat message back to its sender.
	CommandSendMessage
	// CommandAIResponse delivers an AI reply back to the requesting connection.
	CommandAIResponse
	// CommandTyping toggles the typing indicator for a session.
	CommandTyping
	// CommandJoinSupport subscribes the connection to a support room.
	CommandJoinSupport
	// CommandEmergencyAlert raises an alert visible to every connection.
	CommandEmergencyAlert
	// CommandWellnessCheckin shares a wellness status with everyone else.
	CommandWellnessCheckin
	// CommandHeartbeat is a liveness probe.
	CommandHeartbeat
	// CommandMalformed reports an inbound frame that could not be decoded.
	CommandMalformed
)

var commandNames = [...]string{
	CommandUserJoin:        "user_join",
	CommandMoodUpdate:      "mood_update",
	CommandSendMessage:     "send_message",
	CommandAIResponse:      "ai_response",
	CommandTyping:          "typing",
	CommandJoinSupport:     "join_support",
	CommandEmergencyAlert:  "emergency_alert",
	CommandWellnessCheckin: "wellness_checkin",
	CommandHeartbeat:       "heartbeat",
	CommandMalformed:       "malformed",
}

func (k CommandKind) String() string {
	if k < 0 || int(k) >= len(commandNames) {
		return "unknown"
	}
	return commandNames[k]
}

// Command is a decoded inbound event. The concrete types below form a closed set.
type Command interface {
	Kind() CommandKind
}

// UserJoin carries the identity a connection claims.
type UserJoin struct {
	UserID    string
	Username  string
	SessionID string
}

// MoodUpdate is a mood reading on a 0-10 scale.
type MoodUpdate struct {
	UserID string
	Mood   string
	Scale  int
}

// SendMessage is a user chat message.
type SendMessage struct {
	Message   string
	SessionID string
	UserID    string
}

// AIResponse is a generated reply to be shown to the requesting user.
type AIResponse struct {
	Response  string
	SessionID string
	UserID    string
}

// Typing starts or stops the typing indicator.
type Typing struct {
	SessionID string
	Active    bool
}

// JoinSupport requests membership of a support room.
type JoinSupport struct {
	RoomID string
}

// EmergencyAlert is raised by a user in distress.
type EmergencyAlert struct {
	UserID   string
	Severity string
	Message  string
}

// WellnessCheckin is a periodic self-reported status.
type WellnessCheckin struct {
	UserID string
	Status string
	Notes  string
}

// Heartbeat asks the server to confirm the connection is alive.
type Heartbeat struct{}

// Malformed stands in for a frame the transport could not turn into a command.
type Malformed struct {
	Code   string
	Detail string
}

func (UserJoin) Kind() CommandKind        { return CommandUserJoin }
func (MoodUpdate) Kind() CommandKind      { return CommandMoodUpdate }
func (SendMessage) Kind() CommandKind     { return CommandSendMessage }
func (AIResponse) Kind() CommandKind      { return CommandAIResponse }
func (Typing) Kind() CommandKind          { return CommandTyping }
func (JoinSupport) Kind() CommandKind     { return CommandJoinSupport }
func (EmergencyAlert) Kind() CommandKind  { return CommandEmergencyAlert }
func (WellnessCheckin) Kind() CommandKind { return CommandWellnessCheckin }
func (Heartbeat) Kind() CommandKind       { return CommandHeartbeat }
func (Malformed) Kind() CommandKind       { return CommandMalformed }
