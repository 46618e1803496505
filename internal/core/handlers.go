package core

func (h *Hub) handleUserJoin(c *Client, cmd UserJoin) {
	conn := h.registry.Register(c.ID, cmd.UserID, cmd.Username, cmd.SessionID, h.timestamp())
	h.log.Info().
		Str("conn_id", c.ID).
		Str("user_id", conn.UserID).
		Str("username", conn.Username).
		Str("session_id", conn.SessionID).
		Msg("user joined")

	h.echo(c, &Event{Kind: EventUserJoined, Data: Joined{SessionID: cmd.SessionID}})
}

func (h *Hub) handleMoodUpdate(c *Client, cmd MoodUpdate) {
	h.log.Debug().Str("user_id", cmd.UserID).Str("mood", cmd.Mood).Int("scale", cmd.Scale).Msg("mood update")
	h.broadcastOthers(c, &Event{Kind: EventMoodBroadcast, Data: MoodBroadcast{
		UserID:    cmd.UserID,
		Mood:      cmd.Mood,
		Scale:     cmd.Scale,
		Timestamp: h.timestamp(),
	}})
}

func (h *Hub) handleSendMessage(c *Client, cmd SendMessage) {
	h.log.Debug().Str("user_id", cmd.UserID).Str("session_id", cmd.SessionID).Msg("chat message")
	h.echo(c, &Event{Kind: EventMessageSent, Data: ChatMessage{
		ID:        h.newID(),
		Text:      cmd.Message,
		UserID:    cmd.UserID,
		SessionID: cmd.SessionID,
		Author:    AuthorUser,
		CreatedAt: h.timestamp(),
	}})
}

func (h *Hub) handleAIResponse(c *Client, cmd AIResponse) {
	h.log.Debug().Str("user_id", cmd.UserID).Str("session_id", cmd.SessionID).Msg("ai response")
	h.echo(c, &Event{Kind: EventAIMessage, Data: ChatMessage{
		ID:        h.newID(),
		Text:      cmd.Response,
		UserID:    cmd.UserID,
		SessionID: cmd.SessionID,
		Author:    AuthorAI,
		CreatedAt: h.timestamp(),
	}})
}

func (h *Hub) handleTyping(c *Client, cmd Typing) {
	h.broadcastOthers(c, &Event{Kind: EventUserTyping, Data: TypingState{
		SessionID: cmd.SessionID,
		Typing:    cmd.Active,
	}})
}

func (h *Hub) handleJoinSupport(c *Client, cmd JoinSupport) {
	if h.rooms.Join(cmd.RoomID, c.ID) {
		h.log.Info().Str("conn_id", c.ID).Str("room_id", cmd.RoomID).Msg("joined support room")
	}
	h.echo(c, &Event{Kind: EventSupportJoined, Data: SupportJoined{RoomID: cmd.RoomID}})
}

// Emergency alerts reach every connection, the sender included.
func (h *Hub) handleEmergencyAlert(_ *Client, cmd EmergencyAlert) {
	h.log.Warn().Str("user_id", cmd.UserID).Str("severity", cmd.Severity).Msg("emergency alert")
	h.broadcastAll(&Event{Kind: EventEmergencyNotification, Data: EmergencyNotification{
		UserID:    cmd.UserID,
		Severity:  cmd.Severity,
		Message:   cmd.Message,
		Timestamp: h.timestamp(),
	}})
}

func (h *Hub) handleWellnessCheckin(c *Client, cmd WellnessCheckin) {
	h.log.Debug().Str("user_id", cmd.UserID).Str("status", cmd.Status).Msg("wellness check-in")
	h.broadcastOthers(c, &Event{Kind: EventWellnessUpdate, Data: WellnessUpdate{
		UserID:    cmd.UserID,
		Status:    cmd.Status,
		Notes:     cmd.Notes,
		Timestamp: h.timestamp(),
	}})
}

func (h *Hub) handleHeartbeat(c *Client, _ Heartbeat) {
	h.echo(c, &Event{Kind: EventHeartbeatAck, Data: HeartbeatAck{Timestamp: h.timestamp()}})
}

func (h *Hub) handleMalformed(c *Client, cmd Malformed) {
	code := cmd.Code
	if code == "" {
		code = ErrCodeBadRequest
	}
	h.reportError(c, code, cmd.Detail)
}
