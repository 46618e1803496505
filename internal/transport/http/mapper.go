package http

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/vovakirdan/moodsync-server/internal/core"
	"github.com/vovakirdan/moodsync-server/internal/proto"
)

// decodeFrame turns a raw text frame into a command. Anything that cannot be
// decoded becomes core.Malformed so the hub can report it to the sender.
func decodeFrame(frame []byte) core.Command {
	var inbound proto.Inbound
	if err := json.Unmarshal(frame, &inbound); err != nil {
		return core.Malformed{Code: core.ErrCodeBadRequest, Detail: "invalid JSON: " + err.Error()}
	}
	if inbound.Type == "" {
		return core.Malformed{Code: core.ErrCodeBadRequest, Detail: "type is required"}
	}
	return inboundToCommand(inbound)
}

func inboundToCommand(inbound proto.Inbound) core.Command {
	switch inbound.Type {
	case proto.InboundUserJoin:
		join, bad := decodeData[proto.UserJoinData](inbound)
		if bad != nil {
			return *bad
		}
		return core.UserJoin{UserID: join.UserID, Username: join.Username, SessionID: join.SessionID}
	case proto.InboundMoodUpdate:
		mood, bad := decodeData[proto.MoodUpdateData](inbound)
		if bad != nil {
			return *bad
		}
		return core.MoodUpdate{UserID: mood.UserID, Mood: mood.Mood, Scale: *mood.Scale}
	case proto.InboundSendMessage:
		msg, bad := decodeData[proto.SendMessageData](inbound)
		if bad != nil {
			return *bad
		}
		return core.SendMessage{Message: msg.Message, SessionID: msg.SessionID, UserID: msg.UserID}
	case proto.InboundAIResponse:
		resp, bad := decodeData[proto.AIResponseData](inbound)
		if bad != nil {
			return *bad
		}
		return core.AIResponse{Response: resp.Response, SessionID: resp.SessionID, UserID: resp.UserID}
	case proto.InboundTypingStart, proto.InboundTypingStop:
		typing, bad := decodeData[proto.TypingData](inbound)
		if bad != nil {
			return *bad
		}
		return core.Typing{SessionID: typing.SessionID, Active: inbound.Type == proto.InboundTypingStart}
	case proto.InboundJoinSupport:
		join, bad := decodeData[proto.JoinSupportData](inbound)
		if bad != nil {
			return *bad
		}
		return core.JoinSupport{RoomID: join.RoomID}
	case proto.InboundEmergencyAlert:
		alert, bad := decodeData[proto.EmergencyAlertData](inbound)
		if bad != nil {
			return *bad
		}
		return core.EmergencyAlert{UserID: alert.UserID, Severity: alert.Severity, Message: alert.Message}
	case proto.InboundWellnessCheckin:
		checkin, bad := decodeData[proto.WellnessCheckinData](inbound)
		if bad != nil {
			return *bad
		}
		return core.WellnessCheckin{UserID: checkin.UserID, Status: checkin.Status, Notes: checkin.Notes}
	case proto.InboundHeartbeat:
		return core.Heartbeat{}
	default:
		return core.Malformed{Code: core.ErrCodeBadRequest, Detail: "unknown event type " + strconv.Quote(inbound.Type)}
	}
}

// decodeData unmarshals and validates the payload of inbound. A missing
// payload is treated as an empty object so validation names the absent fields.
func decodeData[T any](inbound proto.Inbound) (T, *core.Malformed) {
	var data T
	raw := inbound.Data
	if len(raw) == 0 || string(raw) == "null" {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, &core.Malformed{Code: core.ErrCodeBadRequest, Detail: inbound.Type + ": " + err.Error()}
	}
	if err := proto.Validate(data); err != nil {
		return data, &core.Malformed{Code: core.ErrCodeBadRequest, Detail: inbound.Type + ": " + err.Error()}
	}
	return data, nil
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	out := proto.Outbound{Type: event.Kind.String()}

	switch data := event.Data.(type) {
	case core.Joined:
		out.Data = proto.UserJoinedData{Success: true, Message: proto.JoinedMessage, SessionID: data.SessionID}
	case core.MoodBroadcast:
		out.Data = proto.MoodBroadcastData{
			UserID:    data.UserID,
			Mood:      data.Mood,
			Scale:     data.Scale,
			Timestamp: proto.FormatTimestamp(data.Timestamp),
		}
	case core.ChatMessage:
		if data.Author == core.AuthorAI {
			out.Data = proto.AIMessageData{
				ID:        data.ID,
				Message:   data.Text,
				SessionID: data.SessionID,
				Timestamp: proto.FormatTimestamp(data.CreatedAt),
				Type:      proto.MessageTypeAI,
			}
			break
		}
		out.Data = proto.MessageSentData{
			ID:        data.ID,
			Message:   data.Text,
			UserID:    data.UserID,
			SessionID: data.SessionID,
			Timestamp: proto.FormatTimestamp(data.CreatedAt),
			Type:      proto.MessageTypeUser,
		}
	case core.TypingState:
		out.Data = proto.UserTypingData{SessionID: data.SessionID, Typing: data.Typing}
	case core.SupportJoined:
		out.Data = proto.SupportJoinedData{Success: true, RoomID: data.RoomID, Message: proto.SupportJoinedMessage}
	case core.EmergencyNotification:
		out.Data = proto.EmergencyNotificationData{
			UserID:    data.UserID,
			Severity:  data.Severity,
			Message:   data.Message,
			Timestamp: proto.FormatTimestamp(data.Timestamp),
		}
	case core.WellnessUpdate:
		out.Data = proto.WellnessUpdateData{
			UserID:    data.UserID,
			Status:    data.Status,
			Notes:     data.Notes,
			Timestamp: proto.FormatTimestamp(data.Timestamp),
		}
	case core.HeartbeatAck:
		out.Data = proto.HeartbeatAckData{Timestamp: proto.FormatTimestamp(data.Timestamp), Status: core.HeartbeatStatus}
	case core.UserLeft:
		out.Data = proto.UserLeftData{UserID: data.UserID, Username: data.Username, Reason: data.Reason}
	case core.ConnectionError:
		out.Data = proto.ConnectionErrorData{
			Error:     proto.ConnectionErrorText,
			Code:      data.Code,
			Detail:    data.Detail,
			Timestamp: proto.FormatTimestamp(data.Timestamp),
		}
	default:
		out.Type = core.EventConnectionError.String()
		out.Data = proto.ConnectionErrorData{
			Error:     proto.ConnectionErrorText,
			Code:      "internal",
			Timestamp: proto.FormatTimestamp(time.Now()),
		}
	}
	return out
}
