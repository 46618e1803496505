package core

// Error codes carried by connection_error events.
const (
	ErrCodeBadRequest  = "bad_request"
	ErrCodeRateLimited = "rate_limited"
	ErrCodeUnsupported = "unsupported_frame"
)

// Disconnect reasons reported in user_left.
const (
	ReasonClientDisconnect = "client namespace disconnect"
	ReasonTransportClose   = "transport close"
	ReasonTransportError   = "transport error"
	ReasonServerShutdown   = "server shutting down"
)

// HeartbeatStatus is the fixed status string of a heartbeat_ack.
const HeartbeatStatus = "connected"
