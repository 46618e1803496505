package utils

import (
	"crypto/rand"
	"encoding/base64"
	"strconv"
	"time"
)

// connIDBytes yields a 20 character identifier once base64url encoded.
const connIDBytes = 15

// NewConnID returns a random, URL-safe connection identifier.
func NewConnID() string {
	buf := make([]byte, connIDBytes)
	if _, err := rand.Read(buf); err == nil {
		return base64.RawURLEncoding.EncodeToString(buf)
	}

	// Fallback to timestamp if crypto/rand is unavailable.
	return strconv.FormatInt(time.Now().UnixNano(), 36)
}
