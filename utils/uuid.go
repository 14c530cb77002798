package utils

import (
	"github.com/google/uuid"
)

// maxRequestIDLen bounds caller-supplied request ids echoed into logs
const maxRequestIDLen = 64

// GenerateID returns a new random identifier for auctions, bids and sessions
func GenerateID() string {
	return uuid.NewString()
}

// RequestID returns candidate if it is safe to echo into logs and headers,
// otherwise a freshly generated id.
func RequestID(candidate string) string {
	if candidate == "" || len(candidate) > maxRequestIDLen {
		return GenerateID()
	}
	for _, r := range candidate {
		if r < 0x21 || r > 0x7e {
			return GenerateID()
		}
	}
	return candidate
}
