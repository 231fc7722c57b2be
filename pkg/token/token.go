package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"regexp"
)

// roomIDRx matches the ids handed out by RoomID
var roomIDRx = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Generate returns a crypto-secure random string of length n
// The random string is contains the following characters:
// ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_
func Generate(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("invalid token length: %d", n)
	}

	// base64 increases size by ~33%
	b := make([]byte, n*3/4+1)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b)[0:n], nil
}

// RoomID returns a new random room id
func RoomID() (string, error) {
	return Generate(12)
}

// IsRoomID returns true if s only contains characters used by Generate
func IsRoomID(s string) bool {
	return len(s) <= 64 && roomIDRx.MatchString(s)
}
