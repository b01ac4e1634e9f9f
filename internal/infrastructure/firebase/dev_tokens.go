package firebase

import (
	"context"
	"fmt"
	"strings"
)

const DevTokenPrefix = "dev-"

// DevTokenVerifier accepts "dev-<uid>" as the token of uid. It is only wired
// with the in-memory backend in development.
type DevTokenVerifier struct{}

func NewDevTokenVerifier() *DevTokenVerifier {
	return &DevTokenVerifier{}
}

func (DevTokenVerifier) VerifyToken(ctx context.Context, token string) (string, error) {
	uid := strings.TrimPrefix(token, DevTokenPrefix)
	if uid == token || strings.TrimSpace(uid) == "" {
		return "", fmt.Errorf("not a development token")
	}
	return uid, nil
}

// Issue returns the development token for uid.
func (DevTokenVerifier) Issue(uid string) string {
	return DevTokenPrefix + uid
}
