package firebase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevTokenVerifier(t *testing.T) {
	v := NewDevTokenVerifier()

	uid, err := v.VerifyToken(context.Background(), "dev-alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", uid)

	_, err = v.VerifyToken(context.Background(), "alice")
	assert.Error(t, err)
	_, err = v.VerifyToken(context.Background(), "dev-")
	assert.Error(t, err)

	uid, err = v.VerifyToken(context.Background(), v.Issue("bob"))
	require.NoError(t, err)
	assert.Equal(t, "bob", uid)
}
