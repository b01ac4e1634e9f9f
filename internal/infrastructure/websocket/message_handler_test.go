package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSendMessage(t *testing.T) {
	msg, err := ParseMessage([]byte(`{"type":"send_message","data":{"temp_id":"t1","text":"hi"}}`))
	require.NoError(t, err)
	assert.Equal(t, MessageTypeSendMessage, msg.Type)

	var data SendMessageData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	assert.Equal(t, "t1", data.TempID)
	assert.Equal(t, "hi", data.Text)

	_, err = ParseMessage([]byte("not json"))
	assert.Error(t, err)
}

func TestClientSendJSONAfterClose(t *testing.T) {
	c := NewClient("u", "chat", nil)
	require.NoError(t, c.Emit(MessageTypePong, nil))
	assert.Len(t, c.Send, 1)

	c.Close()
	assert.ErrorIs(t, c.Emit(MessageTypePong, nil), ErrClientClosed)
}

func TestClientDroppedWhenQueueFull(t *testing.T) {
	c := NewClient("u", "chat", nil)
	for i := 0; i < sendBuffer; i++ {
		require.NoError(t, c.SendJSON(i))
	}

	assert.ErrorIs(t, c.SendJSON("overflow"), ErrSlowClient)
	select {
	case <-c.Done():
	default:
		t.Fatal("slow client was not closed")
	}
}
