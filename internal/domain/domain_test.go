package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageConstructors(t *testing.T) {
	u := UserMessage("hello")
	assert.Equal(t, OriginUser, u.Origin)
	assert.False(t, u.IsError)
	assert.False(t, u.CreatedAt.IsZero())

	b := BotMessage("hi there")
	assert.Equal(t, OriginBot, b.Origin)
	assert.False(t, b.IsError)

	e := ErrorMessage("something broke")
	assert.Equal(t, OriginBot, e.Origin)
	assert.True(t, e.IsError)
}

func TestAttachmentMetaDropsPayload(t *testing.T) {
	a := Attachment{
		Filename: "clip.mp4",
		MimeType: "video/mp4",
		Size:     1024,
		Data:     []byte{0xde, 0xad},
	}
	m := a.Meta()
	assert.Equal(t, "clip.mp4", m.Filename)
	assert.Equal(t, "video/mp4", m.MimeType)
	assert.Equal(t, int64(1024), m.Size)

	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Data")
}

func TestExportRoundTrip(t *testing.T) {
	t0 := time.Date(2026, 3, 14, 9, 26, 53, 589000000, time.UTC)
	msgs := []Message{
		{Text: "Welcome!", Origin: OriginBot, CreatedAt: t0},
		{Text: "Describe the scene", Origin: OriginUser, CreatedAt: t0.Add(time.Second)},
		{Text: "Upload failed: timeout", Origin: OriginBot, IsError: true, CreatedAt: t0.Add(2 * time.Second)},
	}

	exported := ExportMessages(msgs)

	// Through JSON and back: timestamps must survive losslessly.
	data, err := json.Marshal(exported)
	require.NoError(t, err)
	var decoded []ExportedMessage
	require.NoError(t, json.Unmarshal(data, &decoded))

	back := Rehydrate(decoded)
	require.Len(t, back, len(msgs))
	for i := range msgs {
		assert.Equal(t, msgs[i].Text, back[i].Text)
		assert.Equal(t, msgs[i].Origin, back[i].Origin)
		assert.Equal(t, msgs[i].IsError, back[i].IsError)
		assert.True(t, msgs[i].CreatedAt.Equal(back[i].CreatedAt), "timestamp %d", i)
	}
}

func TestExportTimestampIsRFC3339(t *testing.T) {
	msg := ExportedMessage{Text: "x", Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "2026-01-02T03:04:05Z")
}
