package imaging

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromBytesRoundTrip(t *testing.T) {
	img, err := FromBytes([]byte("fake-png-bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIME)

	decoded, err := img.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("fake-png-bytes"), decoded)
	assert.True(t, strings.HasPrefix(img.DataURI(), "data:image/png;base64,"))
}

func TestFromBytesRejectsEmptyAndOversized(t *testing.T) {
	_, err := FromBytes(nil, "image/png")
	assert.Error(t, err)

	_, err = FromBytes(make([]byte, MaxImageBytes+1), "image/png")
	assert.Error(t, err)
}

func TestParseDataURI(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("hello"))

	img, err := ParseDataURI("data:image/jpeg;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.MIME)
	assert.Equal(t, payload, img.Data)

	// Bare payloads default to PNG.
	img, err = ParseDataURI(payload)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIME)

	_, err = ParseDataURI("data:image/png;base64,")
	assert.Error(t, err)

	_, err = ParseDataURI("data:image/png;base64,!!not-base64!!")
	assert.Error(t, err)
}

func TestDetectMIME(t *testing.T) {
	assert.Equal(t, "image/webp", DetectMIME(nil, "image/webp"))
	assert.Equal(t, "image/jpeg", DetectMIME([]byte("plain text"), ""))
}
