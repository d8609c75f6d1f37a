package imaging

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

// MaxImageBytes caps uploads and decoded generation results.
const MaxImageBytes = 7 * 1024 * 1024

// Image is an encoded image ready for transport to the model service.
type Image struct {
	Data string `json:"data"` // base64 payload without the data: prefix
	MIME string `json:"mime"`
}

// IsZero reports whether no image is present.
func (i Image) IsZero() bool {
	return i.Data == ""
}

// DataURI renders the image as a data URI suitable for direct display.
func (i Image) DataURI() string {
	if i.IsZero() {
		return ""
	}
	return fmt.Sprintf("data:%s;base64,%s", i.MIME, i.Data)
}

// Bytes decodes the base64 payload.
func (i Image) Bytes() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(i.Data)
	if err != nil {
		return nil, fmt.Errorf("imaging: decode payload: %w", err)
	}
	return data, nil
}

// FromBytes encodes raw file content into a transportable image.
func FromBytes(data []byte, mimeHint string) (Image, error) {
	if len(data) == 0 {
		return Image{}, fmt.Errorf("imaging: empty image data")
	}
	if len(data) > MaxImageBytes {
		return Image{}, fmt.Errorf("imaging: image exceeds %d bytes", MaxImageBytes)
	}
	return Image{
		Data: base64.StdEncoding.EncodeToString(data),
		MIME: DetectMIME(data, mimeHint),
	}, nil
}

// ParseDataURI splits a data URI (or bare base64 payload) into an Image.
func ParseDataURI(raw string) (Image, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Image{}, fmt.Errorf("imaging: empty data URI")
	}
	if !strings.HasPrefix(raw, "data:") {
		return Image{Data: raw, MIME: "image/png"}, nil
	}
	meta, payload, ok := strings.Cut(raw, ",")
	if !ok || payload == "" {
		return Image{}, fmt.Errorf("imaging: invalid data URI")
	}
	mime := strings.TrimPrefix(meta, "data:")
	mime = strings.TrimSuffix(mime, ";base64")
	if mime == "" {
		mime = "image/png"
	}
	if _, err := base64.StdEncoding.DecodeString(payload); err != nil {
		return Image{}, fmt.Errorf("imaging: invalid base64 payload: %w", err)
	}
	return Image{Data: payload, MIME: mime}, nil
}

// DetectMIME prefers the provided content type and sniffs the data otherwise.
// Anything that is not an image collapses to image/jpeg, matching what the
// model service accepts for photographic input.
func DetectMIME(data []byte, provided string) string {
	mime := strings.TrimSpace(provided)
	if mime == "" {
		mime = http.DetectContentType(data)
	}
	if !strings.Contains(mime, "image/") {
		return "image/jpeg"
	}
	return mime
}
