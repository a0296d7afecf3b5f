package session

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

// DefaultMaxPhotoBytes is the largest decoded profile photo accepted.
const DefaultMaxPhotoBytes = 5 << 20

// EncodePhoto turns raw image bytes into the data URL stored on the
// profile. The media type is sniffed from the content.
func EncodePhoto(data []byte, maxBytes int) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", ErrInvalidPhoto)
	}
	if maxBytes > 0 && len(data) > maxBytes {
		return "", fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrInvalidPhoto, len(data), maxBytes)
	}

	mediaType := http.DetectContentType(data)
	if !strings.HasPrefix(mediaType, "image/") {
		return "", fmt.Errorf("%w: %s is not an image", ErrInvalidPhoto, mediaType)
	}

	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// checkPhoto accepts an empty reference (photo removed) or a base64 image
// data URL whose payload fits in maxBytes.
func checkPhoto(ref string, maxBytes int) error {
	if ref == "" {
		return nil
	}

	rest, ok := strings.CutPrefix(ref, "data:")
	if !ok {
		return fmt.Errorf("%w: not a data URL", ErrInvalidPhoto)
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return fmt.Errorf("%w: missing payload", ErrInvalidPhoto)
	}
	mediaType, encoding, _ := strings.Cut(header, ";")
	if !strings.HasPrefix(mediaType, "image/") {
		return fmt.Errorf("%w: %s is not an image", ErrInvalidPhoto, mediaType)
	}
	if encoding != "base64" {
		return fmt.Errorf("%w: payload must be base64", ErrInvalidPhoto)
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPhoto, err)
	}
	if maxBytes > 0 && len(decoded) > maxBytes {
		return fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrInvalidPhoto, len(decoded), maxBytes)
	}
	return nil
}
