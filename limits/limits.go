package limits

import (
	"errors"
	"fmt"
	"io"
)

const (
	// MaxOPFDocument is the maximum size of a projection descriptor.
	MaxOPFDocument = 1024 * 1024

	// MaxPlaylistDocument is the maximum size of a playlist document.
	MaxPlaylistDocument = 1024 * 1024

	// MaxRecordingBytes is the maximum size of a saved head-motion recording.
	MaxRecordingBytes = 16 * 1024 * 1024

	// MaxTextureBytes is the maximum size of one encoded remap texture.
	MaxTextureBytes = 64 * 1024 * 1024

	// MaxTextureDimension bounds either side of a decoded remap texture.
	MaxTextureDimension = 16384
)

var (
	// ErrPayloadEmpty indicates an empty payload was provided
	ErrPayloadEmpty = errors.New("empty payload")

	// ErrPayloadTooLarge indicates a payload exceeds its maximum size
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrDimensionTooLarge indicates a decoded image exceeds MaxTextureDimension
	ErrDimensionTooLarge = errors.New("image dimension too large")
)

// ValidatePayloadSize validates a payload against the specified maximum size.
// Returns an error with context including the actual and maximum sizes.
func ValidatePayloadSize(data []byte, maxSize int) error {
	if len(data) == 0 {
		return ErrPayloadEmpty
	}
	if len(data) > maxSize {
		return fmt.Errorf("%w: size %d exceeds limit %d", ErrPayloadTooLarge, len(data), maxSize)
	}
	return nil
}

// ValidateOPFDocument validates a projection descriptor against MaxOPFDocument.
func ValidateOPFDocument(data []byte) error {
	if len(data) == 0 {
		return ErrPayloadEmpty
	}
	if len(data) > MaxOPFDocument {
		return fmt.Errorf("%w: opf size %d exceeds limit %d", ErrPayloadTooLarge, len(data), MaxOPFDocument)
	}
	return nil
}

// ValidatePlaylistDocument validates a playlist against MaxPlaylistDocument.
func ValidatePlaylistDocument(data []byte) error {
	if len(data) == 0 {
		return ErrPayloadEmpty
	}
	if len(data) > MaxPlaylistDocument {
		return fmt.Errorf("%w: playlist size %d exceeds limit %d", ErrPayloadTooLarge, len(data), MaxPlaylistDocument)
	}
	return nil
}

// ValidateRecording validates a head-motion recording against MaxRecordingBytes.
func ValidateRecording(data []byte) error {
	if len(data) == 0 {
		return ErrPayloadEmpty
	}
	if len(data) > MaxRecordingBytes {
		return fmt.Errorf("%w: recording size %d exceeds limit %d", ErrPayloadTooLarge, len(data), MaxRecordingBytes)
	}
	return nil
}

// ValidateTexture validates an encoded texture against MaxTextureBytes.
func ValidateTexture(data []byte) error {
	if len(data) == 0 {
		return ErrPayloadEmpty
	}
	if len(data) > MaxTextureBytes {
		return fmt.Errorf("%w: texture size %d exceeds limit %d", ErrPayloadTooLarge, len(data), MaxTextureBytes)
	}
	return nil
}

// ValidateDimensions checks decoded image bounds against MaxTextureDimension.
func ValidateDimensions(width, height int) error {
	if width > MaxTextureDimension || height > MaxTextureDimension {
		return fmt.Errorf("%w: %dx%d exceeds %d", ErrDimensionTooLarge, width, height, MaxTextureDimension)
	}
	return nil
}

// LimitReader returns a reader that stops after maxSize+1 bytes.
func LimitReader(r io.Reader, maxSize int) io.Reader {
	return io.LimitReader(r, int64(maxSize)+1)
}

// ReadAll reads r up to maxSize and validates the result.
func ReadAll(r io.Reader, maxSize int) ([]byte, error) {
	data, err := io.ReadAll(LimitReader(r, maxSize))
	if err != nil {
		return nil, err
	}
	if err := ValidatePayloadSize(data, maxSize); err != nil {
		return nil, err
	}
	return data, nil
}
