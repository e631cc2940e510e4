// Package dragdrop encodes the payload carried by a Finder drag: which entry
// is being dragged and how to draw it while in flight.
package dragdrop

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

// MIMEType is the data-transfer type the payload is registered under
const MIMEType = "application/x-deskos-item+json"

// Version is the payload layout this package writes
const Version = 1

var (
	// ErrUnsupportedVersion is returned for payloads written by another layout
	ErrUnsupportedVersion = errors.New("unsupported drag payload version")
	// ErrInvalidPayload is returned for payloads that are not JSON or lack an id
	ErrInvalidPayload = errors.New("invalid drag payload")
)

// Payload identifies the dragged entry. ID is the entry's path.
type Payload struct {
	V        int    `json:"v"`
	ID       string `json:"id"`
	Name     string `json:"name"`
	Icon     string `json:"icon"`
	IsFolder bool   `json:"is_folder"`
}

// Encode writes a payload at the current version
func Encode(p Payload) ([]byte, error) {
	if strings.TrimSpace(p.ID) == "" {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidPayload)
	}
	p.V = Version
	data, err := sonic.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode drag payload: %w", err)
	}
	return data, nil
}

// Decode parses and validates a payload
func Decode(data []byte) (Payload, error) {
	var p Payload
	if err := sonic.Unmarshal(data, &p); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if p.V != Version {
		return Payload{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, p.V)
	}
	if strings.TrimSpace(p.ID) == "" {
		return Payload{}, fmt.Errorf("%w: missing id", ErrInvalidPayload)
	}
	return p, nil
}
