package log

import (
	"fmt"
	"strings"
	"time"

	"github.com/lcsf-protocol/lcsf-go/pkg/transcoder"
)

// MaxFrameDataSize is the maximum frame data kept in a FrameEvent (4 KB).
// Larger frames are truncated.
const MaxFrameDataSize = 4096

// Event represents a protocol event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// CoreID identifies the core instance that captured the event (UUID).
	CoreID string `cbor:"2,keyasint"`

	// Direction indicates message flow.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// Mode is the wire mode of the capturing core.
	Mode transcoder.Mode `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Frame        *FrameEvent        `cbor:"10,keyasint,omitempty"`
	Message      *MessageEvent      `cbor:"11,keyasint,omitempty"`
	Error        *ErrorEventData    `cbor:"12,keyasint,omitempty"`
	Registration *RegistrationEvent `cbor:"13,keyasint,omitempty"`
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn indicates an incoming message.
	DirectionIn Direction = 0
	// DirectionOut indicates an outgoing message.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// ParseDirection parses a direction name (case-insensitive).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return DirectionIn, nil
	case "out":
		return DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (valid: in, out)", s)
	}
}

// Layer indicates which protocol layer captured the event.
type Layer uint8

const (
	// LayerTranscoder is the byte codec.
	LayerTranscoder Layer = 0
	// LayerValidator is the schema check.
	LayerValidator Layer = 1
	// LayerDispatch is protocol registration and handler dispatch.
	LayerDispatch Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTranscoder:
		return "TRANSCODER"
	case LayerValidator:
		return "VALIDATOR"
	case LayerDispatch:
		return "DISPATCH"
	default:
		return "UNKNOWN"
	}
}

// ParseLayer parses a layer name (case-insensitive).
func ParseLayer(s string) (Layer, error) {
	switch strings.ToLower(s) {
	case "transcoder":
		return LayerTranscoder, nil
	case "validator":
		return LayerValidator, nil
	case "dispatch":
		return LayerDispatch, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (valid: transcoder, validator, dispatch)", s)
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage indicates a frame or dispatched command.
	CategoryMessage Category = 0
	// CategoryError indicates a rejected message.
	CategoryError Category = 1
	// CategoryRegistration indicates a protocol registration.
	CategoryRegistration Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryError:
		return "ERROR"
	case CategoryRegistration:
		return "REGISTRATION"
	default:
		return "UNKNOWN"
	}
}

// ParseCategory parses a category name (case-insensitive).
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(s) {
	case "message":
		return CategoryMessage, nil
	case "error":
		return CategoryError, nil
	case "registration":
		return CategoryRegistration, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (valid: message, error, registration)", s)
	}
}

// FrameEvent captures a raw frame at the transcoder layer.
type FrameEvent struct {
	// Size is the frame size in bytes.
	Size int `cbor:"1,keyasint"`

	// Data is the raw frame (truncated to MaxFrameDataSize).
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"3,keyasint,omitempty"`
}

// NewFrameEvent captures data, truncating it to MaxFrameDataSize.
func NewFrameEvent(data []byte) *FrameEvent {
	fe := &FrameEvent{Size: len(data)}
	if len(data) > MaxFrameDataSize {
		fe.Data = append([]byte(nil), data[:MaxFrameDataSize]...)
		fe.Truncated = true
	} else {
		fe.Data = append([]byte(nil), data...)
	}
	return fe
}

// MessageEvent captures a command handled by the dispatch layer.
type MessageEvent struct {
	ProtocolID     uint16 `cbor:"1,keyasint"`
	CommandID      uint16 `cbor:"2,keyasint"`
	AttributeCount uint16 `cbor:"3,keyasint"`

	// Raw is set for messages that bypassed validation.
	Raw bool `cbor:"4,keyasint,omitempty"`

	// HandlerTime is the time spent in the protocol handler (inbound only).
	// Stored as nanoseconds.
	HandlerTime *time.Duration `cbor:"5,keyasint,omitempty"`
}

// ErrorEventData captures a rejected message or a failed send.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Code is the DecodeErrorCode or ValidationErrorCode (if applicable).
	Code *int `cbor:"3,keyasint,omitempty"`

	// Context describes what operation was being performed.
	Context string `cbor:"4,keyasint,omitempty"`

	// Reported is set when an error packet was sent to the peer.
	Reported bool `cbor:"5,keyasint,omitempty"`
}

// RegistrationEvent captures a protocol registration on a core.
type RegistrationEvent struct {
	ProtocolID  uint16 `cbor:"1,keyasint"`
	Name        string `cbor:"2,keyasint,omitempty"`
	Commands    int    `cbor:"3,keyasint"`
	Fingerprint string `cbor:"4,keyasint,omitempty"`

	// Replaced is set when the registration overrode an earlier one.
	Replaced bool `cbor:"5,keyasint,omitempty"`
}
