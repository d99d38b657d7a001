package log

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// Capture files are read back by tooling that may be handed arbitrary input,
// so decoding accepts only what the writer produces: definite lengths,
// unique keys and shallow nesting.
const (
	maxEventNesting  = 8
	maxEventElements = 1024
)

// eventCodec holds the CBOR modes shared by the capture writer and reader.
type eventCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

var events = newEventCodec()

func newEventCodec() eventCodec {
	enc, err := cbor.EncOptions{
		Sort:          cbor.SortCoreDeterministic,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("capture event encoder: %v", err))
	}

	dec, err := cbor.DecOptions{
		DupMapKey:        cbor.DupMapKeyEnforcedAPF,
		IndefLength:      cbor.IndefLengthForbidden,
		MaxNestedLevels:  maxEventNesting,
		MaxArrayElements: maxEventElements,
		MaxMapPairs:      maxEventElements,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("capture event decoder: %v", err))
	}
	return eventCodec{enc: enc, dec: dec}
}

// EncodeEvent encodes one event as a CBOR map with integer keys.
func EncodeEvent(event Event) ([]byte, error) {
	return events.enc.Marshal(event)
}

// DecodeEvent decodes one CBOR encoded event.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := events.dec.Unmarshal(data, &event); err != nil {
		return Event{}, fmt.Errorf("decode capture event: %w", err)
	}
	return event, nil
}

// NewEncoder returns a stream encoder writing events to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return events.enc.NewEncoder(w)
}

// NewDecoder returns a stream decoder reading events from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return events.dec.NewDecoder(r)
}
