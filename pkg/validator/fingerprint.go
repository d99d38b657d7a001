package validator

import (
	"encoding/binary"
	"encoding/hex"
	"hash"

	"golang.org/x/crypto/blake2b"
)

// FingerprintSize is the digest length in bytes.
const FingerprintSize = 16

// Fingerprint returns a hex digest of the wire-relevant shape of the
// protocol: command ids and, for every attribute, its id, type, optionality
// and children in order. Names do not contribute. Two peers with equal
// fingerprints validate identically.
func (p *ProtocolDescriptor) Fingerprint() string {
	h, err := blake2b.New(FingerprintSize, nil)
	if err != nil {
		// Only reachable with an invalid size or an oversized key.
		panic(err)
	}
	for i := range p.Commands {
		cmd := &p.Commands[i]
		writeU16(h, cmd.ID)
		writeAttributes(h, cmd.Attributes)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func writeAttributes(h hash.Hash, descs []AttributeDescriptor) {
	writeU16(h, uint16(len(descs)))
	for i := range descs {
		d := &descs[i]
		writeU16(h, d.ID)
		optional := byte(0)
		if d.Optional {
			optional = 1
		}
		h.Write([]byte{byte(d.DataType), optional})
		if d.DataType == TypeSubAttributes {
			writeAttributes(h, d.SubAttributes)
		}
	}
}

func writeU16(h hash.Hash, v uint16) {
	h.Write(binary.LittleEndian.AppendUint16(nil, v))
}
