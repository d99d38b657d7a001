// Package transcoder converts LCSF byte streams to and from untyped
// attribute trees.
//
// The transcoder knows nothing about protocol schemas. It reads and writes the
// structural layout only: a message header followed by a list of attributes,
// where each attribute is either a leaf carrying bytes or a node carrying
// further attributes.
//
// # Wire Modes
//
// Two field widths are supported:
//   - Small: every structural integer is one byte
//   - Normal: every structural integer is two bytes, little-endian
//
// The message header is protocol id, command id and attribute count. Each
// attribute header is the attribute id followed by its payload size. The top
// bit of the id's highest byte flags an attribute that has sub-attributes, so
// attribute ids are 7 bits wide in Small mode and 15 bits wide in Normal mode.
// For a leaf the payload size is a byte length, for a node it is a child count.
//
// # Framing
//
// Decoding is strict. Truncated headers or payloads, bytes left over after the
// declared attributes, empty attributes and duplicate ids within one level all
// fail with a FormatError. Buffers larger than Limits.MaxMessageSize or nested
// deeper than Limits.MaxDepth fail with an OverflowError.
//
// Encoding skips attributes whose PayloadSize is zero. Such attributes are
// placeholders for absent optional attributes and never reach the wire.
package transcoder
