// Package validator checks raw LCSF messages against static protocol
// descriptors and builds raw messages from validated commands.
//
// Descriptors are positional: the order of attributes in a CommandDescriptor
// fixes the order of attributes in every ValidatedCommand for that command,
// at every nesting level. Absent optional attributes keep their slot as an
// empty placeholder, so handlers can index attributes by descriptor position.
//
// Validation walks the descriptor, not the wire. For each descriptor
// attribute the matching raw attribute is looked up by id, then checked for
// shape (leaf or node) and payload length:
//
//	U8         1 byte
//	U16        2 bytes
//	U32        4 bytes
//	ByteArray  at least 1 byte
//	String     at least 1 byte
//
// Payloads are copied verbatim. Multi-byte scalars are interpreted only by
// the value helpers (AsU16, AsU32), which read little-endian.
package validator
