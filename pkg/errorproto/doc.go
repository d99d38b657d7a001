// Package errorproto implements the LCSF error sub-protocol.
//
// The error protocol is always registered on a core. It has a single command
// (0) with two mandatory U8 attributes:
//   - 0: location, where the failure happened (Decoder or Validator)
//   - 1: type, the DecodeErrorCode or ValidationErrorCode value
//
// Its protocol id is 0x00FF in Small mode and 0xFFFF in Normal mode.
package errorproto
