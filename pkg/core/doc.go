// Package core sequences the LCSF layers for one endpoint.
//
// A Core owns the wire mode, a table of registered protocols and a Sender.
// Incoming buffers go through decode, validate and dispatch:
//
//	data -> transcoder.Decode -> validator.Validate -> Handler.HandleCommand
//
// Outgoing commands go the other way:
//
//	cmd -> validator.EncodeValid -> transcoder.Encode -> Sender.Send
//
// The error sub-protocol is registered at construction with a handler that
// logs received reports. When Config.GenerateErrors is set, every rejected
// buffer is answered with one error report through the Sender.
//
// All work happens synchronously on the calling goroutine, including handler
// and Sender calls. A Core does no locking: callers sharing a Core between
// goroutines must serialize access themselves.
package core
