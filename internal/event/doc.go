// Package event implements the Message Codec component.
//
// The codec converts raw WebSocket frames into typed domain messages:
//   - Heartbeat control tokens are recognized up front and never surface
//     as domain messages.
//   - Known event types decode into one variant of the Message sum type.
//   - Unknown event types decode to Unknown (forward compatibility).
//   - Frames that fail to parse decode to ProtocolError; decoding is
//     total and a malformed frame is never fatal to the connection.
package event
