// Package connection implements the Connection Manager component.
//
// A Manager owns one logical WebSocket connection for one subscription
// key (a pipeline run) and drives an explicit state machine:
//
//	Idle -> Connecting -> Open -> Closing -> Idle
//
// with Reconnecting(attempt) entered on abnormal closure or heartbeat
// timeout, and Failed entered once the reconnect attempt ceiling is
// reached. Every connection attempt carries a generation token; timers
// and read loops from superseded attempts self-invalidate against it, so
// a stale timer can never mutate the state of a newer connection.
package connection
