// Package subscription binds connection lifecycle to projected state.
//
// A Watcher pairs one connection manager with one projection: every decoded
// event is folded into the projection and the resulting delta is handed to
// the consumer. The Hub tracks watchers by subscription key so repeated
// acquisitions of the same key share one logical connection, and releasing
// the key tears both the connection and the projected state down together.
package subscription
