// Package ws provides the WebSocket endpoint for live device events.
//
// Connected clients receive a presence event whenever the device attaches or
// detaches, and can request the current state or counter snapshot with
// "state" and "stats" messages. "ping" answers "pong".
package ws
