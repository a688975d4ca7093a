// Package session owns the dictation lifecycle: one active recording at a
// time, driven through a small state machine.
//
//	Idle -> Recording <-> Paused -> Transcribing -> Completed | Failed
//
// Cancelled is reachable from any non-terminal state; terminal states
// collapse back to Idle once an observer acknowledges the result. Commands
// arrive over a buffered queue so the hotkey source never blocks, and all
// transitions happen one at a time inside the Run loop. Observers consume
// state-change and result events from the outbound channel and read state
// through copies, never through the live session.
package session
