// Package conversation implements the interaction controller for the
// recipe chat client.
//
// # Overview
//
// Controller is an explicit state machine that owns the conversation log:
//
//	Idle ──Submit──▶ AwaitingResponse ──reply──▶ Idle
//	                         │
//	                         └──failure──▶ Error ──Submit──▶ AwaitingResponse
//
// Entering AwaitingResponse arms the loading scheduler; every exit path
// disarms it. Only one chat call is ever outstanding: Submit is ignored
// while a reply is pending, and ignored for blank input.
//
//	ctrl := conversation.New(agentClient, sessions, scheduler, logger)
//	done := ctrl.Submit(ctx, "How do I make pozole?")
//	<-done
//	msgs := ctrl.Messages() // user message, then the parsed reply
//
// # Failures
//
// A failed chat call appends a localized apology as the assistant message,
// records the error (Err), and moves to Error. Error accepts new
// submissions exactly like Idle.
//
// Clear empties the log locally and asks the agent to forget the session.
// A failed remote reset is logged and otherwise ignored.
//
// # In-flight replies and Clear
//
// Chat calls are not cancelled by Clear. A reply that arrives after Clear
// is still appended to the (now empty) log.
//
// # Events
//
// Subscribe delivers message_appended, state_changed, phase_changed and
// cleared events. Delivery is non-blocking; slow subscribers drop events.
package conversation
