// Package agent is the HTTP client for the remote recipe agent.
//
// # Overview
//
// The agent keeps per-session conversation memory keyed by the session id
// the client sends with every call:
//
//	c := agent.NewClient("http://localhost:8000", agent.WithTimeout(60*time.Second))
//	reply, err := c.Chat(ctx, "How do I make pozole?", sessionID)
//	err = c.ResetMemory(ctx, sessionID)
//
// # Endpoints
//
//	POST /agent-chat    {"message": "...", "session_id": "..."}
//	                    -> {"response": "...", "sources_used": ["..."]}
//	POST /clear-memory  {"session_id": "..."}
//
// Every request carries an X-Request-ID header for log correlation.
//
// # Errors
//
// Failures are one of two types:
//
//   - *TransportError: no network path to the agent (dial, timeout, I/O)
//   - *ServerError: the agent answered with a non-2xx status or a body
//     that could not be decoded
//
// Use IsTransport and IsServer, or errors.As, to tell them apart.
package agent
