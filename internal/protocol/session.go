package protocol

// Session is the per-connection authentication state. It lives exactly as
// long as its connection and the transition to authenticated is one-way:
// there is no logout command.
type Session struct {
	Authenticated bool
	Username      string
}
