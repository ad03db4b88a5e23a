package entity

// Player - participant identity. Stable across reconnects; the live
// connection handle is owned by the transport layer and never stored here,
// so a persisted session carries identities only.
type Player struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
}
