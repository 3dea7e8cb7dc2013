package model

import "time"

// Session models an entry in the `sessions` table backing the
// server-rendered dashboard.  The browser holds the raw random token in a
// cookie; only its SHA-256 hash is stored so a leaked table cannot be
// replayed as live sessions.
//
// Fields:
//
//	ID        – primary key identifier.
//	UserID    – owner of the session.
//	TokenHash – SHA-256 hex digest of the cookie value.
//	ExpiresAt – expiration timestamp; expired rows are treated as absent.
//	CreatedAt – timestamp of creation.
type Session struct {
	ID        uint64    // sessions.id
	UserID    uint64    // sessions.user_id
	TokenHash string    // sessions.token_hash
	ExpiresAt time.Time // sessions.expires_at
	CreatedAt time.Time // sessions.created_at
}
