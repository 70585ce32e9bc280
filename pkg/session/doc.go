// Package session hosts in-progress lab request forms across the turns of a
// conversation. A Manager owns every Session, applies the inactivity expiry
// and serializes access per session id. Storage is delegated to a Repository
// (in-memory or Redis).
package session
