// Package session persists who is logged in on this device. There is at most
// one session row.
package session
