// Package state serializes updates per user so that one conversation
// record is read, advanced and written by a single handler at a time.
// Updates from different users still run concurrently.
package state
