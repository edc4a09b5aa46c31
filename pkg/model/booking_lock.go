package model

import "time"

// BookingLock is an advisory lock serializing booking creation for one host
// and day. Its _id is the lock key, so a second insert fails on the unique index.
// Owner identifies the request holding it; only that owner may release it.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	HostID    string    `bson:"host_id" json:"host_id"`
	Owner     string    `bson:"owner" json:"owner"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
