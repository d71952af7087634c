package nostr

import "time"

// Timestamp is a Unix timestamp in seconds. It comes from the wire
// untrusted: no bounds are imposed anywhere, zero and far-future values are
// structurally valid.
type Timestamp int64

// Now returns the current moment as a Timestamp.
func Now() Timestamp {
	return Timestamp(time.Now().Unix())
}

// Time converts the timestamp into a time.Time.
func (t Timestamp) Time() time.Time {
	return time.Unix(int64(t), 0)
}
