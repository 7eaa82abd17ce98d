// Package bolt implements the repositories on an embedded BoltDB file. Each
// method runs in exactly one bolt transaction, which makes multi-row writes
// (tag cascade, bulk archive, invite redemption) atomic.
package bolt

import (
	"bytes"
	"encoding/json"
	"strings"

	bolt "go.etcd.io/bbolt"
)

func key(parts ...string) []byte {
	return []byte(strings.Join(parts, "/"))
}

func prefix(workspaceID string) []byte {
	return []byte(workspaceID + "/")
}

// getJSON decodes the value at k into v and reports whether it existed.
func getJSON(b *bolt.Bucket, k []byte, v interface{}) (bool, error) {
	raw := b.Get(k)
	if raw == nil {
		return false, nil
	}
	return true, json.Unmarshal(raw, v)
}

func putJSON(b *bolt.Bucket, k []byte, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.Put(k, payload)
}

// scanPrefix calls fn for every key under p. fn must not modify the bucket.
func scanPrefix(b *bolt.Bucket, p []byte, fn func(k, v []byte) error) error {
	c := b.Cursor()
	for k, v := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, v = c.Next() {
		if err := fn(k, v); err != nil {
			return err
		}
	}
	return nil
}
