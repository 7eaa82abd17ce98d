package bolt

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	boltInfra "github.com/fastygo/taskboard/internal/infrastructure/bolt"
)

// SchemaVersion is the record layout written by this package.
const SchemaVersion = 2

var schemaVersionKey = []byte("schema_version")

type migration struct {
	version int
	name    string
	apply   func(tx *bolt.Tx) error
}

var migrations = []migration{
	{version: 1, name: "init", apply: func(*bolt.Tx) error { return nil }},
	{version: 2, name: "normalize_completion", apply: normalizeCompletion},
}

// Migrate brings the store up to SchemaVersion. Each step runs once, in its
// own transaction together with the version bump.
func Migrate(store *boltInfra.Store, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, m := range migrations {
		applied := false
		err := store.DB.Update(func(tx *bolt.Tx) error {
			meta := tx.Bucket(boltInfra.BucketMeta)
			if currentVersion(meta) >= m.version {
				return nil
			}
			if err := m.apply(tx); err != nil {
				return err
			}
			applied = true
			return meta.Put(schemaVersionKey, encodeVersion(m.version))
		})
		if err != nil {
			return err
		}
		if applied {
			logger.Info("bolt migration applied", zap.Int("version", m.version), zap.String("name", m.name))
		}
	}
	return nil
}

func currentVersion(meta *bolt.Bucket) int {
	raw := meta.Get(schemaVersionKey)
	if len(raw) != 8 {
		return 0
	}
	return int(binary.BigEndian.Uint64(raw))
}

func encodeVersion(v int) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(v))
	return buf
}

// normalizeCompletion rewrites records imported from the single-store schema,
// where completion was a boolean next to (or instead of) the status enum.
// A flag that is not a boolean aborts the step, leaving the version unchanged.
func normalizeCompletion(tx *bolt.Tx) error {
	b := tx.Bucket(boltInfra.BucketTasks)
	rewritten := map[string][]byte{}
	err := b.ForEach(func(k, v []byte) error {
		var doc map[string]json.RawMessage
		if err := json.Unmarshal(v, &doc); err != nil {
			return err
		}
		changed := false

		if raw, ok := doc["completed"]; ok {
			var done bool
			if err := json.Unmarshal(raw, &done); err != nil {
				return fmt.Errorf("bolt migration: task %s: completed flag: %w", k, err)
			}
			if _, hasStatus := doc["status"]; !hasStatus || done {
				status := "not-started"
				if done {
					status = "completed"
				}
				doc["status"], _ = json.Marshal(status)
			}
			delete(doc, "completed")
			changed = true
		}

		if raw, ok := doc["subtasks"]; ok {
			var subtasks []map[string]interface{}
			if err := json.Unmarshal(raw, &subtasks); err != nil {
				return fmt.Errorf("bolt migration: task %s: subtasks: %w", k, err)
			}
			subChanged := false
			for _, s := range subtasks {
				flag, present := s["completed"]
				if !present {
					continue
				}
				done, ok := flag.(bool)
				if !ok && flag != nil {
					return fmt.Errorf("bolt migration: task %s: subtask completed flag is %T", k, flag)
				}
				if _, hasStatus := s["status"]; !hasStatus {
					s["status"] = "pending"
					if done {
						s["status"] = "completed"
					}
				}
				delete(s, "completed")
				subChanged = true
			}
			if subChanged {
				doc["subtasks"], _ = json.Marshal(subtasks)
				changed = true
			}
		}

		if !changed {
			return nil
		}
		out, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		rewritten[string(k)] = out
		return nil
	})
	if err != nil {
		return err
	}
	for k, v := range rewritten {
		if err := b.Put([]byte(k), v); err != nil {
			return err
		}
	}
	return nil
}
