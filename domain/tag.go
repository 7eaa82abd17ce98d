package domain

import "time"

// Tag is a workspace-scoped label. Name is unique per workspace; Color is #RRGGBB.
type Tag struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"-"`
	UserID      string    `json:"-"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"-"`
}

// TagIndex maps tag ids to tags for reference resolution.
type TagIndex map[string]Tag

func IndexTags(tags []Tag) TagIndex {
	idx := make(TagIndex, len(tags))
	for _, t := range tags {
		idx[t.ID] = t
	}
	return idx
}

// Resolve returns the tags for ids in order, dropping ids that are not indexed.
func (idx TagIndex) Resolve(ids []string) []Tag {
	out := make([]Tag, 0, len(ids))
	for _, id := range ids {
		if t, ok := idx[id]; ok {
			out = append(out, t)
		}
	}
	return out
}
