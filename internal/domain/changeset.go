package domain

import "github.com/google/uuid"

// Setting keys persisted alongside segments and tags.
const (
	SettingLastNormalizedDay = "last_normalized_day"
	SettingLegacyImported    = "legacy_imported"
)

// ChangeSet is the net effect of one or more ledger mutations that has not
// been written to durable storage yet. An id appears in at most one of
// Segments and DeletedSegments (likewise Tags and DeletedTags).
type ChangeSet struct {
	Segments        map[uuid.UUID]Segment
	DeletedSegments map[uuid.UUID]struct{}
	Tags            map[uuid.UUID]Tag
	DeletedTags     map[uuid.UUID]struct{}
	Settings        map[string]string
}

// NewChangeSet returns an empty ChangeSet ready for use.
func NewChangeSet() ChangeSet {
	return ChangeSet{
		Segments:        map[uuid.UUID]Segment{},
		DeletedSegments: map[uuid.UUID]struct{}{},
		Tags:            map[uuid.UUID]Tag{},
		DeletedTags:     map[uuid.UUID]struct{}{},
		Settings:        map[string]string{},
	}
}

// PutSegment records an insert or in-place update.
func (c *ChangeSet) PutSegment(s Segment) {
	delete(c.DeletedSegments, s.ID)
	c.Segments[s.ID] = s
}

// DeleteSegment records a removal.
func (c *ChangeSet) DeleteSegment(id uuid.UUID) {
	delete(c.Segments, id)
	c.DeletedSegments[id] = struct{}{}
}

// PutTag records an insert or in-place update of a tag.
func (c *ChangeSet) PutTag(t Tag) {
	delete(c.DeletedTags, t.ID)
	c.Tags[t.ID] = t
}

// DeleteTag records the removal of an unreferenced tag.
func (c *ChangeSet) DeleteTag(id uuid.UUID) {
	delete(c.Tags, id)
	c.DeletedTags[id] = struct{}{}
}

// PutSetting records a settings write.
func (c *ChangeSet) PutSetting(key, value string) {
	c.Settings[key] = value
}

// Empty reports whether there is nothing to write.
func (c ChangeSet) Empty() bool {
	return len(c.Segments) == 0 && len(c.DeletedSegments) == 0 &&
		len(c.Tags) == 0 && len(c.DeletedTags) == 0 && len(c.Settings) == 0
}

// Merge folds newer changes on top of c. Entries in newer win.
func (c *ChangeSet) Merge(newer ChangeSet) {
	for id := range newer.DeletedSegments {
		c.DeleteSegment(id)
	}
	for _, s := range newer.Segments {
		c.PutSegment(s)
	}
	for id := range newer.DeletedTags {
		c.DeleteTag(id)
	}
	for _, t := range newer.Tags {
		c.PutTag(t)
	}
	for k, v := range newer.Settings {
		c.PutSetting(k, v)
	}
}
