package ledger

import (
	"github.com/google/uuid"

	"github.com/pkordes/activity-ledger/internal/domain"
)

// ImportLegacy folds legacy records into the ledger, resolving tag names with
// TagForName and inserting segments directly. Records whose id is already
// present or whose range is empty are skipped. Invariant repairs are left to
// the launch-time checks. It returns the number of segments inserted.
func (e *Engine) ImportLegacy(records []domain.LegacyRecord) int {
	inserted := 0
	changed := false
	for _, r := range records {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			id = e.newID()
		}
		if e.indexOf(id) >= 0 {
			continue
		}
		if r.End != nil && !r.Start.Before(*r.End) {
			continue
		}
		tag, created := e.tagForName(r.TagName)
		changed = changed || created

		s := e.newSegment(tag.ID, r.Start, r.End, r.Note)
		s.ID = id
		e.insert(s)
		inserted++
	}
	if inserted > 0 || changed {
		e.commit()
	}
	return inserted
}
