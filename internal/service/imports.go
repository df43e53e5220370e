package service

import (
	"fmt"
	"io"

	"github.com/pkordes/activity-ledger/internal/domain"
	"github.com/pkordes/activity-ledger/internal/legacy"
)

// ImportLegacy decodes a history file from r and folds it into the ledger
// regardless of the imported marker, then marks the import done so the
// startup import does not run again. It returns the segments inserted.
func (l *Ledger) ImportLegacy(r io.Reader) (int, error) {
	records, err := legacy.Decode(r)
	if err != nil {
		return 0, fmt.Errorf("service.Ledger.ImportLegacy: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	n := l.engine.ImportLegacy(records)
	l.engine.SetSetting(domain.SettingLegacyImported, "true")
	if n > 0 {
		l.engine.EnsureSingleRunningSegment(l.clock.Now())
		l.engine.NormalizeSegmentsAcrossMidnight()
	}
	return n, nil
}
