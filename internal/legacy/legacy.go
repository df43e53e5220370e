// Package legacy reads the pre-ledger history file and folds it into the
// ledger exactly once.
//
// The file is a YAML (or JSON) list of entries:
//
//	- id: 0b6f...        # optional; a new id is generated when missing or invalid
//	  tag: Work          # "tagName" is accepted too
//	  start: 2025-06-02T09:00:00Z
//	  end: 2025-06-02T10:00:00Z   # optional; absent means still running
//	  note: standup
package legacy

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pkordes/activity-ledger/internal/domain"
)

type entry struct {
	ID      string `yaml:"id"`
	Tag     string `yaml:"tag"`
	TagName string `yaml:"tagName"`
	Start   string `yaml:"start"`
	End     string `yaml:"end"`
	Note    string `yaml:"note"`
}

// Decode parses legacy entries from r. Entries are all-or-nothing: one
// malformed timestamp fails the whole file.
func Decode(r io.Reader) ([]domain.LegacyRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("legacy.Decode: read: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var entries []entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("legacy.Decode: parse: %w", err)
	}

	records := make([]domain.LegacyRecord, 0, len(entries))
	for i, e := range entries {
		start, err := parseTime(e.Start)
		if err != nil {
			return nil, fmt.Errorf("legacy.Decode: entry %d start: %w", i, err)
		}
		rec := domain.LegacyRecord{
			ID:      e.ID,
			TagName: e.Tag,
			Start:   start,
			Note:    e.Note,
		}
		if rec.TagName == "" {
			rec.TagName = e.TagName
		}
		if strings.TrimSpace(e.End) != "" {
			end, err := parseTime(e.End)
			if err != nil {
				return nil, fmt.Errorf("legacy.Decode: entry %d end: %w", i, err)
			}
			rec.End = &end
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("missing timestamp")
	}
	return time.Parse(time.RFC3339Nano, s)
}

// Target is the ledger surface the import needs. *ledger.Engine satisfies it.
type Target interface {
	Setting(key string) string
	SetSetting(key, value string)
	ImportLegacy(records []domain.LegacyRecord) int
}

// ImportOnce imports path into t unless the imported marker is already set.
// Any read or decode failure is logged and the marker is still set, so a bad
// file is never retried. It returns the number of segments inserted.
func ImportOnce(path string, t Target, log *slog.Logger) int {
	if path == "" || t.Setting(domain.SettingLegacyImported) == "true" {
		return 0
	}
	defer t.SetSetting(domain.SettingLegacyImported, "true")

	f, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn("legacy: open failed; skipping import", "path", path, "error", err)
		}
		return 0
	}
	defer f.Close()

	records, err := Decode(f)
	if err != nil {
		log.Warn("legacy: decode failed; skipping import", "path", path, "error", err)
		return 0
	}

	n := t.ImportLegacy(records)
	log.Info("legacy: imported", "path", path, "records", len(records), "inserted", n)
	return n
}
