package history

import (
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/doeshing/wtf-go/internal/domain"
)

// FormatRelativeTime labels ts relative to now. Timestamps in the future
// count as "just now".
func FormatRelativeTime(ts, now time.Time) string {
	delta := now.Sub(ts)
	if delta < 0 {
		delta = 0
	}

	days := int(delta / (24 * time.Hour))
	switch {
	case days == 0 && delta < time.Minute:
		return "just now"
	case days == 0 && delta < time.Hour:
		return fmt.Sprintf("%dm ago", int(delta/time.Minute))
	case days == 0:
		return fmt.Sprintf("%dh ago", int(delta/time.Hour))
	case days == 1:
		return "yesterday"
	case days < 7:
		return fmt.Sprintf("%dd ago", days)
	default:
		return ts.Format(domain.DateFormat)
	}
}

// Recent returns the newest limit entries, newest first, labelled relative
// to now. A limit of zero or less returns every entry.
func Recent(entries []domain.HistoryEntry, limit int, now time.Time) []domain.HistoryView {
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	newestFirst := lo.Reverse(append([]domain.HistoryEntry(nil), entries...))
	return lo.Map(newestFirst, func(entry domain.HistoryEntry, _ int) domain.HistoryView {
		return domain.HistoryView{Entry: entry, When: FormatRelativeTime(entry.Timestamp, now)}
	})
}
