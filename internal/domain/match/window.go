package match

import "sort"

// SelectWindow returns the most recent limit matches in which teamID played
// the given venue role, newest first. With requireCompleted set, only
// finished fixtures qualify; cancelled-like fixtures are excluded either
// way, since they carry no playable statistics. Undated matches sort after
// all dated ones and keep their relative input order. Fewer than limit
// results is the normal case when history is short, not an error.
func SelectWindow(matches []Match, teamID string, role VenueRole, limit int, requireCompleted bool) []Match {
	if limit <= 0 || teamID == "" {
		return nil
	}

	selected := make([]Match, 0, len(matches))
	for _, m := range matches {
		if !m.Plays(teamID, role) {
			continue
		}
		if requireCompleted && !IsFinishedStatus(m.Status) {
			continue
		}
		if IsCancelledLikeStatus(m.Status) {
			continue
		}
		selected = append(selected, m)
	}

	sort.SliceStable(selected, func(i, j int) bool {
		left, right := selected[i].DateUnix, selected[j].DateUnix
		if left <= 0 || right <= 0 {
			// Undated entries never move ahead of dated ones and never
			// reorder among themselves.
			return left > 0 && right <= 0
		}
		return left > right
	})

	if len(selected) > limit {
		selected = selected[:limit]
	}

	return selected
}
