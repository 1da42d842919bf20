package gamification

import (
	"sort"
	"strings"

	"github.com/frahmantamala/performance-dashboard/internal/identity"
)

type SortKey string

const (
	SortByRank   SortKey = "rank"
	SortByLevel  SortKey = "level"
	SortByXP     SortKey = "xp"
	SortByBadges SortKey = "badges"
)

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

const AllDepartments = "all"

type LeaderboardQuery struct {
	SortBy     SortKey
	Direction  Direction
	Department string
}

// LeaderboardEntry is a read-only projection of an identity for ranking.
type LeaderboardEntry struct {
	IdentityID  string  `json:"id"`
	DisplayName string  `json:"name"`
	Username    string  `json:"username"`
	Department  string  `json:"department"`
	Position    string  `json:"position"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`
	Level       int     `json:"level"`
	XP          int     `json:"xp"`
	BadgeCount  int     `json:"badges"`
	Rank        int     `json:"rank"`
}

// RankLeaderboard assigns ranks 1..N by descending XP, with equal XP keeping
// input order, then filters by department and orders rows by the requested
// key. Filtering and sorting never renumber ranks. Unknown sort keys fall
// back to rank and unknown directions to ascending. Ties keep input order in
// either direction.
func (e *Engine) RankLeaderboard(ids []*identity.Identity, q LeaderboardQuery) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(ids))
	for _, id := range ids {
		if id == nil {
			continue
		}
		entries = append(entries, LeaderboardEntry{
			IdentityID:  id.ID,
			DisplayName: id.DisplayName(),
			Username:    id.Username,
			Department:  id.Department,
			Position:    id.Position,
			AvatarURL:   id.AvatarURL,
			Level:       id.Level,
			XP:          id.XP,
			BadgeCount:  e.BadgeCount(id),
		})
	}

	byXP := make([]int, len(entries))
	for i := range byXP {
		byXP[i] = i
	}
	sort.SliceStable(byXP, func(a, b int) bool {
		return entries[byXP[a]].XP > entries[byXP[b]].XP
	})
	for rank, i := range byXP {
		entries[i].Rank = rank + 1
	}

	entries = filterDepartment(entries, q.Department)

	key := sortKey(q.SortBy)
	desc := q.Direction == Descending
	sort.SliceStable(entries, func(a, b int) bool {
		x, y := key(entries[a]), key(entries[b])
		if desc {
			return x > y
		}
		return x < y
	})

	return entries
}

func filterDepartment(entries []LeaderboardEntry, department string) []LeaderboardEntry {
	department = strings.TrimSpace(department)
	if department == "" || strings.EqualFold(department, AllDepartments) {
		return entries
	}

	filtered := entries[:0]
	for _, entry := range entries {
		if strings.EqualFold(entry.Department, department) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

func sortKey(by SortKey) func(LeaderboardEntry) int {
	switch by {
	case SortByLevel:
		return func(e LeaderboardEntry) int { return e.Level }
	case SortByXP:
		return func(e LeaderboardEntry) int { return e.XP }
	case SortByBadges:
		return func(e LeaderboardEntry) int { return e.BadgeCount }
	default:
		return func(e LeaderboardEntry) int { return e.Rank }
	}
}
