package app

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"smarttest-quiz-service/internal/domain"
)

// RankingSize caps how many entries a ranking returns.
const RankingSize = 20

// SeedRanking is the static leaderboard every ranking starts from.
func SeedRanking() []domain.LeaderboardEntry {
	return []domain.LeaderboardEntry{
		{ID: "seed-1", Name: "Carlos Silva", Points: 2450, AvatarInitial: "C"},
		{ID: "seed-2", Name: "Ana Oliveira", Points: 2320, AvatarInitial: "A"},
		{ID: "seed-3", Name: "Maria Santos", Points: 2150, AvatarInitial: "M"},
		{ID: "seed-4", Name: "Pedro Costa", Points: 1980, AvatarInitial: "P"},
	}
}

// Rank merges seed entries with live users, sorts by points descending (ties keep input order)
// and assigns 1-based positions. At most RankingSize entries are returned.
func Rank(seed []domain.LeaderboardEntry, users []domain.UserAccount) []domain.LeaderboardEntry {
	entries := make([]domain.LeaderboardEntry, 0, len(seed)+len(users))
	entries = append(entries, seed...)
	for _, u := range users {
		entries = append(entries, domain.LeaderboardEntry{
			ID:            u.ID,
			Name:          u.Name,
			Points:        u.Points,
			AvatarInitial: avatarInitial(u.Name),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Points > entries[j].Points
	})
	for i := range entries {
		entries[i].Position = i + 1
	}
	if len(entries) > RankingSize {
		entries = entries[:RankingSize]
	}
	return entries
}

func avatarInitial(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r))
}
