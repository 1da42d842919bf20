package gamification_test

import (
	"github.com/frahmantamala/performance-dashboard/internal/gamification"
	"github.com/frahmantamala/performance-dashboard/internal/identity"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func entryIDs(entries []gamification.LeaderboardEntry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.IdentityID)
	}
	return ids
}

func entryRanks(entries []gamification.LeaderboardEntry) []int {
	ranks := make([]int, 0, len(entries))
	for _, e := range entries {
		ranks = append(ranks, e.Rank)
	}
	return ranks
}

var _ = Describe("RankLeaderboard", func() {
	var (
		engine *gamification.Engine
		ids    []*identity.Identity
	)

	BeforeEach(func() {
		engine = gamification.NewEngine(gamification.Config{BaseThreshold: 100})
		ids = identity.DemoIdentities()
	})

	It("should rank by descending xp by default", func() {
		entries := engine.RankLeaderboard(ids, gamification.LeaderboardQuery{})

		xp := make([]int, 0, len(entries))
		for _, e := range entries {
			xp = append(xp, e.XP)
		}
		Expect(xp).To(Equal([]int{750, 520, 410, 320, 150}))
		Expect(entryRanks(entries)).To(Equal([]int{1, 2, 3, 4, 5}))
		Expect(entryIDs(entries)).To(Equal([]string{"user-1", "user-2", "user-4", "user-3", "user-5"}))
	})

	It("should rank independently of input order", func() {
		shuffled := []*identity.Identity{ids[4], ids[2], ids[0], ids[3], ids[1]}
		entries := engine.RankLeaderboard(shuffled, gamification.LeaderboardQuery{SortBy: gamification.SortByXP, Direction: gamification.Descending})

		Expect(entryRanks(entries)).To(Equal([]int{1, 2, 3, 4, 5}))
		Expect(entryIDs(entries)).To(Equal([]string{"user-1", "user-2", "user-4", "user-3", "user-5"}))
	})

	It("should project identity fields", func() {
		entries := engine.RankLeaderboard(ids, gamification.LeaderboardQuery{})
		top := entries[0]

		Expect(top.DisplayName).To(Equal("John Doe"))
		Expect(top.Username).To(Equal("johndoe"))
		Expect(top.Department).To(Equal("Executive"))
		Expect(top.Position).To(Equal("CTO"))
		Expect(top.Level).To(Equal(8))
		Expect(top.BadgeCount).To(Equal(3))
		Expect(top.AvatarURL).NotTo(BeNil())
	})

	It("should carry ranks through other sort keys", func() {
		entries := engine.RankLeaderboard(ids, gamification.LeaderboardQuery{
			SortBy:    gamification.SortByLevel,
			Direction: gamification.Ascending,
		})

		Expect(entryIDs(entries)).To(Equal([]string{"user-5", "user-3", "user-4", "user-2", "user-1"}))
		Expect(entryRanks(entries)).To(Equal([]int{5, 4, 3, 2, 1}))
	})

	It("should sort by badges and keep input order on ties", func() {
		entries := engine.RankLeaderboard(ids, gamification.LeaderboardQuery{
			SortBy:    gamification.SortByBadges,
			Direction: gamification.Descending,
		})

		// user-1 has 3, user-2 has 2, user-3 and user-4 have 1, user-5 has none
		Expect(entryIDs(entries)).To(Equal([]string{"user-1", "user-2", "user-3", "user-4", "user-5"}))
	})

	It("should break equal xp by input order with distinct ranks", func() {
		tied := []*identity.Identity{
			{ID: "a", Username: "a", XP: 100, Level: 1},
			{ID: "b", Username: "b", XP: 300, Level: 2},
			{ID: "c", Username: "c", XP: 100, Level: 1},
			{ID: "d", Username: "d", XP: 100, Level: 1},
		}

		entries := engine.RankLeaderboard(tied, gamification.LeaderboardQuery{})
		Expect(entryIDs(entries)).To(Equal([]string{"b", "a", "c", "d"}))
		Expect(entryRanks(entries)).To(Equal([]int{1, 2, 3, 4}))

		desc := engine.RankLeaderboard(tied, gamification.LeaderboardQuery{
			SortBy:    gamification.SortByXP,
			Direction: gamification.Descending,
		})
		Expect(entryIDs(desc)).To(Equal([]string{"b", "a", "c", "d"}))

		asc := engine.RankLeaderboard(tied, gamification.LeaderboardQuery{
			SortBy:    gamification.SortByXP,
			Direction: gamification.Ascending,
		})
		Expect(entryIDs(asc)).To(Equal([]string{"a", "c", "d", "b"}))
	})

	It("should reverse rank order when descending", func() {
		entries := engine.RankLeaderboard(ids, gamification.LeaderboardQuery{
			SortBy:    gamification.SortByRank,
			Direction: gamification.Descending,
		})
		Expect(entryRanks(entries)).To(Equal([]int{5, 4, 3, 2, 1}))
	})

	It("should fall back to rank ascending for unknown options", func() {
		entries := engine.RankLeaderboard(ids, gamification.LeaderboardQuery{
			SortBy:    "popularity",
			Direction: "sideways",
		})
		Expect(entryRanks(entries)).To(Equal([]int{1, 2, 3, 4, 5}))
	})

	Describe("department filter", func() {
		It("should keep the overall rank numbers", func() {
			entries := engine.RankLeaderboard(ids, gamification.LeaderboardQuery{Department: "engineering"})

			Expect(entryIDs(entries)).To(Equal([]string{"user-2", "user-3", "user-5"}))
			Expect(entryRanks(entries)).To(Equal([]int{2, 4, 5}))
		})

		It("should treat all and empty as no filter", func() {
			Expect(engine.RankLeaderboard(ids, gamification.LeaderboardQuery{Department: "all"})).To(HaveLen(5))
			Expect(engine.RankLeaderboard(ids, gamification.LeaderboardQuery{Department: ""})).To(HaveLen(5))
		})

		It("should return an empty board for an unknown department", func() {
			Expect(engine.RankLeaderboard(ids, gamification.LeaderboardQuery{Department: "Legal"})).To(BeEmpty())
		})
	})

	It("should handle empty input", func() {
		Expect(engine.RankLeaderboard(nil, gamification.LeaderboardQuery{})).To(BeEmpty())
	})

	It("should not mutate the input identities", func() {
		engine.RankLeaderboard(ids, gamification.LeaderboardQuery{SortBy: gamification.SortByLevel})
		Expect(ids[0].ID).To(Equal("user-1"))
		Expect(ids[4].ID).To(Equal("user-5"))
	})
})
