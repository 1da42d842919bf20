package gamification_test

import (
	"context"
	"errors"

	"github.com/frahmantamala/performance-dashboard/internal"
	"github.com/frahmantamala/performance-dashboard/internal/core/events"
	"github.com/frahmantamala/performance-dashboard/internal/gamification"
	"github.com/frahmantamala/performance-dashboard/internal/identity"
	"github.com/frahmantamala/performance-dashboard/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// brokenStore fails every write.
type brokenStore struct {
	identity.Store
}

func (brokenStore) Update(context.Context, *identity.Identity) error {
	return errors.New("connection reset")
}

var _ = Describe("Service", func() {
	var (
		ctx     context.Context
		store   *identity.MemoryStore
		bus     *events.EventBus
		service *gamification.Service
		seen    []events.Event
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = identity.NewMemoryStore(identity.DemoIdentities()...)
		bus = events.NewEventBus(logger.Discard())
		seen = nil

		record := func(_ context.Context, e events.Event) error {
			seen = append(seen, e)
			return nil
		}
		bus.Subscribe(events.EventTypeXPAwarded, record)
		bus.Subscribe(events.EventTypeLevelUp, record)

		engine := gamification.NewEngine(gamification.Config{BaseThreshold: 100})
		service = gamification.NewService(store, engine, bus, logger.Discard())
	})

	Describe("RecordAction", func() {
		It("should award and save xp", func() {
			award, err := service.RecordAction(ctx, "user-3", gamification.ActionGoalCompleted)
			Expect(err).NotTo(HaveOccurred())
			Expect(award.Amount).To(Equal(50))
			Expect(award.LevelsGained).To(BeZero())
			Expect(award.Identity.XP).To(Equal(370))

			saved, err := store.FindByID(ctx, "user-3")
			Expect(err).NotTo(HaveOccurred())
			Expect(saved.XP).To(Equal(370))
			Expect(saved.Level).To(Equal(4))

			Expect(seen).To(HaveLen(1))
			awarded, ok := seen[0].(*events.XPAwardedEvent)
			Expect(ok).To(BeTrue())
			Expect(awarded.IdentityID).To(Equal("user-3"))
			Expect(awarded.Amount).To(Equal(50))
		})

		It("should level up and publish the change", func() {
			// user-1 sits at 750 of 800 on level 8
			award, err := service.RecordAction(ctx, "user-1", gamification.ActionGoalCompleted)
			Expect(err).NotTo(HaveOccurred())
			Expect(award.LevelsGained).To(Equal(1))
			Expect(award.Identity.Level).To(Equal(9))
			Expect(award.Identity.XP).To(BeZero())

			Expect(seen).To(HaveLen(2))
			up, ok := seen[1].(*events.LevelUpEvent)
			Expect(ok).To(BeTrue())
			Expect(up.FromLevel).To(Equal(8))
			Expect(up.ToLevel).To(Equal(9))
		})

		It("should reject an unknown action", func() {
			_, err := service.RecordAction(ctx, "user-3", "slept_in")
			Expect(err).To(MatchError(internal.ErrUnknownAction))
			Expect(seen).To(BeEmpty())
		})

		It("should report a missing identity", func() {
			_, err := service.RecordAction(ctx, "user-404", gamification.ActionDailyCheckIn)
			Expect(err).To(MatchError(internal.ErrIdentityNotFound))
		})

		It("should surface a failed save", func() {
			failing := gamification.NewService(brokenStore{store}, service.Engine(), bus, logger.Discard())
			_, err := failing.RecordAction(ctx, "user-3", gamification.ActionDailyCheckIn)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
			Expect(seen).To(BeEmpty())
		})
	})

	Describe("Leaderboard", func() {
		It("should rank the stored identities", func() {
			entries, err := service.Leaderboard(ctx, gamification.LeaderboardQuery{})
			Expect(err).NotTo(HaveOccurred())
			Expect(entryRanks(entries)).To(Equal([]int{1, 2, 3, 4, 5}))
			Expect(entries[0].IdentityID).To(Equal("user-1"))
		})

		It("should reflect recorded actions", func() {
			for i := 0; i < 5; i++ {
				_, err := service.RecordAction(ctx, "user-5", gamification.ActionCourseCompleted)
				Expect(err).NotTo(HaveOccurred())
			}
			// 150 + 150 rolls level 2 into level 3 with 100 left
			entries, err := service.Leaderboard(ctx, gamification.LeaderboardQuery{
				SortBy:    gamification.SortByLevel,
				Direction: gamification.Descending,
			})
			Expect(err).NotTo(HaveOccurred())

			last := entries[len(entries)-1]
			Expect(last.IdentityID).To(Equal("user-5"))
			Expect(last.Level).To(Equal(3))
			Expect(last.XP).To(Equal(100))
		})
	})

	Describe("Progress", func() {
		It("should describe the current level", func() {
			p, err := service.Progress(ctx, "user-4")
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Level).To(Equal(5))
			Expect(p.XP).To(Equal(410))
			Expect(p.Required).To(Equal(500))
			Expect(p.Percent).To(BeNumerically("~", 82, 1e-9))
			Expect(p.BadgeCount).To(Equal(1))
		})

		It("should report a missing identity", func() {
			_, err := service.Progress(ctx, "nobody")
			Expect(err).To(MatchError(internal.ErrIdentityNotFound))
		})
	})
})
