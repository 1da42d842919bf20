package gamification_test

import (
	"errors"
	"math"

	"github.com/frahmantamala/performance-dashboard/internal"
	"github.com/frahmantamala/performance-dashboard/internal/gamification"
	"github.com/frahmantamala/performance-dashboard/internal/identity"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Engine", func() {
	var engine *gamification.Engine

	BeforeEach(func() {
		engine = gamification.NewEngine(gamification.Config{BaseThreshold: 100})
	})

	Describe("XPRequiredForLevel", func() {
		DescribeTable("should be level times the base threshold",
			func(level, expected int) {
				Expect(engine.XPRequiredForLevel(level)).To(Equal(expected))
			},
			Entry("level 1", 1, 100),
			Entry("level 2", 2, 200),
			Entry("level 5", 5, 500),
			Entry("level 8", 8, 800),
		)

		It("should follow a custom threshold", func() {
			custom := gamification.NewEngine(gamification.Config{BaseThreshold: 250})
			for level := 1; level <= 20; level++ {
				Expect(custom.XPRequiredForLevel(level)).To(Equal(level * 250))
			}
		})

		It("should fall back to the default threshold", func() {
			fallback := gamification.NewEngine(gamification.Config{})
			Expect(fallback.BaseThreshold()).To(Equal(gamification.DefaultBaseThreshold))
			Expect(fallback.XPRequiredForLevel(3)).To(Equal(300))
		})

		It("should saturate instead of overflowing", func() {
			Expect(engine.XPRequiredForLevel(math.MaxInt)).To(Equal(math.MaxInt))

			huge := gamification.NewEngine(gamification.Config{BaseThreshold: math.MaxInt / 4})
			Expect(huge.XPRequiredForLevel(4)).To(Equal(4 * (math.MaxInt / 4)))
			Expect(huge.XPRequiredForLevel(5)).To(Equal(math.MaxInt))
		})
	})

	Describe("LevelProgressPercent", func() {
		It("should compute the share of the current threshold", func() {
			Expect(engine.LevelProgressPercent(50, 1)).To(BeNumerically("~", 50, 1e-9))
			Expect(engine.LevelProgressPercent(150, 2)).To(BeNumerically("~", 75, 1e-9))
			Expect(engine.LevelProgressPercent(0, 4)).To(BeZero())
		})

		It("should be monotonic in xp and clamped to 100", func() {
			for level := 1; level <= 6; level++ {
				prev := -1.0
				for xp := 0; xp <= 2*engine.XPRequiredForLevel(level); xp += 7 {
					pct := engine.LevelProgressPercent(xp, level)
					Expect(pct).To(BeNumerically(">=", prev))
					Expect(pct).To(BeNumerically(">=", 0))
					Expect(pct).To(BeNumerically("<=", 100))
					prev = pct
				}
				Expect(engine.LevelProgressPercent(engine.XPRequiredForLevel(level), level)).To(Equal(100.0))
			}
		})

		It("should never go negative or divide by zero", func() {
			Expect(engine.LevelProgressPercent(-40, 1)).To(BeZero())
			Expect(engine.LevelProgressPercent(10, 0)).To(BeZero())
		})
	})

	Describe("AwardXP", func() {
		It("should roll surplus xp into the next level", func() {
			id := &identity.Identity{Level: 1, XP: 90}
			gained := engine.AwardXP(id, 30)

			Expect(gained).To(Equal(1))
			Expect(id.Level).To(Equal(2))
			Expect(id.XP).To(Equal(20))
		})

		It("should roll over several levels at once", func() {
			id := &identity.Identity{Level: 1, XP: 0}
			gained := engine.AwardXP(id, 650)

			// 650 - 100 - 200 - 300 = 50 at level 4
			Expect(gained).To(Equal(3))
			Expect(id.Level).To(Equal(4))
			Expect(id.XP).To(Equal(50))
		})

		It("should level up on reaching the threshold exactly", func() {
			id := &identity.Identity{Level: 2, XP: 150}
			Expect(engine.AwardXP(id, 50)).To(Equal(1))
			Expect(id.Level).To(Equal(3))
			Expect(id.XP).To(BeZero())
		})

		It("should only accumulate below the threshold", func() {
			id := &identity.Identity{Level: 8, XP: 750}
			Expect(engine.AwardXP(id, 10)).To(BeZero())
			Expect(id.Level).To(Equal(8))
			Expect(id.XP).To(Equal(760))
		})

		It("should keep xp below the current threshold afterwards", func() {
			for _, amount := range []int{1, 5, 99, 100, 101, 1234, 98765} {
				id := &identity.Identity{Level: 1, XP: 0}
				engine.AwardXP(id, amount)
				Expect(id.XP).To(BeNumerically("<", engine.XPRequiredForLevel(id.Level)))
				Expect(id.XP).To(BeNumerically(">=", 0))
			}
		})

		It("should ignore non-positive amounts", func() {
			id := &identity.Identity{Level: 3, XP: 40}
			Expect(engine.AwardXP(id, 0)).To(BeZero())
			Expect(engine.AwardXP(id, -25)).To(BeZero())
			Expect(id.Level).To(Equal(3))
			Expect(id.XP).To(Equal(40))
		})

		It("should cap xp near the integer limit instead of wrapping", func() {
			huge := gamification.NewEngine(gamification.Config{BaseThreshold: math.MaxInt / 4})
			id := &identity.Identity{Level: 1, XP: 50}

			Expect(huge.AwardXP(id, math.MaxInt-10)).To(Equal(2))
			Expect(id.Level).To(Equal(3))
			Expect(id.XP).To(Equal(math.MaxInt - 3*(math.MaxInt/4)))
			Expect(id.XP).To(BeNumerically(">=", 0))
			Expect(id.XP).To(BeNumerically("<", huge.XPRequiredForLevel(id.Level)))
		})

		It("should reset negative xp before awarding", func() {
			id := &identity.Identity{Level: 2, XP: -500}
			Expect(engine.AwardXP(id, 30)).To(BeZero())
			Expect(id.Level).To(Equal(2))
			Expect(id.XP).To(Equal(30))
		})
	})

	Describe("AwardAction", func() {
		DescribeTable("should award the configured reward",
			func(action gamification.Action, expected int) {
				id := &identity.Identity{Level: 10, XP: 0}
				amount, gained, ok := engine.AwardAction(id, action)
				Expect(ok).To(BeTrue())
				Expect(amount).To(Equal(expected))
				Expect(gained).To(BeZero())
				Expect(id.XP).To(Equal(expected))
			},
			Entry("goal completed", gamification.ActionGoalCompleted, 50),
			Entry("course completed", gamification.ActionCourseCompleted, 30),
			Entry("feedback given", gamification.ActionFeedbackGiven, 10),
			Entry("positive feedback received", gamification.ActionPositiveFeedbackReceived, 15),
			Entry("daily check in", gamification.ActionDailyCheckIn, 5),
			Entry("course module completed", gamification.ActionCourseModuleCompleted, 20),
		)

		It("should refuse an unknown action", func() {
			id := &identity.Identity{Level: 1, XP: 10}
			_, _, ok := engine.AwardAction(id, "won_hackathon")
			Expect(ok).To(BeFalse())
			Expect(id.XP).To(Equal(10))
		})

		It("should use a custom reward table", func() {
			custom := gamification.NewEngine(gamification.Config{
				BaseThreshold: 100,
				Rewards:       map[gamification.Action]int{"won_hackathon": 500},
			})
			amount, ok := custom.RewardFor("won_hackathon")
			Expect(ok).To(BeTrue())
			Expect(amount).To(Equal(500))

			_, ok = custom.RewardFor(gamification.ActionGoalCompleted)
			Expect(ok).To(BeFalse())
		})
	})

	Describe("BadgeCount", func() {
		It("should count only unlocked badges", func() {
			ids := identity.DemoIdentities()
			Expect(engine.BadgeCount(ids[0])).To(Equal(3))
			Expect(engine.BadgeCount(ids[2])).To(Equal(1))
			Expect(engine.BadgeCount(ids[4])).To(BeZero())
			Expect(engine.BadgeCount(nil)).To(BeZero())
		})
	})

	Describe("NewEngineFromConfig", func() {
		It("should build from valid configuration", func() {
			cfg := internal.DefaultConfig().Gamification
			built, err := gamification.NewEngineFromConfig(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(built.XPRequiredForLevel(2)).To(Equal(200))

			amount, ok := built.RewardFor(gamification.ActionDailyCheckIn)
			Expect(ok).To(BeTrue())
			Expect(amount).To(Equal(5))
		})

		It("should reject a non-positive threshold or reward", func() {
			_, err := gamification.NewEngineFromConfig(internal.GamificationConfig{
				BaseThreshold: 0,
				XPRewards:     map[string]int{"goal_completed": -5},
			})
			Expect(err).To(HaveOccurred())

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			details, ok := appErr.Details.(internal.ValidationErrors)
			Expect(ok).To(BeTrue())
			Expect(details.Errors).To(HaveLen(2))
			Expect(details.Errors[0].Field).To(Equal("base_threshold"))
			Expect(details.Errors[1].Field).To(Equal("xp_rewards.goal_completed"))
		})
	})
})
