// Package gamification holds the XP, level and leaderboard rules.
package gamification

import (
	"math"

	"github.com/frahmantamala/performance-dashboard/internal"
	"github.com/frahmantamala/performance-dashboard/internal/core/common/validation"
	"github.com/frahmantamala/performance-dashboard/internal/identity"
)

const DefaultBaseThreshold = 100

type Action string

const (
	ActionGoalCompleted            Action = "goal_completed"
	ActionCourseCompleted          Action = "course_completed"
	ActionFeedbackGiven            Action = "feedback_given"
	ActionPositiveFeedbackReceived Action = "positive_feedback_received"
	ActionDailyCheckIn             Action = "daily_check_in"
	ActionCourseModuleCompleted    Action = "course_module_completed"
)

func DefaultRewards() map[Action]int {
	return map[Action]int{
		ActionGoalCompleted:            50,
		ActionCourseCompleted:          30,
		ActionFeedbackGiven:            10,
		ActionPositiveFeedbackReceived: 15,
		ActionDailyCheckIn:             5,
		ActionCourseModuleCompleted:    20,
	}
}

type Config struct {
	BaseThreshold int
	Rewards       map[Action]int
}

// Engine applies the progression rules to identities it is handed. It keeps
// no state of its own beyond configuration.
type Engine struct {
	base    int
	rewards map[Action]int
}

// NewEngine falls back to the default threshold below 1 and to the default
// reward table when none is given.
func NewEngine(cfg Config) *Engine {
	base := cfg.BaseThreshold
	if base < 1 {
		base = DefaultBaseThreshold
	}
	rewards := cfg.Rewards
	if len(rewards) == 0 {
		rewards = DefaultRewards()
	}

	e := &Engine{base: base, rewards: make(map[Action]int, len(rewards))}
	for action, amount := range rewards {
		e.rewards[action] = amount
	}
	return e
}

// NewEngineFromConfig validates the configured threshold and reward table
// before building the engine.
func NewEngineFromConfig(cfg internal.GamificationConfig) (*Engine, error) {
	if appErr := validation.ValidateGamification(cfg.BaseThreshold, cfg.XPRewards); appErr != nil {
		return nil, appErr
	}

	rewards := make(map[Action]int, len(cfg.XPRewards))
	for action, amount := range cfg.XPRewards {
		rewards[Action(action)] = amount
	}
	return NewEngine(Config{BaseThreshold: cfg.BaseThreshold, Rewards: rewards}), nil
}

func (e *Engine) BaseThreshold() int {
	return e.base
}

// XPRequiredForLevel is the XP needed to advance from level to level+1. It
// saturates at math.MaxInt.
func (e *Engine) XPRequiredForLevel(level int) int {
	if level > math.MaxInt/e.base {
		return math.MaxInt
	}
	return level * e.base
}

// LevelProgressPercent is the progress towards the next level, clamped to
// [0, 100].
func (e *Engine) LevelProgressPercent(xp, level int) float64 {
	required := e.XPRequiredForLevel(level)
	if required <= 0 {
		return 0
	}

	pct := float64(xp) / float64(required) * 100
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	default:
		return pct
	}
}

// AwardXP adds amount to id and rolls surplus XP into new levels until the
// remaining XP is below the next threshold. It returns the number of levels
// gained. Non-positive amounts change nothing and XP saturates at math.MaxInt.
func (e *Engine) AwardXP(id *identity.Identity, amount int) int {
	if id == nil || amount <= 0 {
		return 0
	}
	if id.Level < 1 {
		id.Level = 1
	}
	if id.XP < 0 {
		id.XP = 0
	}

	if amount > math.MaxInt-id.XP {
		id.XP = math.MaxInt
	} else {
		id.XP += amount
	}
	gained := 0
	for required := e.XPRequiredForLevel(id.Level); id.XP >= required; required = e.XPRequiredForLevel(id.Level) {
		id.XP -= required
		id.Level++
		gained++
	}
	return gained
}

func (e *Engine) RewardFor(action Action) (int, bool) {
	amount, ok := e.rewards[action]
	return amount, ok
}

// AwardAction awards the XP configured for action. ok is false for an action
// with no configured reward, in which case id is untouched.
func (e *Engine) AwardAction(id *identity.Identity, action Action) (amount, levelsGained int, ok bool) {
	amount, ok = e.RewardFor(action)
	if !ok {
		return 0, 0, false
	}
	return amount, e.AwardXP(id, amount), true
}

// BadgeCount counts badges that carry an unlock timestamp.
func (e *Engine) BadgeCount(id *identity.Identity) int {
	if id == nil {
		return 0
	}
	return len(id.UnlockedBadges())
}
