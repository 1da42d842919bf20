package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeIdentityRegistered = "identity.registered"
	EventTypeIdentityLoggedIn   = "identity.logged_in"
	EventTypeIdentityLoggedOut  = "identity.logged_out"
	EventTypeXPAwarded          = "xp.awarded"
	EventTypeLevelUp            = "level.up"
)

type SessionEvent struct {
	BaseEvent
	IdentityID string `json:"identity_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
}

func newSessionEvent(eventType, identityID, email, role string) *SessionEvent {
	return &SessionEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"identity_id": identityID,
				"email":       email,
				"role":        role,
			},
		},
		IdentityID: identityID,
		Email:      email,
		Role:       role,
	}
}

func NewIdentityRegisteredEvent(identityID, email, role string) *SessionEvent {
	return newSessionEvent(EventTypeIdentityRegistered, identityID, email, role)
}

func NewIdentityLoggedInEvent(identityID, email, role string) *SessionEvent {
	return newSessionEvent(EventTypeIdentityLoggedIn, identityID, email, role)
}

func NewIdentityLoggedOutEvent(identityID, email, role string) *SessionEvent {
	return newSessionEvent(EventTypeIdentityLoggedOut, identityID, email, role)
}

type XPAwardedEvent struct {
	BaseEvent
	IdentityID string `json:"identity_id"`
	Action     string `json:"action"`
	Amount     int    `json:"amount"`
	XP         int    `json:"xp"`
	Level      int    `json:"level"`
}

func NewXPAwardedEvent(identityID, action string, amount, xp, level int) *XPAwardedEvent {
	return &XPAwardedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeXPAwarded,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"identity_id": identityID,
				"action":      action,
				"amount":      amount,
				"xp":          xp,
				"level":       level,
			},
		},
		IdentityID: identityID,
		Action:     action,
		Amount:     amount,
		XP:         xp,
		Level:      level,
	}
}

type LevelUpEvent struct {
	BaseEvent
	IdentityID   string `json:"identity_id"`
	FromLevel    int    `json:"from_level"`
	ToLevel      int    `json:"to_level"`
	LevelsGained int    `json:"levels_gained"`
}

func NewLevelUpEvent(identityID string, fromLevel, toLevel int) *LevelUpEvent {
	return &LevelUpEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLevelUp,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"identity_id": identityID,
				"from_level":  fromLevel,
				"to_level":    toLevel,
			},
		},
		IdentityID:   identityID,
		FromLevel:    fromLevel,
		ToLevel:      toLevel,
		LevelsGained: toLevel - fromLevel,
	}
}
