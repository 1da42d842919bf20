package identity

import (
	"errors"
	"strings"
	"time"
)

const (
	DefaultDepartment = "General"
	DefaultPosition   = "New Employee"
)

// Identity is a registered employee record.
type Identity struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Role       Role      `json:"role"`
	Department string    `json:"department"`
	Position   string    `json:"position"`
	AvatarURL  *string   `json:"avatarUrl,omitempty"`
	Level      int       `json:"level"`
	XP         int       `json:"xp"`
	JoinedAt   time.Time `json:"joinedAt"`
	ManagerID  *string   `json:"managerId,omitempty"`
	Badges     []Badge   `json:"badges,omitempty"`
}

type Badge struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ImageURL    string     `json:"imageUrl"`
	Category    string     `json:"category"`
	Rarity      string     `json:"rarity"`
	XPReward    int        `json:"xpReward"`
	UnlockedAt  *time.Time `json:"unlockedAt,omitempty"`
}

func (b Badge) Unlocked() bool {
	return b.UnlockedAt != nil
}

// Profile carries the caller-supplied fields of a registration.
type Profile struct {
	Username   string
	Email      string
	FirstName  string
	LastName   string
	Role       Role
	Department string
	Position   string
	AvatarURL  *string
}

var (
	ErrNotFound       = errors.New("identity not found")
	ErrDuplicateEmail = errors.New("identity email already exists")
)

// NewIdentity builds a fresh level 1, zero XP identity from a registration
// profile. Unset or unknown roles become employee.
func NewIdentity(id string, p Profile, joinedAt time.Time) *Identity {
	role := p.Role
	if !role.Valid() {
		role = RoleEmployee
	}
	department := p.Department
	if department == "" {
		department = DefaultDepartment
	}
	position := p.Position
	if position == "" {
		position = DefaultPosition
	}

	return &Identity{
		ID:         id,
		Username:   p.Username,
		Email:      p.Email,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Role:       role,
		Department: department,
		Position:   position,
		AvatarURL:  cloneString(p.AvatarURL),
		Level:      1,
		XP:         0,
		JoinedAt:   joinedAt,
	}
}

func (i *Identity) DisplayName() string {
	name := strings.TrimSpace(i.FirstName + " " + i.LastName)
	if name == "" {
		return i.Username
	}
	return name
}

// UnlockedBadges returns the badges that carry an unlock timestamp.
func (i *Identity) UnlockedBadges() []Badge {
	var unlocked []Badge
	for _, b := range i.Badges {
		if b.Unlocked() {
			unlocked = append(unlocked, b)
		}
	}
	return unlocked
}

// Clone returns a deep copy so callers cannot mutate stored records.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	c := *i
	c.AvatarURL = cloneString(i.AvatarURL)
	c.ManagerID = cloneString(i.ManagerID)
	if i.Badges != nil {
		c.Badges = make([]Badge, len(i.Badges))
		for n, b := range i.Badges {
			c.Badges[n] = b
			if b.UnlockedAt != nil {
				t := *b.UnlockedAt
				c.Badges[n].UnlockedAt = &t
			}
		}
	}
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
