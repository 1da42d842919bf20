package identity

import "time"

type Identity struct {
	ID         string          `gorm:"primaryKey;column:id"`
	SortOrder  int64           `gorm:"column:sort_order;not null;index"`
	Username   string          `gorm:"column:username;not null"`
	Email      string          `gorm:"column:email;uniqueIndex;not null"`
	FirstName  string          `gorm:"column:first_name"`
	LastName   string          `gorm:"column:last_name"`
	Role       string          `gorm:"column:role;not null"`
	Department string          `gorm:"column:department"`
	Position   string          `gorm:"column:position"`
	AvatarURL  *string         `gorm:"column:avatar_url"`
	Level      int             `gorm:"column:level;not null"`
	XP         int             `gorm:"column:xp;not null"`
	JoinedAt   time.Time       `gorm:"column:joined_at"`
	ManagerID  *string         `gorm:"column:manager_id"`
	Badges     []IdentityBadge `gorm:"foreignKey:IdentityID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Identity) TableName() string {
	return "identities"
}

type IdentityBadge struct {
	ID          int64      `gorm:"primaryKey"`
	IdentityID  string     `gorm:"column:identity_id;not null;index"`
	BadgeID     string     `gorm:"column:badge_id;not null"`
	Position    int        `gorm:"column:position;not null"`
	Name        string     `gorm:"column:name;not null"`
	Description string     `gorm:"column:description"`
	ImageURL    string     `gorm:"column:image_url"`
	Category    string     `gorm:"column:category"`
	Rarity      string     `gorm:"column:rarity"`
	XPReward    int        `gorm:"column:xp_reward"`
	UnlockedAt  *time.Time `gorm:"column:unlocked_at"`
}

func (IdentityBadge) TableName() string {
	return "identity_badges"
}
