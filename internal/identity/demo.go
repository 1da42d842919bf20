package identity

import "time"

func demoTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func demoUnlocked(s string) *time.Time {
	t := demoTime(s)
	return &t
}

func demoRef(s string) *string {
	return &s
}

// DemoBadges is the badge catalog shipped with the demo dataset.
func DemoBadges() []Badge {
	return []Badge{
		{
			ID:          "badge-1",
			Name:        "Feedback Champion",
			Description: "Provided feedback to 10 team members",
			ImageURL:    "/badges/feedback-champion.svg",
			Category:    "performance",
			Rarity:      "uncommon",
			XPReward:    50,
			UnlockedAt:  demoUnlocked("2023-10-10T11:20:00Z"),
		},
		{
			ID:          "badge-2",
			Name:        "Learning Enthusiast",
			Description: "Completed 5 learning courses",
			ImageURL:    "/badges/learning-enthusiast.svg",
			Category:    "learning",
			Rarity:      "rare",
			XPReward:    100,
			UnlockedAt:  demoUnlocked("2023-09-28T15:45:00Z"),
		},
		{
			ID:          "badge-3",
			Name:        "Goal Crusher",
			Description: "Completed 10 goals ahead of schedule",
			ImageURL:    "/badges/goal-crusher.svg",
			Category:    "performance",
			Rarity:      "epic",
			XPReward:    150,
		},
		{
			ID:          "badge-4",
			Name:        "Team Player",
			Description: "Collaborated on 5 cross-team projects",
			ImageURL:    "/badges/team-player.svg",
			Category:    "etiquette",
			Rarity:      "common",
			XPReward:    30,
			UnlockedAt:  demoUnlocked("2023-08-15T09:30:00Z"),
		},
		{
			ID:          "badge-5",
			Name:        "Innovation Star",
			Description: "Had an idea implemented company-wide",
			ImageURL:    "/badges/innovation-star.svg",
			Category:    "special",
			Rarity:      "legendary",
			XPReward:    200,
		},
	}
}

func pickBadges(catalog []Badge, ids ...string) []Badge {
	var out []Badge
	for _, id := range ids {
		for _, b := range catalog {
			if b.ID == id {
				out = append(out, b)
			}
		}
	}
	return out
}

// DemoIdentities returns fresh copies of the five seeded employees.
func DemoIdentities() []*Identity {
	catalog := DemoBadges()

	return []*Identity{
		{
			ID:         "user-1",
			Username:   "johndoe",
			Email:      "admin@example.com",
			FirstName:  "John",
			LastName:   "Doe",
			Role:       RoleAdmin,
			Department: "Executive",
			Position:   "CTO",
			AvatarURL:  demoRef("https://i.pravatar.cc/150?u=user-1"),
			Level:      8,
			XP:         750,
			JoinedAt:   demoTime("2020-01-15T00:00:00Z"),
			Badges:     pickBadges(catalog, "badge-1", "badge-2", "badge-3", "badge-4", "badge-5"),
		},
		{
			ID:         "user-2",
			Username:   "janesmith",
			Email:      "manager@example.com",
			FirstName:  "Jane",
			LastName:   "Smith",
			Role:       RoleTeamLead,
			Department: "Engineering",
			Position:   "Engineering Manager",
			AvatarURL:  demoRef("https://i.pravatar.cc/150?u=user-2"),
			Level:      6,
			XP:         520,
			JoinedAt:   demoTime("2020-03-10T00:00:00Z"),
			ManagerID:  demoRef("user-1"),
			Badges:     pickBadges(catalog, "badge-1", "badge-4"),
		},
		{
			ID:         "user-3",
			Username:   "bobwilson",
			Email:      "employee@example.com",
			FirstName:  "Bob",
			LastName:   "Wilson",
			Role:       RoleEmployee,
			Department: "Engineering",
			Position:   "Senior Developer",
			AvatarURL:  demoRef("https://i.pravatar.cc/150?u=user-3"),
			Level:      4,
			XP:         320,
			JoinedAt:   demoTime("2021-02-05T00:00:00Z"),
			ManagerID:  demoRef("user-2"),
			Badges:     pickBadges(catalog, "badge-4", "badge-3"),
		},
		{
			ID:         "user-4",
			Username:   "alicejohnson",
			Email:      "alice@example.com",
			FirstName:  "Alice",
			LastName:   "Johnson",
			Role:       RoleEmployee,
			Department: "Product",
			Position:   "Product Manager",
			AvatarURL:  demoRef("https://i.pravatar.cc/150?u=user-4"),
			Level:      5,
			XP:         410,
			JoinedAt:   demoTime("2021-01-20T00:00:00Z"),
			ManagerID:  demoRef("user-1"),
			Badges:     pickBadges(catalog, "badge-2"),
		},
		{
			ID:         "user-5",
			Username:   "charlielee",
			Email:      "charlie@example.com",
			FirstName:  "Charlie",
			LastName:   "Lee",
			Role:       RoleIntern,
			Department: "Engineering",
			Position:   "Developer Intern",
			AvatarURL:  demoRef("https://i.pravatar.cc/150?u=user-5"),
			Level:      2,
			XP:         150,
			JoinedAt:   demoTime("2022-06-01T00:00:00Z"),
			ManagerID:  demoRef("user-2"),
		},
	}
}
