package achievement

import "github.com/stagecraft-app/stagecraft/internal/domain"

// Catalog returns the full achievement catalog.
// 22 achievements across 5 categories, defined at build time. Premium
// entries are only claimable/visible behind the subscription flag.
func Catalog() []domain.AchievementDef {
	return []domain.AchievementDef{
		// ── Strategic (5) ──────────────────────────────────────────────
		{ID: "first_win", Name: "First Victory", Category: domain.CatStrategic, Icon: "🏆", Points: 25},
		{ID: "win_10", Name: "Seasoned Player", Category: domain.CatStrategic, Icon: "🎯", Points: 50},
		{ID: "flawless", Name: "Flawless Round", Category: domain.CatStrategic, Icon: "✨", Points: 75},
		{ID: "comeback", Name: "The Comeback", Category: domain.CatStrategic, Icon: "🔄", Points: 100},
		{ID: "grand_tactic", Name: "Grand Tactician", Category: domain.CatStrategic, Icon: "♟️", Points: 200},

		// ── Consistency (5) ────────────────────────────────────────────
		{ID: "streak_3", Name: "Warming Up", Category: domain.CatConsistency, Icon: "🔥", Points: 25},
		{ID: "streak_7", Name: "Week Warrior", Category: domain.CatConsistency, Icon: "💪", Points: 50},
		{ID: "streak_14", Name: "Fortnight Force", Category: domain.CatConsistency, Icon: "📅", Points: 100},
		{ID: "streak_30", Name: "Monthly Machine", Category: domain.CatConsistency, Icon: "🗓️", Points: 200},
		{ID: "streak_100", Name: "Centurion", Category: domain.CatConsistency, Icon: "🏛️", Points: 300},

		// ── AI (4) ─────────────────────────────────────────────────────
		{ID: "ai_first_hint", Name: "First Hint", Category: domain.CatAI, Icon: "💡", Points: 25},
		{ID: "ai_10_sessions", Name: "Study Buddy", Category: domain.CatAI, Icon: "🤖", Points: 50},
		{ID: "ai_coach", Name: "Coached Up", Category: domain.CatAI, Icon: "🧠", Points: 100},
		{ID: "ai_marathon", Name: "AI Marathon", Category: domain.CatAI, Icon: "🏃", Points: 200},

		// ── Explorer (5) ───────────────────────────────────────────────
		{ID: "profile_complete", Name: "All Dressed Up", Category: domain.CatExplorer, Icon: "🪪", Points: 25},
		{ID: "theme_switch", Name: "New Look", Category: domain.CatExplorer, Icon: "🎨", Points: 25},
		{ID: "widget_arrange", Name: "Home Maker", Category: domain.CatExplorer, Icon: "🧩", Points: 50},
		{ID: "night_owl", Name: "Night Owl", Category: domain.CatExplorer, Icon: "🦉", Points: 50},
		{ID: "tried_everything", Name: "Completionist", Category: domain.CatExplorer, Icon: "🗺️", Points: 100},

		// ── Premium (3) ────────────────────────────────────────────────
		{ID: "premium_welcome", Name: "Inner Circle", Category: domain.CatPremium, Icon: "💎", Points: 50, Premium: true},
		{ID: "premium_loyal", Name: "True Believer", Category: domain.CatPremium, Icon: "👑", Points: 150, Premium: true},
		{ID: "premium_founder", Name: "Founding Member", Category: domain.CatPremium, Icon: "🌟", Points: 300, Premium: true},
	}
}

// CatalogByID returns the catalog indexed by achievement id.
func CatalogByID() map[string]domain.AchievementDef {
	defs := Catalog()
	byID := make(map[string]domain.AchievementDef, len(defs))
	for _, def := range defs {
		byID[def.ID] = def
	}
	return byID
}
