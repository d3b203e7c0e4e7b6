package unlock

import (
	"sort"

	"github.com/stagecraft-app/stagecraft/internal/domain"
)

// PictureCatalog returns the stage-gated profile pictures, one per stage.
func PictureCatalog() []domain.Resource {
	return []domain.Resource{
		{ID: "pfp_rookie", Name: "Rookie Badge", Kind: domain.ResourcePicture, RequiredStage: 1},
		{ID: "pfp_compass", Name: "Compass", Kind: domain.ResourcePicture, RequiredStage: 2},
		{ID: "pfp_map", Name: "Trail Map", Kind: domain.ResourcePicture, RequiredStage: 3},
		{ID: "pfp_chess", Name: "Chess Knight", Kind: domain.ResourcePicture, RequiredStage: 4},
		{ID: "pfp_shield", Name: "Shield", Kind: domain.ResourcePicture, RequiredStage: 5},
		{ID: "pfp_flame", Name: "Flame", Kind: domain.ResourcePicture, RequiredStage: 6},
		{ID: "pfp_bolt", Name: "Thunderbolt", Kind: domain.ResourcePicture, RequiredStage: 7},
		{ID: "pfp_medal", Name: "Medal", Kind: domain.ResourcePicture, RequiredStage: 8},
		{ID: "pfp_trophy", Name: "Trophy", Kind: domain.ResourcePicture, RequiredStage: 9},
		{ID: "pfp_crown", Name: "Crown", Kind: domain.ResourcePicture, RequiredStage: 10},
		{ID: "pfp_diamond", Name: "Diamond", Kind: domain.ResourcePicture, RequiredStage: 11, Premium: true},
		{ID: "pfp_legend", Name: "Legend Aura", Kind: domain.ResourcePicture, RequiredStage: 12, Premium: true},
	}
}

// WidgetCatalog returns the stage-gated dashboard widgets. Sparse by
// design — not every stage unlocks a widget.
func WidgetCatalog() []domain.Resource {
	return []domain.Resource{
		{ID: "widget_score", Name: "Score Card", Kind: domain.ResourceWidget, RequiredStage: 1},
		{ID: "widget_streak", Name: "Streak Tracker", Kind: domain.ResourceWidget, RequiredStage: 3},
		{ID: "widget_history", Name: "History Graph", Kind: domain.ResourceWidget, RequiredStage: 5},
		{ID: "widget_goals", Name: "Custom Goals", Kind: domain.ResourceWidget, RequiredStage: 7},
		{ID: "widget_insights", Name: "AI Insights", Kind: domain.ResourceWidget, RequiredStage: 9, Premium: true},
	}
}

// FullCatalog returns pictures and widgets in ascending stage order.
func FullCatalog() []domain.Resource {
	catalog := append(PictureCatalog(), WidgetCatalog()...)
	sort.SliceStable(catalog, func(i, j int) bool {
		return catalog[i].RequiredStage < catalog[j].RequiredStage
	})
	return catalog
}
