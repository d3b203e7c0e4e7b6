// Package metrics provides Prometheus metrics for Stagecraft —
// counters and gauges for unlocks, claims, conversions, and redemptions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Progression ────────────────────────────────────────────────────────────

// AchievementsUnlocked counts unlocks by category.
var AchievementsUnlocked = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "stagecraft",
	Name:      "achievements_unlocked_total",
	Help:      "Total achievements unlocked.",
}, []string{"category"})

// CurrentStage tracks the local profile's current stage.
var CurrentStage = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "stagecraft",
	Name:      "current_stage",
	Help:      "Current progression stage of the local profile.",
})

// ResourcesClaimed counts claimed unlockable resources by kind.
var ResourcesClaimed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "stagecraft",
	Name:      "resources_claimed_total",
	Help:      "Total unlockable resources claimed.",
}, []string{"kind"})

// ─── Referral ───────────────────────────────────────────────────────────────

// ConversionsRecorded counts recorded referral conversions.
var ConversionsRecorded = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "stagecraft",
	Name:      "conversions_recorded_total",
	Help:      "Total referral conversions recorded.",
})

// ConversionsRejected counts rejected conversion attempts by reason.
var ConversionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "stagecraft",
	Name:      "conversions_rejected_total",
	Help:      "Total rejected conversion attempts.",
}, []string{"reason"})

// DiscountsRedeemed counts successful discount redemptions.
var DiscountsRedeemed = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "stagecraft",
	Name:      "discounts_redeemed_total",
	Help:      "Total discounts redeemed.",
})

// DiscountAmount tracks the distribution of redeemed discount amounts.
var DiscountAmount = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "stagecraft",
	Name:      "discount_amount",
	Help:      "Discount amounts applied at redemption.",
	Buckets:   []float64{1, 5, 10, 25, 50, 100, 250},
})

// AccountsLinked counts anonymous-to-authenticated account links.
var AccountsLinked = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "stagecraft",
	Name:      "accounts_linked_total",
	Help:      "Total anonymous users linked to authenticated accounts.",
})
