// Package api provides the HTTP server for Stagecraft.
// It exposes the referral/discount surface consumed by the mobile client
// and a REST API for the local gamification state.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stagecraft-app/stagecraft/internal/app/achievement"
	"github.com/stagecraft-app/stagecraft/internal/app/referral"
	"github.com/stagecraft-app/stagecraft/internal/app/streak"
	"github.com/stagecraft-app/stagecraft/internal/app/unlock"
)

// Server is the Stagecraft HTTP API server.
type Server struct {
	achievements   *achievement.Store
	gate           *unlock.Gate
	streaks        *streak.Service
	referrals      *referral.Service
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(achievements *achievement.Store, gate *unlock.Gate, streaks *streak.Service, referrals *referral.Service) *Server {
	return &Server{
		achievements: achievements,
		gate:         gate,
		streaks:      streaks,
		referrals:    referrals,
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsMiddleware)

	// Liveness check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":   true,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Referral/discount surface (mobile client contract)
	r.Post("/sync-referral-code", s.handleSyncReferralCode)
	r.Post("/sync-referral-stats", s.handleSyncReferralStats)
	r.Post("/record-conversion", s.handleRecordConversion)
	r.Get("/get-discounts", s.handleGetDiscounts)
	r.Post("/link-account", s.handleLinkAccount)
	r.Post("/redeem-discount", s.handleRedeemDiscount)

	// Local gamification REST API
	r.Route("/api", func(r chi.Router) {
		r.Get("/progression", s.handleProgression)
		r.Get("/achievements", s.handleAchievements)
		r.Post("/achievements/{id}/unlock", s.handleUnlockAchievement)
		r.Post("/achievements/seen", s.handleMarkSeen)
		r.Get("/unlocks", s.handleUnlocks)
		r.Post("/unlocks/{id}/claim", s.handleClaim)
		r.Get("/streak", s.handleStreak)
		r.Post("/streak/activity", s.handleStreakActivity)
		r.Get("/celebrations", s.handleCelebrations)
		r.Post("/celebrations/{id}/shown", s.handleCelebrationShown)
		r.Post("/reset", s.handleReset)
	})

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Route not found"})
	})

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{"error": msg})
}

// corsMiddleware adds open CORS headers for the mobile client.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
