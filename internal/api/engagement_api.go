package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stagecraft-app/stagecraft/internal/domain"
)

// ─── Gamification REST API ───────────────────────────────────────────────────

// --- GET /api/progression ---

func (s *Server) handleProgression(w http.ResponseWriter, r *http.Request) {
	info, err := s.achievements.Progress()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// --- GET /api/achievements ---

type achievementView struct {
	domain.AchievementDef
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlockedAt,omitempty"`
	Seen       bool       `json:"seen"`
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	records := s.achievements.Records()
	byID := make(map[string]domain.UnlockRecord, len(records))
	for _, rec := range records {
		byID[rec.AchievementID] = rec
	}

	catalog := s.achievements.Catalog()
	views := make([]achievementView, 0, len(catalog))
	for _, def := range catalog {
		v := achievementView{AchievementDef: def}
		if rec, ok := byID[def.ID]; ok {
			v.Unlocked = true
			at := rec.UnlockedAt
			v.UnlockedAt = &at
			v.Seen = rec.Seen
		}
		views = append(views, v)
	}

	score, err := s.achievements.CumulativeScore()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"achievements": views,
		"score":        score,
	})
}

// --- POST /api/achievements/{id}/unlock ---

func (s *Server) handleUnlockAchievement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	isNew, err := s.achievements.Unlock(id)
	if err != nil {
		if errors.Is(err, domain.ErrAchievementUnknown) {
			writeError(w, http.StatusNotFound, "unknown achievement: "+id)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"unlocked": isNew,
	})
}

// --- POST /api/achievements/seen ---

type markSeenRequest struct {
	IDs []string `json:"ids"`
}

func (s *Server) handleMarkSeen(w http.ResponseWriter, r *http.Request) {
	var req markSeenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "ids is required")
		return
	}

	changed, err := s.achievements.MarkSeen(req.IDs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"changed": changed,
	})
}

// --- GET /api/unlocks ---

func (s *Server) handleUnlocks(w http.ResponseWriter, r *http.Request) {
	info, err := s.achievements.Progress()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	partition, err := s.gate.PartitionAt(info.Stage)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := map[string]interface{}{
		"stage":     info.Stage,
		"available": partition.Available,
		"claimed":   partition.Claimed,
		"unclaimed": partition.Unclaimed,
		"locked":    partition.Locked,
	}
	if next := s.gate.NextPreviewAt(info.Stage); next != nil {
		resp["nextPreview"] = next
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- POST /api/unlocks/{id}/claim ---

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	subscriber := r.URL.Query().Get("subscriber") == "true"

	info, err := s.achievements.Progress()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := s.gate.Claim(id, info.Stage, subscriber); err != nil {
		switch {
		case errors.Is(err, domain.ErrResourceNotFound):
			writeError(w, http.StatusNotFound, "unknown resource: "+id)
		case errors.Is(err, domain.ErrStageLocked):
			writeError(w, http.StatusConflict, "resource requires a higher stage")
		case errors.Is(err, domain.ErrPremiumLocked):
			writeError(w, http.StatusForbidden, "resource requires an active subscription")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// --- GET /api/streak ---

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	st, err := s.streaks.Current()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// --- POST /api/streak/activity ---

func (s *Server) handleStreakActivity(w http.ResponseWriter, r *http.Request) {
	st, err := s.streaks.RecordActivity(time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// --- GET /api/celebrations?limit=N ---

func (s *Server) handleCelebrations(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	pending, err := s.achievements.PendingCelebrations(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if pending == nil {
		pending = []domain.Celebration{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"celebrations": pending})
}

// --- POST /api/celebrations/{id}/shown ---

func (s *Server) handleCelebrationShown(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "celebration id must be numeric")
		return
	}

	if err := s.achievements.MarkCelebrationShown(id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// --- POST /api/reset ---

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.achievements.Reset(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
