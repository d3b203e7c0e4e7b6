package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stagecraft-app/stagecraft/internal/domain"
)

// ─── Referral/discount surface ───────────────────────────────────────────────
// These handlers mirror the contract the mobile client already speaks:
// flat JSON bodies, {success:true} responses, 400 on missing fields,
// 404 on invalid codes/conversions, 500 on store failures.

// --- POST /sync-referral-code ---

type syncCodeRequest struct {
	DeviceID          string `json:"deviceId"`
	Code              string `json:"code"`
	DeviceFingerprint string `json:"deviceFingerprint"`
}

func (s *Server) handleSyncReferralCode(w http.ResponseWriter, r *http.Request) {
	var req syncCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.DeviceID == "" || req.Code == "" {
		writeError(w, http.StatusBadRequest, "deviceId and code are required")
		return
	}

	if err := s.referrals.UpsertReferralCode(req.Code, req.DeviceID, req.DeviceFingerprint); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// --- POST /sync-referral-stats ---

type syncStatsRequest struct {
	DeviceID          string                `json:"deviceId"`
	DeviceFingerprint string                `json:"deviceFingerprint"`
	Stats             *domain.ReferralStats `json:"stats"`
}

func (s *Server) handleSyncReferralStats(w http.ResponseWriter, r *http.Request) {
	var req syncStatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.DeviceID == "" || req.Stats == nil {
		writeError(w, http.StatusBadRequest, "deviceId and stats are required")
		return
	}

	if err := s.referrals.UpsertReferralStats(req.DeviceID, req.DeviceFingerprint, *req.Stats); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// --- POST /record-conversion ---

type recordConversionRequest struct {
	ReferralCode      string `json:"referralCode"`
	PurchaserDeviceID string `json:"purchaserDeviceId"`
	DeviceFingerprint string `json:"deviceFingerprint"`
}

func (s *Server) handleRecordConversion(w http.ResponseWriter, r *http.Request) {
	var req recordConversionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ReferralCode == "" || req.PurchaserDeviceID == "" {
		writeError(w, http.StatusBadRequest, "referralCode and purchaserDeviceId are required")
		return
	}

	conversionID, err := s.referrals.RecordConversion(req.ReferralCode, req.PurchaserDeviceID, req.DeviceFingerprint)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCode) {
			writeError(w, http.StatusNotFound, "referral code not found or inactive")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"conversionId": conversionID,
	})
}

// --- GET /get-discounts?deviceId=... ---

func (s *Server) handleGetDiscounts(w http.ResponseWriter, r *http.Request) {
	deviceID := r.URL.Query().Get("deviceId")
	if deviceID == "" {
		writeError(w, http.StatusBadRequest, "deviceId query parameter is required")
		return
	}

	discounts, err := s.referrals.ListPendingDiscounts(deviceID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if discounts == nil {
		discounts = []domain.Conversion{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"discounts": discounts,
	})
}

// --- POST /link-account ---

type linkAccountRequest struct {
	DeviceID string `json:"deviceId"`
	UserID   string `json:"userId"`
	Email    string `json:"email"`
}

func (s *Server) handleLinkAccount(w http.ResponseWriter, r *http.Request) {
	var req linkAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.DeviceID == "" || req.UserID == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "deviceId, userId and email are required")
		return
	}

	if err := s.referrals.LinkAccount(req.DeviceID, req.UserID, req.Email); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// --- POST /redeem-discount ---

type redeemDiscountRequest struct {
	ConversionID     string  `json:"conversionId"`
	UserID           string  `json:"userId"`
	SubscriptionType string  `json:"subscriptionType"`
	OriginalPrice    float64 `json:"originalPrice"`
}

func (s *Server) handleRedeemDiscount(w http.ResponseWriter, r *http.Request) {
	var req redeemDiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ConversionID == "" || req.UserID == "" || req.OriginalPrice <= 0 {
		writeError(w, http.StatusBadRequest, "conversionId, userId and a positive originalPrice are required")
		return
	}

	redemption, err := s.referrals.RedeemDiscount(req.ConversionID, req.UserID, req.SubscriptionType, req.OriginalPrice)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConversionNotFound), errors.Is(err, domain.ErrConversionUsed):
			writeError(w, http.StatusNotFound, "conversion invalid or already used")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"discountedPrice": redemption.DiscountedPrice,
		"discountAmount":  redemption.DiscountAmount,
		"redemptionId":    redemption.RedemptionID,
	})
}
