package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"flarecover/internal/domain"
	cryptoinfra "flarecover/internal/infra/crypto"
	"flarecover/internal/usecase"
)

type quoteRequest struct {
	UserAddress      string `json:"user_address"`
	FlightNumber     string `json:"flight_number"`
	FlightDate       string `json:"flight_date"`
	DepartureAirport string `json:"departure_airport"`
	ArrivalAirport   string `json:"arrival_airport"`
}

type quoteResponse struct {
	UserAddress           string  `json:"user_address"`
	FlightID              string  `json:"flight_id"`
	Premium               string  `json:"premium"`
	Deadline              int64   `json:"deadline"`
	Signature             string  `json:"signature"`
	RiskScore             float64 `json:"risk_score"`
	DelayProbability      float64 `json:"delay_probability"`
	DelayThresholdMinutes int     `json:"delay_threshold_minutes"`
	PayoutMultiplier      float64 `json:"payout_multiplier"`
	Message               string  `json:"message,omitempty"`
}

type verifyPayoutRequest struct {
	FlightNumber      string  `json:"flight_number"`
	FlightDate        string  `json:"flight_date"`
	ThresholdMinutes  int     `json:"delay_threshold_minutes"`
	PremiumMinorUnits string  `json:"premium_minor_units"`
	PayoutMultiplier  float64 `json:"payout_multiplier"`
}

type verifyPayoutResponse struct {
	FlightNumber     string `json:"flight_number"`
	FlightDate       string `json:"flight_date"`
	FlightStatus     string `json:"flight_status"`
	DataSource       string `json:"data_source"`
	DelayMinutes     int    `json:"delay_minutes"`
	ThresholdMinutes int    `json:"threshold_minutes"`
	ConditionMet     bool   `json:"condition_met"`
	PayoutEligible   bool   `json:"payout_eligible"`
	PayoutAmount     string `json:"payout_amount"`
}

const (
	defaultVerifyThresholdMinutes = 30
	defaultVerifyMultiplier       = 1.5
)

func (s *Server) handleIssueQuote(c *gin.Context) {
	if !s.enforceRateLimit(c, "quotes:issue") {
		return
	}

	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_INPUT", "malformed request body")
		return
	}

	quote, err := s.issueUC.Execute(c.Request.Context(), usecase.IssueQuoteRequest{
		HolderAddress:    req.UserAddress,
		FlightNumber:     req.FlightNumber,
		FlightDate:       req.FlightDate,
		DepartureAirport: req.DepartureAirport,
		ArrivalAirport:   req.ArrivalAirport,
		DeadlineHours:    s.cfg.QuoteDeadlineHours,
	})
	if err != nil {
		s.auditQuote(c, "", req.UserAddress, "", domain.AuditResultFailure, errorCode(err))
		writeError(c, err)
		return
	}

	s.auditQuote(c, quote.FlightID, quote.HolderAddress, cryptoinfra.MinorUnitsString(quote.PremiumMinorUnits), domain.AuditResultSuccess, "")
	c.JSON(http.StatusOK, quoteResponse{
		UserAddress:           quote.HolderAddress,
		FlightID:              quote.FlightID,
		Premium:               cryptoinfra.MinorUnitsString(quote.PremiumMinorUnits),
		Deadline:              quote.Deadline,
		Signature:             quote.Signature,
		RiskScore:             quote.RiskScore,
		DelayProbability:      quote.DelayProbability,
		DelayThresholdMinutes: quote.DelayThresholdMinutes,
		PayoutMultiplier:      quote.PayoutMultiplier,
		Message:               quote.Rationale,
	})
}

func (s *Server) handleVerifyPayout(c *gin.Context) {
	if !s.enforceRateLimit(c, "payouts:verify") {
		return
	}

	var req verifyPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_INPUT", "malformed request body")
		return
	}
	if req.ThresholdMinutes == 0 {
		req.ThresholdMinutes = defaultVerifyThresholdMinutes
	}
	if req.PayoutMultiplier == 0 {
		req.PayoutMultiplier = defaultVerifyMultiplier
	}
	if req.PremiumMinorUnits == "" {
		req.PremiumMinorUnits = "0"
	}

	premium, err := cryptoinfra.ParseMinorUnits(req.PremiumMinorUnits)
	if err != nil {
		writeError(c, err)
		return
	}

	receipt, err := s.verifyUC.Execute(c.Request.Context(), usecase.VerifyPayoutRequest{
		FlightNumber:      req.FlightNumber,
		FlightDate:        req.FlightDate,
		ThresholdMinutes:  req.ThresholdMinutes,
		PremiumMinorUnits: premium,
		PayoutMultiplier:  req.PayoutMultiplier,
	})
	if err != nil {
		s.auditPayout(c, req.FlightNumber, req.FlightDate, false, 0, domain.AuditResultFailure, errorCode(err))
		writeError(c, err)
		return
	}

	cond := receipt.Condition
	s.auditPayout(c, req.FlightNumber, req.FlightDate, cond.ConditionMet, cond.DelayMinutes, domain.AuditResultSuccess, "")
	c.JSON(http.StatusOK, verifyPayoutResponse{
		FlightNumber:     receipt.Status.FlightNumber,
		FlightDate:       req.FlightDate,
		FlightStatus:     cond.FlightStatus,
		DataSource:       receipt.Status.DataSource,
		DelayMinutes:     cond.DelayMinutes,
		ThresholdMinutes: cond.ThresholdMinutes,
		ConditionMet:     cond.ConditionMet,
		PayoutEligible:   cond.ConditionMet,
		PayoutAmount:     cryptoinfra.MinorUnitsString(cond.PayoutAmount),
	})
}

func (s *Server) handleSignerAddress(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"signer_address": s.signer.SignerAddress(),
		"chain_id":       s.signer.Domain().ChainID,
		"domain_name":    s.signer.Domain().Name,
		"domain_version": s.signer.Domain().Version,
	})
}

// Audit writes are best effort and never fail the request.
func (s *Server) auditQuote(c *gin.Context, flightID, holder, premiumMinor string, result domain.AuditResult, code string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.EmitQuoteIssued(c.Request.Context(), flightID, holder, premiumMinor, result, code); err != nil {
		s.logger.Warn("audit write failed", "event", "quote.issued", "error", err)
	}
}

func (s *Server) auditPayout(c *gin.Context, flightNumber, flightDate string, met bool, delay int, result domain.AuditResult, code string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.EmitPayoutChecked(c.Request.Context(), flightNumber, flightDate, met, delay, result, code); err != nil {
		s.logger.Warn("audit write failed", "event", "payout.checked", "error", err)
	}
}

func writeError(c *gin.Context, err error) {
	status, code := statusForError(err)
	writeErrorCode(c, status, code, err.Error())
}

func writeErrorCode(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{"code": code, "message": message},
	})
}

func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidAddress):
		return http.StatusBadRequest, "INVALID_ADDRESS"
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest, "INVALID_AMOUNT"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, domain.ErrInvalidKey):
		return http.StatusInternalServerError, "INVALID_KEY"
	case errors.Is(err, domain.ErrSigningFailure):
		return http.StatusInternalServerError, "SIGNING_FAILURE"
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return http.StatusBadGateway, "UPSTREAM_UNAVAILABLE"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

func errorCode(err error) string {
	_, code := statusForError(err)
	return code
}
