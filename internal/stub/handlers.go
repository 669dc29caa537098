// Package stub is the development backend for the mini-app: the endpoints
// the page controllers call, served from memory with signed approval
// deep-link tokens. It mirrors the production API's wire contract, not its
// behavior depth.
package stub

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"liffapp/internal/pages"
	"liffapp/internal/requestctx"
	"liffapp/internal/validate"
)

type Handler struct {
	Store  *Store
	Config Config
	Logger *slog.Logger
}

func NewHandler(store *Store, cfg Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{Store: store, Config: cfg, Logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/company", h.handleCompanies)
	r.Route("/register", func(r chi.Router) {
		r.Post("/", h.handleRegister)
		r.Post("/check-status", h.handleRegisterStatus)
		r.Post("/approve", h.handleRegisterApprove)
	})
	r.Route("/forget-time", func(r chi.Router) {
		r.Post("/", h.handleForgetTime)
		r.Get("/missing", h.handleMissing)
		r.Post("/info", h.handleForgetInfo)
		r.Post("/approve", h.handleForgetApprove)
	})
}

func (h *Handler) handleCompanies(w http.ResponseWriter, r *http.Request) {
	success(w, h.Store.Companies(), requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	var payload struct {
		Name      string `json:"name"`
		IDCard    string `json:"IDCard"`
		CompanyID int    `json:"companyId"`
		StartDate string `json:"start_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		fail(w, http.StatusBadRequest, "รูปแบบคำขอไม่ถูกต้อง", reqID)
		return
	}

	registration := validate.Registration{
		Name:      payload.Name,
		IDCard:    payload.IDCard,
		CompanyID: payload.CompanyID,
		StartDate: payload.StartDate,
	}
	if errs := validate.ValidateRegistration(registration); !validate.IsEmpty(errs) {
		fail(w, http.StatusBadRequest, firstError(errs), reqID)
		return
	}

	reg := h.Store.CreateRegistration(registration)
	token, err := MintToken(h.Config.JWTSecret, Claims{
		RequestID: reg.ID,
		Kind:      KindRegister,
		Name:      reg.Name,
		IDCard:    reg.IDCard,
		StartDate: reg.StartDate,
	}, h.Config.TokenTTL)
	if err != nil {
		h.Logger.Error("mint register token failed", "err", err)
		fail(w, http.StatusInternalServerError, "ไม่สามารถสร้างลิงก์อนุมัติได้", reqID)
		return
	}

	h.Logger.Info("registration submitted", "requestId", reg.ID)
	created(w, map[string]any{"id": reg.ID, "approvalToken": token}, reqID)
}

func (h *Handler) handleRegisterStatus(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	claims, ok := h.tokenFromBody(w, r, KindRegister)
	if !ok {
		return
	}
	reg, err := h.Store.GetRegistration(claims.RequestID)
	if err != nil {
		fail(w, http.StatusNotFound, "ไม่พบคำขอลงทะเบียน", reqID)
		return
	}

	data := map[string]any{"isRegistered": reg.Status == StatusApproved}
	if reg.Status == StatusApproved {
		data["userData"] = map[string]any{
			"name":       reg.Name,
			"IDCard":     reg.IDCard,
			"start_date": reg.StartDate,
		}
	}
	success(w, data, reqID)
}

func (h *Handler) handleRegisterApprove(w http.ResponseWriter, r *http.Request) {
	h.handleApproval(w, r, KindRegister, h.Store.ResolveRegistration)
}

func (h *Handler) handleForgetTime(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	if err := r.ParseMultipartForm(pages.MaxEvidenceBytes + 1<<20); err != nil {
		fail(w, http.StatusBadRequest, "รูปแบบคำขอไม่ถูกต้อง", reqID)
		return
	}

	payload := validate.ForgetTime{
		TimestampType: r.FormValue("timestamp_type"),
		Date:          r.FormValue("date"),
		Time:          r.FormValue("time"),
		Reason:        r.FormValue("reason"),
	}
	if errs := validate.ValidateForgetTime(payload); !validate.IsEmpty(errs) {
		fail(w, http.StatusBadRequest, firstError(errs), reqID)
		return
	}

	evidenceName := ""
	if files := r.MultipartForm.File["evidence"]; len(files) > 0 {
		if files[0].Size > pages.MaxEvidenceBytes {
			fail(w, http.StatusRequestEntityTooLarge, "ไฟล์แนบต้องมีขนาดไม่เกิน 10MB", reqID)
			return
		}
		evidenceName = files[0].Filename
	}

	req := h.Store.CreateForgetRequest(h.Config.EmployeeName, payload, evidenceName)
	token, err := MintToken(h.Config.JWTSecret, Claims{
		RequestID:    req.ID,
		Kind:         KindForget,
		EmployeeName: req.EmployeeName,
		Date:         req.Date,
		Time:         req.Time,
		Type:         req.TimestampType,
		Reason:       req.Reason,
	}, h.Config.TokenTTL)
	if err != nil {
		h.Logger.Error("mint forget token failed", "err", err)
		fail(w, http.StatusInternalServerError, "ไม่สามารถสร้างลิงก์อนุมัติได้", reqID)
		return
	}

	h.Logger.Info("forget-time submitted", "requestId", req.ID, "date", req.Date, "type", req.TimestampType)
	created(w, map[string]any{"id": req.ID, "approvalToken": token}, reqID)
}

func (h *Handler) handleMissing(w http.ResponseWriter, r *http.Request) {
	success(w, h.Store.MissingEntries(), requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleForgetInfo(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	claims, ok := h.tokenFromBody(w, r, KindForget)
	if !ok {
		return
	}
	req, err := h.Store.GetForgetRequest(claims.RequestID)
	if err != nil {
		fail(w, http.StatusNotFound, "ไม่พบคำขอ", reqID)
		return
	}

	success(w, map[string]any{
		"employeeName": req.EmployeeName,
		"date":         req.Date,
		"time":         req.Time,
		"type":         req.TimestampType,
		"reason":       req.Reason,
		"status":       req.Status,
	}, reqID)
}

func (h *Handler) handleForgetApprove(w http.ResponseWriter, r *http.Request) {
	h.handleApproval(w, r, KindForget, h.Store.ResolveForgetRequest)
}

// handleApproval is the shared approve/reject endpoint body. The resolve
// callback owns the pending-only transition.
func (h *Handler) handleApproval(w http.ResponseWriter, r *http.Request, kind string, resolve func(id, status string) error) {
	reqID := requestctx.GetRequestID(r.Context())

	var payload struct {
		Token  string `json:"token"`
		Action string `json:"action"`
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		fail(w, http.StatusBadRequest, "รูปแบบคำขอไม่ถูกต้อง", reqID)
		return
	}

	claims, ok := h.parseToken(w, payload.Token, kind, reqID)
	if !ok {
		return
	}

	status := ""
	switch payload.Action {
	case pages.ActionApprove:
		status = StatusApproved
	case pages.ActionReject:
		status = StatusRejected
	default:
		fail(w, http.StatusBadRequest, "การดำเนินการไม่ถูกต้อง", reqID)
		return
	}

	switch err := resolve(claims.RequestID, status); {
	case errors.Is(err, ErrNotFound):
		fail(w, http.StatusNotFound, "ไม่พบคำขอ", reqID)
	case errors.Is(err, ErrAlreadyProcessed):
		fail(w, http.StatusConflict, "คำขอนี้ถูกดำเนินการไปแล้ว", reqID)
	case err != nil:
		fail(w, http.StatusInternalServerError, "เกิดข้อผิดพลาดในการดำเนินการ", reqID)
	default:
		h.Logger.Info("request resolved", "kind", kind, "requestId", claims.RequestID, "status", status, "reason", payload.Reason)
		success(w, map[string]any{"status": status}, reqID)
	}
}

func (h *Handler) tokenFromBody(w http.ResponseWriter, r *http.Request, kind string) (*Claims, bool) {
	reqID := requestctx.GetRequestID(r.Context())

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		fail(w, http.StatusBadRequest, "รูปแบบคำขอไม่ถูกต้อง", reqID)
		return nil, false
	}
	return h.parseToken(w, payload.Token, kind, reqID)
}

func (h *Handler) parseToken(w http.ResponseWriter, token, kind, reqID string) (*Claims, bool) {
	claims, err := ParseToken(h.Config.JWTSecret, token)
	if err != nil {
		fail(w, http.StatusUnauthorized, "Token ไม่ถูกต้องหรือหมดอายุ", reqID)
		return nil, false
	}
	if claims.Kind != kind {
		fail(w, http.StatusUnauthorized, "Token ไม่ถูกต้องหรือหมดอายุ", reqID)
		return nil, false
	}
	return claims, true
}

func firstError(errs validate.FormErrors) string {
	for _, message := range errs {
		return message
	}
	return "ข้อมูลไม่ถูกต้อง"
}
