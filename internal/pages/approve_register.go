package pages

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"liffapp/internal/appconfig"
	"liffapp/internal/approval"
	"liffapp/internal/httpclient"
)

// RegistrationInfo is the registration request as shown to the approver.
type RegistrationInfo struct {
	Name          string
	IDCardMasked  string
	StartDateText string
}

// ApproveRegisterView renders the registration approval landing page.
type ApproveRegisterView interface {
	ShowLoading()
	ShowActionPage(info RegistrationInfo)
	ShowAlreadyApproved(info RegistrationInfo)
	ShowSuccess(title, message string)
	ShowError(message string)
	CloseWindow()
}

const registerCloseDelay = 5 * time.Second

// ApproveRegisterController drives the registration approval page. Unlike
// the forget-time variant its error screen does not auto-close, and the
// action page is rendered from the token snapshot (the status endpoint only
// reports whether the registration was already processed).
type ApproveRegisterController struct {
	env     Env
	view    ApproveRegisterView
	confirm Confirmer

	token string
	hint  *approval.Hint
	state State
}

func NewApproveRegister(env Env, view ApproveRegisterView, confirm Confirmer) *ApproveRegisterController {
	return &ApproveRegisterController{env: env, view: view, confirm: confirm, state: StateLoading}
}

func (c *ApproveRegisterController) State() State { return c.state }

// Boot decodes and screens the deep-link token, then checks the registration
// status. Absent, undecodable and expired tokens are all terminal here, and
// none of them issues the status fetch.
func (c *ApproveRegisterController) Boot(ctx context.Context, query url.Values) {
	c.token = query.Get("token")
	if c.token == "" {
		c.fail("ไม่พบ Token การยืนยันตัวตน")
		return
	}

	hint, err := approval.DecodeHint(c.token)
	if err != nil {
		c.fail("Token ไม่ถูกต้อง")
		return
	}
	if hint.Expired(c.env.scheduler().Now()) {
		c.fail("ลิงก์การอนุมัตินี้หมดอายุแล้ว (30 นาที) กรุณาดำเนินการใหม่อีกครั้ง")
		return
	}
	c.hint = hint

	c.view.ShowLoading()

	res := c.env.API.Do(ctx, httpclient.Request{
		BaseURL: c.env.Config.APIBaseURL,
		Path:    c.env.Config.Endpoint(appconfig.EndpointRegisterCheckStatus),
		Method:  http.MethodPost,
		Body:    map[string]any{"token": c.token},
	})
	if !res.OK {
		c.fail(fallbackMessage(res.Err, "ไม่สามารถตรวจสอบสถานะการลงทะเบียนได้"))
		return
	}

	registered, recordInfo := decodeStatus(httpclient.EnvelopeData(res.Data))
	if registered {
		c.state = StateAlreadyProcessed
		info := recordInfo
		if info == (RegistrationInfo{}) {
			info = registrationInfo(c.hint)
		}
		c.view.ShowAlreadyApproved(info)
		c.scheduleClose()
		return
	}

	c.state = StateActionReady
	c.view.ShowActionPage(registrationInfo(c.hint))
}

func decodeStatus(payload any) (bool, RegistrationInfo) {
	record, ok := payload.(map[string]any)
	if !ok {
		return false, RegistrationInfo{}
	}
	registered, _ := record["isRegistered"].(bool)
	info := RegistrationInfo{}
	if userData, ok := record["userData"].(map[string]any); ok {
		name, _ := userData["name"].(string)
		idCard, _ := userData["IDCard"].(string)
		startDate, _ := userData["start_date"].(string)
		info = RegistrationInfo{
			Name:          name,
			IDCardMasked:  MaskIDCard(idCard),
			StartDateText: FormatDateThai(startDate),
		}
	}
	return registered, info
}

func registrationInfo(hint *approval.Hint) RegistrationInfo {
	return RegistrationInfo{
		Name:          hint.Name,
		IDCardMasked:  MaskIDCard(hint.IDCard),
		StartDateText: FormatDateThai(hint.StartDate),
	}
}

func (c *ApproveRegisterController) Approve(ctx context.Context) {
	c.act(ctx, ActionApprove)
}

func (c *ApproveRegisterController) Reject(ctx context.Context) {
	c.act(ctx, ActionReject)
}

func (c *ApproveRegisterController) act(ctx context.Context, action string) {
	if c.state != StateActionReady {
		return
	}
	confirmed, reason := c.confirm.Confirm(action)
	if !confirmed {
		return
	}

	c.state = StateSubmitting
	c.view.ShowLoading()

	body := map[string]any{"token": c.token, "action": action}
	if reason != "" {
		body["reason"] = reason
	}
	res := c.env.API.Do(ctx, httpclient.Request{
		BaseURL: c.env.Config.APIBaseURL,
		Path:    c.env.Config.Endpoint(appconfig.EndpointRegisterApprove),
		Method:  http.MethodPost,
		Body:    body,
	})
	if !res.OK {
		c.state = StateActionReady
		c.view.ShowError(fallbackMessage(res.Err, "เกิดข้อผิดพลาดในการดำเนินการ"))
		c.view.ShowActionPage(registrationInfo(c.hint))
		return
	}

	c.state = StateSuccess
	actionText := "อนุมัติ"
	if action == ActionReject {
		actionText = "ปฏิเสธ"
	}
	c.view.ShowSuccess("ดำเนินการสำเร็จ", "ระบบได้บันทึกผลการ"+actionText+"เรียบร้อยแล้ว")
	c.scheduleClose()
}

func (c *ApproveRegisterController) fail(message string) {
	c.state = StateError
	c.view.ShowError(message)
}

func (c *ApproveRegisterController) scheduleClose() {
	c.env.scheduler().AfterFunc(registerCloseDelay, c.view.CloseWindow)
}

func fallbackMessage(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}

// MaskIDCard hides the middle digits of a 13-digit national id for display.
func MaskIDCard(idCard string) string {
	if len(idCard) < 13 {
		return idCard
	}
	return idCard[:3] + "xxxxxx" + idCard[9:]
}

var thaiMonths = [...]string{
	"มกราคม", "กุมภาพันธ์", "มีนาคม", "เมษายน",
	"พฤษภาคม", "มิถุนายน", "กรกฎาคม", "สิงหาคม",
	"กันยายน", "ตุลาคม", "พฤศจิกายน", "ธันวาคม",
}

// FormatDateThai renders a date in Thai long form with the Buddhist-era
// year, e.g. "1 พฤษภาคม 2567". Unparseable input falls back to "-".
func FormatDateThai(value string) string {
	if value == "" {
		return "-"
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, value)
	}
	if err != nil {
		return "-"
	}
	return strconv.Itoa(parsed.Day()) + " " + thaiMonths[parsed.Month()-1] + " " + strconv.Itoa(parsed.Year()+543)
}
