package pages

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"liffapp/internal/appconfig"
	"liffapp/internal/approval"
	"liffapp/internal/httpclient"
	"liffapp/internal/schedule"
	"liffapp/internal/ui"
)

// RequestInfo is the forget-time request as shown to the approver: the
// reconciled view of the token snapshot and the authoritative backend record.
type RequestInfo struct {
	EmployeeName string
	Date         string
	CurrentTime  string
	Time         string
	Type         string
	Reason       string
	Status       string
}

// ApproveForgetView renders the forget-time approval landing page.
type ApproveForgetView interface {
	ShowLoading()
	ShowSnapshot(info RequestInfo)
	ShowActionPage(info RequestInfo)
	ShowAlreadyProcessed(info RequestInfo)
	ShowSuccess(title, message string)
	ShowError(title, message string)
	ShowCloseCountdown(remaining int)
	ShowToast(notice ui.Notice)
	CloseWindow()
}

const forgetCloseDelay = 3 * time.Second

// ApproveForgetController drives the approval landing page reached from an
// emailed/messaged deep link. The URL token is an untrusted display hint;
// the backend record fetched with it is authoritative.
type ApproveForgetController struct {
	env     Env
	view    ApproveForgetView
	confirm Confirmer

	token string
	hint  *approval.Hint
	info  RequestInfo
	state State
}

func NewApproveForget(env Env, view ApproveForgetView, confirm Confirmer) *ApproveForgetController {
	return &ApproveForgetController{env: env, view: view, confirm: confirm, state: StateLoading}
}

func (c *ApproveForgetController) State() State { return c.state }

// Boot validates the deep-link token and fetches the authoritative request.
// An absent or expired token is terminal before any network call fires; the
// server remains the source of truth for whether the action is permitted.
func (c *ApproveForgetController) Boot(ctx context.Context, query url.Values) {
	c.token = query.Get("token")
	if c.token == "" {
		c.fail("ข้อผิดพลาด", "ไม่พบ Token หรือลิงก์ไม่ถูกต้อง")
		return
	}

	c.view.ShowLoading()

	// The snapshot pre-populates the page while the fetch is in flight. A
	// token that does not decode is tolerated here; the backend still gets
	// to judge it.
	if hint, err := approval.DecodeHint(c.token); err == nil {
		c.hint = hint
		if c.hint.Expired(c.env.scheduler().Now()) {
			c.fail("ลิงก์หมดอายุ", "ลิงก์การอนุมัตินี้หมดอายุแล้ว กรุณาขอลิงก์ใหม่อีกครั้ง")
			return
		}
		c.view.ShowSnapshot(hintInfo(c.hint))
	} else {
		c.env.logger().Debug("approval token not decodable", "err", err)
	}

	res := c.env.API.Do(ctx, httpclient.Request{
		BaseURL: c.env.Config.APIBaseURL,
		Path:    c.env.Config.Endpoint(appconfig.EndpointForgetRequestInfo),
		Method:  http.MethodPost,
		Body:    map[string]any{"token": c.token},
	})
	if !res.OK {
		c.fail("ข้อผิดพลาด", res.Err)
		return
	}

	c.info = mergeRequestInfo(c.hint, httpclient.EnvelopeData(res.Data))
	switch c.info.Status {
	case "pending":
		c.state = StateActionReady
		c.view.ShowActionPage(c.info)
	case "approved", "rejected":
		c.state = StateAlreadyProcessed
		c.view.ShowAlreadyProcessed(c.info)
		c.scheduleClose()
	default:
		c.fail("ข้อผิดพลาด", "สถานะคำขอไม่ถูกต้อง ("+c.info.Status+")")
	}
}

func hintInfo(hint *approval.Hint) RequestInfo {
	return RequestInfo{
		EmployeeName: hint.EmployeeName,
		Date:         hint.Date,
		CurrentTime:  hint.CurrentTime,
		Time:         hint.Time,
		Type:         hint.Type,
		Reason:       hint.Reason,
	}
}

// mergeRequestInfo reconciles the untrusted snapshot with the authoritative
// record: live fields win, the snapshot only fills fields the backend left
// absent. Status always comes from the backend.
func mergeRequestInfo(hint *approval.Hint, payload any) RequestInfo {
	info := RequestInfo{}
	if record, ok := payload.(map[string]any); ok {
		info.EmployeeName, _ = record["employeeName"].(string)
		info.Date, _ = record["date"].(string)
		info.CurrentTime, _ = record["currentTime"].(string)
		info.Time, _ = record["time"].(string)
		info.Type, _ = record["type"].(string)
		info.Reason, _ = record["reason"].(string)
		info.Status, _ = record["status"].(string)
	}
	if hint != nil {
		fallback := hintInfo(hint)
		if info.EmployeeName == "" {
			info.EmployeeName = fallback.EmployeeName
		}
		if info.Date == "" {
			info.Date = fallback.Date
		}
		if info.CurrentTime == "" {
			info.CurrentTime = fallback.CurrentTime
		}
		if info.Time == "" {
			info.Time = fallback.Time
		}
		if info.Type == "" {
			info.Type = fallback.Type
		}
		if info.Reason == "" {
			info.Reason = fallback.Reason
		}
	}
	return info
}

// Approve and Reject fire only from action-ready and only after the
// confirmation step completes. Reject may carry a free-text reason.
func (c *ApproveForgetController) Approve(ctx context.Context) {
	c.act(ctx, ActionApprove)
}

func (c *ApproveForgetController) Reject(ctx context.Context) {
	c.act(ctx, ActionReject)
}

func (c *ApproveForgetController) act(ctx context.Context, action string) {
	if c.state != StateActionReady {
		return
	}
	confirmed, reason := c.confirm.Confirm(action)
	if !confirmed {
		return
	}
	c.submit(ctx, action, reason)
}

func (c *ApproveForgetController) submit(ctx context.Context, action, reason string) {
	c.state = StateSubmitting
	c.view.ShowLoading()

	res := c.env.API.Do(ctx, httpclient.Request{
		BaseURL: c.env.Config.APIBaseURL,
		Path:    c.env.Config.Endpoint(appconfig.EndpointForgetApprove),
		Method:  http.MethodPost,
		Body:    map[string]any{"token": c.token, "action": action, "reason": reason},
	})
	if !res.OK {
		// The only backward transition: a failed submit re-enables the
		// action buttons for an idempotent retry.
		c.state = StateActionReady
		c.view.ShowToast(ui.Notice{Type: ui.LevelError, Title: "เกิดข้อผิดพลาด", Message: res.Err})
		c.view.ShowActionPage(c.info)
		return
	}

	c.state = StateSuccess
	if action == ActionApprove {
		c.view.ShowSuccess("อนุมัติสำเร็จ", "อนุมัติคำขอเรียบร้อยแล้ว")
	} else {
		c.view.ShowSuccess("ปฏิเสธสำเร็จ", "ปฏิเสธคำขอเรียบร้อยแล้ว")
	}
	c.scheduleClose()
}

func (c *ApproveForgetController) fail(title, message string) {
	c.state = StateError
	c.view.ShowError(title, message)
	schedule.StartCountdown(
		c.env.scheduler(),
		int(forgetCloseDelay/time.Second),
		c.view.ShowCloseCountdown,
		c.view.CloseWindow,
	)
}

func (c *ApproveForgetController) scheduleClose() {
	c.env.scheduler().AfterFunc(forgetCloseDelay, c.view.CloseWindow)
}
