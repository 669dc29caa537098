package pages

import (
	"context"
	"net/http"

	"liffapp/internal/appconfig"
	"liffapp/internal/httpclient"
	"liffapp/internal/ui"
	"liffapp/internal/validate"
)

type Company struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// RegisterView is the rendering surface of the registration page.
type RegisterView interface {
	SetStatus(text string)
	ShowToast(notice ui.Notice)
	SetLoading(loading bool)
	SetFormErrors(errors validate.FormErrors)
	ClearFormErrors()
	ShowProfile(displayName, userID, pictureURL string, loggedIn bool)
	SetCompanies(companies []Company)
	ResetForm()
}

// RegisterController drives the employee registration form: LIFF bootstrap,
// company list load and the validated submit flow.
type RegisterController struct {
	env   Env
	view  RegisterView
	ready bool
}

func NewRegister(env Env, view RegisterView) *RegisterController {
	return &RegisterController{env: env, view: view}
}

// Boot runs the page lifecycle up to action-ready. LIFF failures degrade the
// page to a visible not-ready state instead of crashing; the submit handler
// stays bound either way.
func (c *RegisterController) Boot(ctx context.Context, redirectURI string) {
	c.view.SetLoading(false)
	c.view.SetStatus("กำลังเริ่ม...")

	if notice, ok := warningNotice(c.env.Warnings); ok {
		c.view.ShowToast(notice)
	}
	if c.env.Config.Debug {
		c.env.logger().Debug("register runtime config", "config", c.env.Config)
	}

	if err := c.env.Session.InitOrThrow(ctx, c.env.Config.LiffID); err != nil {
		c.env.logger().Warn("liff init failed", "err", err)
		c.view.SetStatus("ไม่พร้อม")
		c.view.ShowToast(ui.Notice{
			Type:    ui.LevelError,
			Title:   "การเริ่ม LIFF ล้มเหลว",
			Message: err.Error(),
		})
		return
	}

	if c.env.Config.RequireLogin && !c.env.Session.IsLoggedIn() {
		c.view.SetStatus("กำลังเปลี่ยนเส้นทางไปยังการเข้าสู่ระบบ LINE...")
		c.view.ShowToast(ui.Notice{
			Type:    ui.LevelWarning,
			Title:   "ต้องเข้าสู่ระบบ",
			Message: "กำลังเปลี่ยนเส้นทางไปยังการเข้าสู่ระบบ LINE",
		})
		if err := c.env.Session.EnsureLoggedIn(redirectURI); err != nil {
			c.env.logger().Warn("login redirect failed", "err", err)
		}
		return
	}

	c.showProfile(ctx)
	c.loadCompanies(ctx)

	c.ready = true
	c.view.SetStatus("พร้อม")
}

func (c *RegisterController) showProfile(ctx context.Context) {
	profile := c.env.Session.GetProfileSafe(ctx)
	loggedIn := c.env.Session.IsLoggedIn()
	if profile == nil {
		c.view.ShowProfile("-", "-", "", loggedIn)
		return
	}
	c.view.ShowProfile(profile.DisplayName, truncateUserID(profile.UserID), profile.PictureURL, loggedIn)
}

// truncateUserID shortens long platform user ids for display.
func truncateUserID(userID string) string {
	if userID == "" {
		return "-"
	}
	if len(userID) > 10 {
		return userID[:10] + "..."
	}
	return userID
}

func (c *RegisterController) loadCompanies(ctx context.Context) {
	res := c.env.API.Do(ctx, httpclient.Request{
		BaseURL: c.env.Config.APIBaseURL,
		Path:    c.env.Config.Endpoint(appconfig.EndpointCompany),
		Method:  http.MethodGet,
	})
	if !res.OK {
		c.env.logger().Warn("company list load failed", "err", res.Err)
		c.view.ShowToast(ui.Notice{
			Type:    ui.LevelError,
			Title:   "ข้อผิดพลาด",
			Message: "ไม่สามารถโหลดรายชื่อบริษัทได้",
		})
		return
	}

	companies := decodeCompanies(httpclient.EnvelopeData(res.Data))
	c.view.SetCompanies(companies)
}

func decodeCompanies(payload any) []Company {
	items, ok := payload.([]any)
	if !ok {
		return nil
	}
	companies := make([]Company, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		company := Company{}
		if id, ok := entry["id"].(float64); ok {
			company.ID = int(id)
		}
		if name, ok := entry["name"].(string); ok {
			company.Name = name
		}
		companies = append(companies, company)
	}
	return companies
}

// Submit validates and sends the registration payload. Validation errors stay
// in the form; transport and backend errors surface as toasts and leave the
// form editable for a retry.
func (c *RegisterController) Submit(ctx context.Context, payload validate.Registration) {
	c.view.ClearFormErrors()

	if errors := validate.ValidateRegistration(payload); !validate.IsEmpty(errors) {
		c.view.SetFormErrors(errors)
		c.view.ShowToast(ui.Notice{
			Type:    ui.LevelError,
			Title:   "การตรวจสอบข้อมูล",
			Message: "กรุณาแก้ไขฟิลด์ที่ไฮไลต์",
		})
		return
	}

	token := c.env.Session.GetAccessTokenSafe()

	c.view.SetLoading(true)
	c.view.SetStatus("กำลังส่ง...")
	defer c.view.SetLoading(false)

	res := c.env.API.Do(ctx, httpclient.Request{
		BaseURL: c.env.Config.APIBaseURL,
		Path:    c.env.Config.Endpoint(appconfig.EndpointRegister),
		Method:  http.MethodPost,
		Body: map[string]any{
			"name":       payload.Name,
			"IDCard":     payload.IDCard,
			"companyId":  payload.CompanyID,
			"start_date": payload.StartDate,
		},
		AuthToken: token,
	})
	if !res.OK {
		c.view.ShowToast(ui.Notice{Type: ui.LevelError, Title: "การส่งล้มเหลว", Message: res.Err})
		c.view.SetStatus("ล้มเหลว")
		return
	}

	c.view.ShowToast(ui.Notice{
		Type:    ui.LevelSuccess,
		Title:   "ลงทะเบียนแล้ว",
		Message: "การลงทะเบียนของคุณถูกส่งเรียบร้อยแล้ว",
	})
	c.view.SetStatus("สำเร็จ")

	if sent := c.env.Session.TrySendMessage(ctx, "ส่งคำขอการลงทะเบียนสำเร็จแล้ว"); !sent.OK {
		c.env.logger().Debug("chat message skipped", "reason", sent.Reason)
	}

	c.view.ResetForm()
}

// Ready reports whether bootstrap reached the action-ready state.
func (c *RegisterController) Ready() bool { return c.ready }
