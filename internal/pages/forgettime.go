package pages

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"liffapp/internal/appconfig"
	"liffapp/internal/calendar"
	"liffapp/internal/httpclient"
	"liffapp/internal/ui"
	"liffapp/internal/validate"
)

// MaxEvidenceBytes is the client-side ceiling for evidence attachments,
// enforced before any upload starts.
const MaxEvidenceBytes = 10 << 20

// Evidence is a file attachment read client-side.
type Evidence struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ForgetTimeForm is the submission payload as read from the form.
type ForgetTimeForm struct {
	TimestampType string
	Date          string
	Time          string
	Reason        string
	Evidence      *Evidence
}

// ForgetTimeView is the rendering surface of the forget-time page, including
// the missing-timestamp calendar.
type ForgetTimeView interface {
	SetStatus(text string)
	ShowBanner(notice ui.Notice)
	HideBanner()
	ShowToast(notice ui.Notice)
	SetLoading(loading bool)
	SetFormErrors(errors validate.FormErrors)
	ClearFormErrors()
	ShowProfile(displayName, userID, pictureURL string, loggedIn bool)
	RenderCalendar(month time.Time, days []calendar.DayState)
	SetFormDate(date string)
	SetTypeOptions(types []string, selected string)
	ResetForm()
}

// ForgetTimeController drives the forget-time submission page: the calendar
// of missing timestamps and the validated, evidence-carrying submit flow.
type ForgetTimeController struct {
	env  Env
	view ForgetTimeView

	calView *calendar.ViewState
	buckets calendar.Buckets
	window  calendar.Window
	ready   bool
}

func NewForgetTime(env Env, view ForgetTimeView) *ForgetTimeController {
	return &ForgetTimeController{env: env, view: view}
}

func (c *ForgetTimeController) Boot(ctx context.Context, redirectURI string) {
	c.view.HideBanner()
	c.view.SetLoading(false)
	c.view.SetStatus("กำลังเริ่ม...")

	if notice, ok := warningNotice(c.env.Warnings); ok {
		c.view.ShowBanner(notice)
	}
	if c.env.Config.Debug {
		c.env.logger().Debug("forget-time runtime config", "config", c.env.Config)
	}

	if err := c.env.Session.InitOrThrow(ctx, c.env.Config.LiffID); err != nil {
		c.env.logger().Warn("liff init failed", "err", err)
		c.view.SetStatus("ไม่พร้อม")
		c.view.ShowBanner(ui.Notice{
			Type:    ui.LevelError,
			Title:   "การเริ่ม LIFF ล้มเหลว",
			Message: err.Error(),
		})
		return
	}

	if c.env.Config.RequireLogin && !c.env.Session.IsLoggedIn() {
		c.view.SetStatus("กำลังเปลี่ยนเส้นทางไปยังการเข้าสู่ระบบ LINE...")
		c.view.ShowBanner(ui.Notice{
			Type:    ui.LevelWarning,
			Title:   "ต้องเข้าสู่ระบบ",
			Message: "กำลังเปลี่ยนเส้นทางไปยังการเข้าสู่ระบบ LINE",
		})
		if err := c.env.Session.EnsureLoggedIn(redirectURI); err != nil {
			c.env.logger().Warn("login redirect failed", "err", err)
		}
		return
	}

	profile := c.env.Session.GetProfileSafe(ctx)
	if profile != nil {
		c.view.ShowProfile(profile.DisplayName, profile.UserID, profile.PictureURL, c.env.Session.IsLoggedIn())
	} else {
		c.view.ShowProfile("-", "-", "", c.env.Session.IsLoggedIn())
	}

	today := c.env.scheduler().Now()
	c.calView = calendar.NewViewState(today)
	c.window = calendar.ActionWindow(today)
	c.LoadCalendar(ctx)

	c.ready = true
	c.view.SetStatus("พร้อม")
}

// LoadCalendar fetches the trailing 30-day missing-timestamp list and renders
// the displayed month. Fetch failures leave an empty calendar and a toast;
// the form itself stays usable.
func (c *ForgetTimeController) LoadCalendar(ctx context.Context) {
	res := c.env.API.Do(ctx, httpclient.Request{
		BaseURL:   c.env.Config.APIBaseURL,
		Path:      c.env.Config.Endpoint(appconfig.EndpointMissingTimestamps),
		Method:    http.MethodGet,
		AuthToken: c.env.Session.GetAccessTokenSafe(),
	})
	if !res.OK {
		c.env.logger().Warn("missing timestamp fetch failed", "err", res.Err)
		c.buckets = calendar.Buckets{}
		c.view.ShowToast(ui.Notice{
			Type:    ui.LevelError,
			Title:   "ข้อผิดพลาด",
			Message: "ไม่สามารถโหลดข้อมูลวันที่ขาดการลงเวลาได้",
		})
	} else {
		c.buckets = calendar.Bucket(decodeEntries(httpclient.EnvelopeData(res.Data)))
	}
	c.renderCalendar()
}

func decodeEntries(payload any) []calendar.Entry {
	items, ok := payload.([]any)
	if !ok {
		return nil
	}
	entries := make([]calendar.Entry, 0, len(items))
	for _, item := range items {
		raw, ok := item.(map[string]any)
		if !ok {
			continue
		}
		entry := calendar.Entry{}
		if date, ok := raw["date"].(string); ok {
			entry.Date = date
		}
		if kind, ok := raw["type"].(string); ok {
			entry.Type = kind
		}
		if status, ok := raw["status"].(string); ok {
			entry.Status = calendar.Status(status)
		}
		entries = append(entries, entry)
	}
	return entries
}

func (c *ForgetTimeController) renderCalendar() {
	if c.calView == nil {
		return
	}
	c.view.RenderCalendar(c.calView.Cursor(), c.calView.MonthStates(c.buckets, c.window))
}

func (c *ForgetTimeController) NextMonth() {
	if c.calView == nil {
		return
	}
	c.calView.NextMonth()
	c.renderCalendar()
}

func (c *ForgetTimeController) PrevMonth() {
	if c.calView == nil {
		return
	}
	c.calView.PrevMonth()
	c.renderCalendar()
}

// SelectDay reacts to a calendar tap. Actionable days populate the form and
// restrict the type options to that day's missing types; other in-window days
// only inform.
func (c *ForgetTimeController) SelectDay(day time.Time) {
	if c.calView == nil {
		return
	}
	state := calendar.StateFor(day, c.buckets, c.window)
	switch state.Kind {
	case calendar.DayActionable:
		c.calView.Select(state.Date)
		c.view.SetFormDate(state.Date.Format(calendar.DayFormat))
		c.view.SetTypeOptions(state.MissingTypes, state.MissingTypes[0])
	case calendar.DayPending:
		c.view.ShowToast(ui.Notice{
			Type:    ui.LevelInfo,
			Title:   "รอดำเนินการ",
			Message: "วันดังกล่าวมีคำขอที่รอการอนุมัติอยู่แล้ว",
		})
	case calendar.DayComplete:
		c.view.ShowToast(ui.Notice{
			Type:    ui.LevelSuccess,
			Title:   "ครบถ้วน",
			Message: "วันดังกล่าวมีการลงเวลาครบถ้วนแล้ว",
		})
	case calendar.DayDisabled:
		// Out of the actionable window; nothing to do.
	}
}

// Submit validates and sends a forget-time request. The canonical wire
// contract is multipart/form-data with the evidence file attached when
// present; the 10MB ceiling fails fast before any upload.
func (c *ForgetTimeController) Submit(ctx context.Context, form ForgetTimeForm) {
	c.view.ClearFormErrors()
	c.view.HideBanner()

	errors := validate.ValidateForgetTime(validate.ForgetTime{
		TimestampType: form.TimestampType,
		Date:          form.Date,
		Time:          form.Time,
		Reason:        form.Reason,
	})
	if form.Evidence != nil && len(form.Evidence.Data) > MaxEvidenceBytes {
		errors["evidence"] = "ไฟล์แนบต้องมีขนาดไม่เกิน 10MB"
	}
	if !validate.IsEmpty(errors) {
		c.view.SetFormErrors(errors)
		c.view.ShowBanner(ui.Notice{
			Type:    ui.LevelError,
			Title:   "การตรวจสอบข้อมูล",
			Message: "กรุณาแก้ไขฟิลด์ที่ไฮไลต์",
		})
		return
	}

	body, err := encodeSubmission(form)
	if err != nil {
		c.view.ShowBanner(ui.Notice{Type: ui.LevelError, Title: "การส่งล้มเหลว", Message: err.Error()})
		return
	}

	token := c.env.Session.GetAccessTokenSafe()

	c.view.SetLoading(true)
	c.view.SetStatus("กำลังส่ง...")
	defer c.view.SetLoading(false)

	res := c.env.API.Do(ctx, httpclient.Request{
		BaseURL:   c.env.Config.APIBaseURL,
		Path:      c.env.Config.Endpoint(appconfig.EndpointForgetTime),
		Method:    http.MethodPost,
		Body:      body,
		AuthToken: token,
	})
	if !res.OK {
		c.view.ShowBanner(ui.Notice{Type: ui.LevelError, Title: "การส่งล้มเหลว", Message: res.Err})
		c.view.SetStatus("ล้มเหลว")
		return
	}

	c.view.ShowBanner(ui.Notice{
		Type:    ui.LevelSuccess,
		Title:   "ส่งแล้ว",
		Message: "คำขอลืมเวลา (forget-time) ของคุณถูกส่งเรียบร้อยแล้ว",
	})
	c.view.SetStatus("สำเร็จ")

	if sent := c.env.Session.TrySendMessage(ctx, "ส่งคำขอ forget-time สำเร็จแล้ว"); !sent.OK {
		c.env.logger().Debug("chat message skipped", "reason", sent.Reason)
	}

	c.view.ResetForm()
	c.LoadCalendar(ctx)
}

func encodeSubmission(form ForgetTimeForm) (*httpclient.Multipart, error) {
	buffer := &bytes.Buffer{}
	writer := multipart.NewWriter(buffer)

	fields := map[string]string{
		"timestamp_type": form.TimestampType,
		"date":           form.Date,
		"time":           form.Time,
		"reason":         form.Reason,
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("encode field %s: %w", name, err)
		}
	}

	if form.Evidence != nil {
		part, err := writer.CreateFormFile("evidence", form.Evidence.Filename)
		if err != nil {
			return nil, fmt.Errorf("encode evidence: %w", err)
		}
		if _, err := part.Write(form.Evidence.Data); err != nil {
			return nil, fmt.Errorf("encode evidence: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize submission body: %w", err)
	}
	return &httpclient.Multipart{ContentType: writer.FormDataContentType(), Body: buffer}, nil
}

func (c *ForgetTimeController) Ready() bool { return c.ready }
