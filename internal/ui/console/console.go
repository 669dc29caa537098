// Package console renders the page views on a terminal. It exists so the
// controllers can be exercised end to end without a browser host; every view
// interface from the pages package has a console counterpart here.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"liffapp/internal/calendar"
	"liffapp/internal/pages"
	"liffapp/internal/ui"
	"liffapp/internal/validate"
)

// Console is the shared output sink of all view implementations.
type Console struct {
	out io.Writer
}

func New(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

func (c *Console) notice(kind string, notice ui.Notice) {
	c.printf("[%s:%s] %s — %s", kind, notice.Type, notice.Title, notice.Message)
}

// Overlay prints overlay transitions instead of blocking the screen.
type Overlay struct {
	console *Console
}

func NewOverlay(console *Console) *Overlay { return &Overlay{console: console} }

func (o *Overlay) Show() { o.console.printf("[overlay] shown") }
func (o *Overlay) Hide() { o.console.printf("[overlay] hidden") }

// formView carries the rendering shared by the two submission pages.
type formView struct {
	console *Console
}

func (v formView) SetStatus(text string) { v.console.printf("status: %s", text) }
func (v formView) ShowToast(notice ui.Notice) {
	v.console.notice("toast", notice)
}
func (v formView) SetLoading(loading bool) {
	if loading {
		v.console.printf("loading...")
	}
}
func (v formView) SetFormErrors(errors validate.FormErrors) {
	for field, message := range errors {
		v.console.printf("  %s: %s", field, message)
	}
}
func (v formView) ClearFormErrors() {}
func (v formView) ShowProfile(displayName, userID, pictureURL string, loggedIn bool) {
	v.console.printf("profile: %s (%s) logged-in=%t", displayName, userID, loggedIn)
}
func (v formView) ResetForm() { v.console.printf("form cleared") }

// RegisterView renders the registration page on the console.
type RegisterView struct {
	formView
}

func NewRegisterView(console *Console) *RegisterView {
	return &RegisterView{formView{console: console}}
}

func (v *RegisterView) SetCompanies(companies []pages.Company) {
	v.console.printf("companies:")
	for _, company := range companies {
		v.console.printf("  %d. %s", company.ID, company.Name)
	}
}

// ForgetTimeView renders the forget-time page, calendar included.
type ForgetTimeView struct {
	formView
}

func NewForgetTimeView(console *Console) *ForgetTimeView {
	return &ForgetTimeView{formView{console: console}}
}

func (v *ForgetTimeView) ShowBanner(notice ui.Notice) {
	v.console.notice("banner", notice)
}
func (v *ForgetTimeView) HideBanner() {}

var dayMarks = map[calendar.DayKind]string{
	calendar.DayDisabled:   " ",
	calendar.DayActionable: "!",
	calendar.DayPending:    "?",
	calendar.DayComplete:   ".",
}

func (v *ForgetTimeView) RenderCalendar(month time.Time, days []calendar.DayState) {
	v.console.printf("calendar %s", month.Format("2006-01"))
	line := strings.Builder{}
	for _, day := range days {
		line.WriteString(dayMarks[day.Kind])
	}
	v.console.printf("  %s", line.String())
}

func (v *ForgetTimeView) SetFormDate(date string) {
	v.console.printf("form date: %s", date)
}

func (v *ForgetTimeView) SetTypeOptions(types []string, selected string) {
	v.console.printf("type options: %s (selected %s)", strings.Join(types, ", "), selected)
}

// ApproveForgetView renders the forget-time approval landing page.
type ApproveForgetView struct {
	console *Console
	closer  func()
}

// NewApproveForgetView renders to console; closer runs when the page would
// close its window (nil means just print).
func NewApproveForgetView(console *Console, closer func()) *ApproveForgetView {
	return &ApproveForgetView{console: console, closer: closer}
}

func (v *ApproveForgetView) ShowLoading() { v.console.printf("loading...") }

func (v *ApproveForgetView) ShowSnapshot(info pages.RequestInfo) {
	v.console.printf("คำขอ (จากลิงก์): %s %s %s %s", info.EmployeeName, info.Date, info.Time, info.Type)
}

func (v *ApproveForgetView) ShowActionPage(info pages.RequestInfo) {
	v.console.printf("คำขอลืมลงเวลา")
	v.console.printf("  พนักงาน: %s", info.EmployeeName)
	v.console.printf("  วันที่: %s เวลา: %s ประเภท: %s", info.Date, info.Time, info.Type)
	v.console.printf("  เหตุผล: %s", info.Reason)
	v.console.printf("เลือก: approve / reject")
}

func (v *ApproveForgetView) ShowAlreadyProcessed(info pages.RequestInfo) {
	v.console.printf("คำขอนี้ถูกดำเนินการแล้ว (%s)", info.Status)
}

func (v *ApproveForgetView) ShowSuccess(title, message string) {
	v.console.printf("%s — %s", title, message)
}

func (v *ApproveForgetView) ShowError(title, message string) {
	v.console.printf("%s — %s", title, message)
}

func (v *ApproveForgetView) ShowCloseCountdown(remaining int) {
	v.console.printf("ปิดหน้าต่างใน %d วินาที", remaining)
}

func (v *ApproveForgetView) ShowToast(notice ui.Notice) {
	v.console.notice("toast", notice)
}

func (v *ApproveForgetView) CloseWindow() {
	v.console.printf("[window closed]")
	if v.closer != nil {
		v.closer()
	}
}

// ApproveRegisterView renders the registration approval landing page.
type ApproveRegisterView struct {
	console *Console
	closer  func()
}

func NewApproveRegisterView(console *Console, closer func()) *ApproveRegisterView {
	return &ApproveRegisterView{console: console, closer: closer}
}

func (v *ApproveRegisterView) ShowLoading() { v.console.printf("loading...") }

func (v *ApproveRegisterView) ShowActionPage(info pages.RegistrationInfo) {
	v.console.printf("คำขอลงทะเบียนพนักงาน")
	v.console.printf("  ชื่อ: %s", info.Name)
	v.console.printf("  เลขบัตร: %s", info.IDCardMasked)
	v.console.printf("  เริ่มงาน: %s", info.StartDateText)
	v.console.printf("เลือก: approve / reject")
}

func (v *ApproveRegisterView) ShowAlreadyApproved(info pages.RegistrationInfo) {
	v.console.printf("ผู้ใช้ %s ลงทะเบียนแล้ว", info.Name)
}

func (v *ApproveRegisterView) ShowSuccess(title, message string) {
	v.console.printf("%s — %s", title, message)
}

func (v *ApproveRegisterView) ShowError(message string) {
	v.console.printf("เกิดข้อผิดพลาด — %s", message)
}

func (v *ApproveRegisterView) CloseWindow() {
	v.console.printf("[window closed]")
	if v.closer != nil {
		v.closer()
	}
}

// PromptConfirmer asks for approval confirmation on the terminal. Rejects
// additionally prompt for a free-text reason.
type PromptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPromptConfirmer(in io.Reader, out io.Writer) *PromptConfirmer {
	return &PromptConfirmer{in: bufio.NewReader(in), out: out}
}

func (c *PromptConfirmer) Confirm(action string) (bool, string) {
	fmt.Fprintf(c.out, "ยืนยันการ %s? [y/N] ", action)
	answer, err := c.in.ReadString('\n')
	if err != nil {
		return false, ""
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer != "y" && answer != "yes" {
		return false, ""
	}

	reason := ""
	if action == pages.ActionReject {
		fmt.Fprint(c.out, "เหตุผล (เว้นว่างได้): ")
		line, err := c.in.ReadString('\n')
		if err == nil {
			reason = strings.TrimSpace(line)
		}
	}
	return true, reason
}

// AutoConfirmer answers every confirmation the same way, for scripted runs.
type AutoConfirmer struct {
	Confirmed bool
	Reason    string
}

func (c AutoConfirmer) Confirm(string) (bool, string) { return c.Confirmed, c.Reason }
