package validate

import (
	"regexp"
	"strings"
	"time"
)

// FormErrors maps field names to human-readable validation messages. An empty
// map means the payload is valid. All fields are checked independently so the
// UI can highlight every problem at once.
type FormErrors map[string]string

func IsEmpty(errors FormErrors) bool {
	return len(errors) == 0
}

// TimestampTypes are the six clock event types a forget-time request may
// reference.
var TimestampTypes = []string{
	"work_in", "work_out",
	"break_in", "break_out",
	"ot_in", "ot_out",
}

func IsTimestampType(value string) bool {
	for _, t := range TimestampTypes {
		if value == t {
			return true
		}
	}
	return false
}

var (
	idCardPattern = regexp.MustCompile(`^\d{13}$`)
	timePattern   = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)
	isoDayPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

type Registration struct {
	Name      string
	IDCard    string
	CompanyID int
	StartDate string
}

func ValidateRegistration(payload Registration) FormErrors {
	errors := FormErrors{}

	name := strings.TrimSpace(payload.Name)
	switch {
	case name == "":
		errors["name"] = "กรุณาระบุชื่อ"
	case len([]rune(name)) < 3:
		errors["name"] = "ชื่ออย่างน้อย 3 ตัวอักษร"
	case len([]rune(name)) > 30:
		errors["name"] = "ชื่อไม่เกิน 30 ตัวอักษร"
	}

	idCard := strings.TrimSpace(payload.IDCard)
	switch {
	case idCard == "":
		errors["IDCard"] = "กรุณาระบุหมายเลขบัตรประชาชน"
	case !idCardPattern.MatchString(idCard):
		errors["IDCard"] = "หมายเลขบัตรประชาชนต้องมี 13 หลัก"
	}

	if payload.CompanyID <= 0 {
		errors["companyId"] = "รหัสบริษัทต้องเป็นจำนวนเต็มบวก"
	}

	startDate := strings.TrimSpace(payload.StartDate)
	switch {
	case startDate == "":
		errors["start_date"] = "กรุณาระบุวันที่เริ่มต้นงาน"
	case !isISODate(startDate):
		errors["start_date"] = "วันที่เริ่มต้นงานต้องเป็นรูปแบบ ISO"
	}

	return errors
}

type ForgetTime struct {
	TimestampType string
	Date          string
	Time          string
	Reason        string
	// Evidence is the optional stringified attachment; nil means absent.
	Evidence *string
}

const maxEvidenceChars = 65535

func ValidateForgetTime(payload ForgetTime) FormErrors {
	errors := FormErrors{}

	timestampType := strings.TrimSpace(payload.TimestampType)
	switch {
	case timestampType == "":
		errors["timestamp_type"] = "กรุณาระบุประเภท Timestamp"
	case !IsTimestampType(timestampType):
		errors["timestamp_type"] = "ประเภท Timestamp ไม่ถูกต้อง"
	}

	date := strings.TrimSpace(payload.Date)
	switch {
	case date == "":
		errors["date"] = "กรุณาระบุวันที่"
	case !isISODate(date):
		errors["date"] = "วันที่ต้องเป็นรูปแบบ ISO"
	}

	clock := strings.TrimSpace(payload.Time)
	switch {
	case clock == "":
		errors["time"] = "กรุณาระบุเวลา"
	case !timePattern.MatchString(clock):
		errors["time"] = "เวลาต้องเป็นรูปแบบ HH:mm หรือ HH:mm:ss"
	}

	reason := strings.TrimSpace(payload.Reason)
	switch {
	case reason == "":
		errors["reason"] = "กรุณาระบุเหตุผล"
	case len([]rune(reason)) > 500:
		errors["reason"] = "เหตุผลต้องไม่เกิน 500 ตัวอักษร"
	}

	if payload.Evidence != nil && len(*payload.Evidence) > maxEvidenceChars {
		errors["evidence"] = "หลักฐานยาวเกินไป"
	}

	return errors
}

// isISODate accepts YYYY-MM-DD calendar dates (rejecting impossible days
// such as 2024-02-30) or any RFC3339 timestamp.
func isISODate(value string) bool {
	if isoDayPattern.MatchString(value) {
		_, err := time.Parse("2006-01-02", value)
		return err == nil
	}
	_, err := time.Parse(time.RFC3339, value)
	return err == nil
}
