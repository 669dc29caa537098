package stub

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"liffapp/internal/calendar"
	"liffapp/internal/validate"
)

// Request statuses shared by both workflows.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

var (
	ErrNotFound         = errors.New("request not found")
	ErrAlreadyProcessed = errors.New("request already processed")
)

type Company struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Registration struct {
	ID        string
	Name      string
	IDCard    string
	CompanyID int
	StartDate string
	Status    string
}

type ForgetRequest struct {
	ID            string
	EmployeeName  string
	TimestampType string
	Date          string
	Time          string
	Reason        string
	EvidenceName  string
	Status        string
}

// Store keeps everything in memory. It exists to serve the mini-app during
// local development; state resets with the process.
type Store struct {
	mu            sync.Mutex
	companies     []Company
	registrations map[string]*Registration
	forgets       map[string]*ForgetRequest
	seedMissing   []calendar.Entry
}

func NewStore() *Store {
	return &Store{
		companies: []Company{
			{ID: 1, Name: "บริษัท เดโม่ จำกัด"},
			{ID: 2, Name: "บริษัท ตัวอย่าง จำกัด"},
		},
		registrations: map[string]*Registration{},
		forgets:       map[string]*ForgetRequest{},
	}
}

func (s *Store) Companies() []Company {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Company, len(s.companies))
	copy(out, s.companies)
	return out
}

// SeedCalendar plants missing timestamps on a few recent days so the
// forget-time calendar has something to show on a fresh start.
func (s *Store) SeedCalendar(today time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	days := []int{-1, -3, -7}
	types := [][]string{
		{"work_in", "work_out"},
		{"work_in"},
		{"ot_out"},
	}
	s.seedMissing = s.seedMissing[:0]
	for i, offset := range days {
		date := today.AddDate(0, 0, offset).Format(calendar.DayFormat)
		for _, kind := range types[i] {
			s.seedMissing = append(s.seedMissing, calendar.Entry{
				Date:   date,
				Type:   kind,
				Status: calendar.StatusMissing,
			})
		}
	}
}

func (s *Store) CreateRegistration(payload validate.Registration) *Registration {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg := &Registration{
		ID:        uuid.NewString(),
		Name:      payload.Name,
		IDCard:    payload.IDCard,
		CompanyID: payload.CompanyID,
		StartDate: payload.StartDate,
		Status:    StatusPending,
	}
	s.registrations[reg.ID] = reg
	return reg
}

func (s *Store) GetRegistration(id string) (*Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, ok := s.registrations[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *reg
	return &clone, nil
}

func (s *Store) ResolveRegistration(id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, ok := s.registrations[id]
	if !ok {
		return ErrNotFound
	}
	if reg.Status != StatusPending {
		return ErrAlreadyProcessed
	}
	reg.Status = status
	return nil
}

func (s *Store) CreateForgetRequest(employeeName string, payload validate.ForgetTime, evidenceName string) *ForgetRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	req := &ForgetRequest{
		ID:            uuid.NewString(),
		EmployeeName:  employeeName,
		TimestampType: payload.TimestampType,
		Date:          payload.Date,
		Time:          payload.Time,
		Reason:        payload.Reason,
		EvidenceName:  evidenceName,
		Status:        StatusPending,
	}
	s.forgets[req.ID] = req
	return req
}

func (s *Store) GetForgetRequest(id string) (*ForgetRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.forgets[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *req
	return &clone, nil
}

func (s *Store) ResolveForgetRequest(id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.forgets[id]
	if !ok {
		return ErrNotFound
	}
	if req.Status != StatusPending {
		return ErrAlreadyProcessed
	}
	req.Status = status
	return nil
}

// MissingEntries projects the calendar feed: seeded missing slots, with slots
// covered by a submitted request flipped to pending, and approved slots
// dropped entirely.
func (s *Store) MissingEntries() []calendar.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	covered := map[string]string{}
	for _, req := range s.forgets {
		covered[req.Date+"|"+req.TimestampType] = req.Status
	}

	entries := make([]calendar.Entry, 0, len(s.seedMissing))
	for _, entry := range s.seedMissing {
		switch covered[entry.Date+"|"+entry.Type] {
		case StatusPending:
			entry.Status = calendar.StatusPending
		case StatusApproved:
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}
