package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventKind distinguishes the two attendance event types. The wire values
// keep the Spanish terms used by the HR organization.
type EventKind string

const (
	KindCheckIn  EventKind = "entrada"
	KindCheckOut EventKind = "salida"
)

// Valid reports whether the kind is one of the two known event types.
func (k EventKind) Valid() bool {
	return k == KindCheckIn || k == KindCheckOut
}

// AttendanceEvent is one recorded check-in or check-out. Events are
// append-only: none of the fields change after creation.
type AttendanceEvent struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	Kind       EventKind `json:"kind"`
	OccurredAt time.Time `json:"occurredAt"`
	OccurredOn Date      `json:"occurredOn"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
}

// Employee is read-only roster data owned by the HR directory. The ledger
// never creates or mutates employees; it only references them by ID.
type Employee struct {
	ID           string  `json:"id"`
	FullName     string  `json:"fullName"`
	Email        string  `json:"email"`
	Active       bool    `json:"active"`
	Admin        bool    `json:"admin"`
	SupervisorID *string `json:"supervisorId,omitempty"`
}

// Identity is the requester resolved by the external session layer.
type Identity struct {
	EmployeeID string
	Admin      bool
}

// DayStatus tells whether an employee has already recorded each event kind
// for the current organizational date.
type DayStatus struct {
	CheckedIn  bool `json:"checkedIn"`
	CheckedOut bool `json:"checkedOut"`
}

// DailyView is the per-date roster composition. The missing lists and total
// are only populated for administrators.
type DailyView struct {
	Date            Date              `json:"date"`
	CheckIns        []AttendanceEvent `json:"checkIns"`
	CheckOuts       []AttendanceEvent `json:"checkOuts"`
	MissingCheckIn  []Employee        `json:"missingCheckIn,omitempty"`
	MissingCheckOut []Employee        `json:"missingCheckOut,omitempty"`
	TotalActive     int               `json:"totalActive,omitempty"`
}

const dateLayout = "2006-01-02" // yyyy-MM-dd

// Date is a calendar date with no time-of-day component, used as the day
// key for all uniqueness and filtering decisions. Dates are normalized to
// midnight UTC so two equal dates compare equal with ==.
type Date struct {
	time.Time
}

// DateOf truncates an instant to its calendar date as observed in loc.
func DateOf(t time.Time, loc *time.Location) Date {
	y, m, d := t.In(loc).Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a yyyy-MM-dd string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date format: %w", err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = parsed.Time
	return nil
}
