package domain

import (
	"errors"
	"time"
)

var (
	ErrAttendanceNotFound  = errors.New("attendance not found")
	ErrDuplicateAttendance = errors.New("attendance already recorded for this assignment and date")
)

// AttendanceStatus describes a worker's presence on a given day.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceHalfDay AttendanceStatus = "HALF_DAY"
	AttendanceLeave   AttendanceStatus = "LEAVE"
)

// Attendance is the record of one assignment on one calendar day.
// UserID is copied from the assignment so ownership checks need no join.
type Attendance struct {
	ID           string
	AssignmentID string
	UserID       string
	Date         time.Time
	CheckIn      string
	CheckOut     string
	Status       AttendanceStatus
	Notes        string
	CreatedAt    time.Time
}

// UniqueKey identifies the (assignment, date) pair that must be unique.
func (a *Attendance) UniqueKey() string {
	return a.AssignmentID + "|" + a.Date.Format(DateLayout)
}

// AttendanceDetail is an attendance record enriched for display.
type AttendanceDetail struct {
	Attendance
	WorkerName string
	JobType    string
}

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// TruncateDay returns t as UTC midnight of its calendar day.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
