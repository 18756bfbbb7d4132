package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrAssignmentInUse    = errors.New("assignment is referenced by attendance or payments")
)

// JobType is the kind of work an assignment covers.
type JobType string

const (
	JobMaid   JobType = "MAID"
	JobCook   JobType = "COOK"
	JobClean  JobType = "CLEAN"
	JobGuard  JobType = "GUARD"
	JobDriver JobType = "DRIVER"
	JobOther  JobType = "OTHER"
)

var jobTypeDisplay = map[JobType]string{
	JobMaid:   "House Maid",
	JobCook:   "Cook",
	JobClean:  "Cleaning Staff",
	JobGuard:  "Security Guard",
	JobDriver: "Driver",
	JobOther:  "Other",
}

// Display returns the human-readable job type label.
func (j JobType) Display() string {
	if s, ok := jobTypeDisplay[j]; ok {
		return s
	}
	return string(j)
}

// AssignmentStatus is the lifecycle state of an assignment.
type AssignmentStatus string

const (
	AssignmentActive     AssignmentStatus = "ACTIVE"
	AssignmentInactive   AssignmentStatus = "INACTIVE"
	AssignmentTerminated AssignmentStatus = "TERMINATED"
)

// Assignment links a worker to the client user who engages them.
// ShiftStart and ShiftEnd are "HH:MM" times of day.
type Assignment struct {
	ID            string
	WorkerID      string
	UserID        string
	JobType       JobType
	MonthlySalary decimal.Decimal
	ShiftStart    string
	ShiftEnd      string
	StartDate     time.Time
	EndDate       *time.Time
	Status        AssignmentStatus
	Duties        string
	CreatedAt     time.Time
}

// ValidateDates rejects an end date that falls before the start date.
func (a *Assignment) ValidateDates() error {
	if a.EndDate != nil && a.EndDate.Before(a.StartDate) {
		return fmt.Errorf("%w: end_date must not be before start_date", ErrInvalidInput)
	}
	return nil
}

// AssignmentDetail is an assignment enriched with its worker's name.
type AssignmentDetail struct {
	Assignment
	WorkerName string
}
