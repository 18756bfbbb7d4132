package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrWorkerNotFound   = errors.New("worker not found")
	ErrWorkerInUse      = errors.New("worker is referenced by assignments or loan adjustments")
	ErrConcurrentUpdate = errors.New("record was modified concurrently")
	ErrInvalidInput     = errors.New("invalid input")
)

// Gender is a worker's self-reported gender.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "O"
)

// Worker is a domestic worker's profile.
//
// LoanBalance is a cached aggregate of the worker's loan ledger. It is only
// ever written by the ledger service; Version guards it against lost updates.
type Worker struct {
	ID               string
	FullName         string
	PhoneNumber      string
	EmergencyContact string
	IDType           string
	IDNumber         string
	Address          string
	DOB              *time.Time
	City             string
	State            string
	Gender           Gender
	ProfilePhoto     string
	IsVerified       bool
	LoanBalance      decimal.Decimal
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
