// Package metrics defines and registers all custom Prometheus metrics for the
// staff ledger API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry at package
// init through promauto; HTTP request metrics come from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "staff"

// ── Identity metrics ──────────────────────────────────────────────────────────

// OTPRequestsTotal counts OTP issuance attempts.
// Label:
//   - result: "sent", "store_failed" or "sms_failed"
var OTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_requests_total",
		Help:      "Total number of OTP requests, labelled by outcome.",
	},
	[]string{"result"},
)

// OTPVerificationsTotal counts OTP verification attempts.
// Label:
//   - result: "success" or "invalid"
var OTPVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_verifications_total",
		Help:      "Total number of OTP verification attempts, labelled by outcome.",
	},
	[]string{"result"},
)

// UsersRegisteredTotal counts users created by a first successful OTP login.
var UsersRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of users created on first OTP verification.",
	},
)

// ── Ledger metrics ────────────────────────────────────────────────────────────

// LoanAdjustmentsTotal counts recorded loan ledger entries.
// Label:
//   - kind: "GRANT" or "DEDUCTION"
var LoanAdjustmentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "loan_adjustments_total",
		Help:      "Total number of loan adjustments recorded, by kind.",
	},
	[]string{"kind"},
)

// LoanAdjustmentErrorsTotal counts ledger writes that failed.
// Label:
//   - reason: short description of the failure (e.g. "conflict", "invalid", "not_found")
var LoanAdjustmentErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "loan_adjustment_errors_total",
		Help:      "Total number of loan adjustments that failed to record.",
	},
	[]string{"reason"},
)

// PaymentDeductionOverwritesTotal counts deductions that replaced the effect
// of an earlier deduction on the same payment.
var PaymentDeductionOverwritesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_deduction_overwrites_total",
		Help:      "Total number of loan deductions that overwrote an earlier deduction's effect on a payment.",
	},
)

// PaymentsCreatedTotal counts salary payments.
// Label:
//   - mode: "CASH", "UPI", "BANK" or "OTHER"
var PaymentsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_created_total",
		Help:      "Total number of salary payments created, by payment mode.",
	},
	[]string{"mode"},
)

// AttendanceRecordedTotal counts attendance records.
// Label:
//   - status: "PRESENT", "ABSENT", "HALF_DAY" or "LEAVE"
var AttendanceRecordedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attendance_recorded_total",
		Help:      "Total number of attendance records created, by status.",
	},
	[]string{"status"},
)
