package model

import (
	"slices"
	"time"
)

// CallStatus is the outcome class of a call attempt.
type CallStatus string

const (
	CallConnected    CallStatus = "connected"
	CallNotConnected CallStatus = "not-connected"
)

func (s CallStatus) Valid() bool {
	return s == CallConnected || s == CallNotConnected
}

var callReasons = []string{
	"Busy in another call",
	"User disconnected the call",
	"Switch off",
	"Out of coverage/network issue",
	"Other reason",
	"Incorrect/invalid number",
	"Incoming calls not available",
	"Number not in use/does not exist/out of service",
}

// CallReasons returns the accepted call reasons.
func CallReasons() []string { return slices.Clone(callReasons) }

// ValidCallReason reports whether r is empty or one of CallReasons.
func ValidCallReason(r string) bool {
	return r == "" || slices.Contains(callReasons, r)
}

// CallDetail is a call outcome a candidate logged against one data record.
type CallDetail struct {
	ID                   string     `json:"id"`
	RecordID             string     `json:"record_id"`
	CandidateID          string     `json:"candidate_id"`
	Status               CallStatus `json:"status"`
	Reason               string     `json:"reason,omitempty"`
	CustomerInterested   bool       `json:"customer_interested"`
	IsScheduled          bool       `json:"is_scheduled"`
	FollowUpDate         string     `json:"follow_up_date,omitempty"`
	DonationAmount       string     `json:"donation_amount,omitempty"`
	CallOutcome          string     `json:"call_outcome,omitempty"`
	Remarks              string     `json:"remarks,omitempty"`
	DoNotDisturb         bool       `json:"do_not_disturb"`
	ValuableCustomer     bool       `json:"valuable_customer"`
	AppointmentScheduled bool       `json:"appointment_scheduled"`
	CallTime             string     `json:"call_time"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}
