package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"donorapi/internal/model"
	"donorapi/internal/repository"
)

// CallDetailInput is what a candidate reports after calling a data record.
type CallDetailInput struct {
	CandidateID          string `json:"candidateId"`
	Status               string `json:"status"`
	Reason               string `json:"reason"`
	CustomerInterested   bool   `json:"customerInterested"`
	IsScheduled          bool   `json:"isScheduled"`
	FollowUpDate         string `json:"followUpDate"`
	DonationAmount       string `json:"donationAmount"`
	CallOutcome          string `json:"callOutcome"`
	Remarks              string `json:"remarks"`
	DoNotDisturb         bool   `json:"doNotDisturb"`
	ValuableCustomer     bool   `json:"valuableCustomer"`
	AppointmentScheduled bool   `json:"appointmentScheduled"`
	CallTime             string `json:"callTime"`
}

// CallDetailService records call outcomes against distributed data records.
type CallDetailService interface {
	// Log stores a call outcome. The record must exist.
	Log(ctx context.Context, recordID string, in CallDetailInput) (*model.CallDetail, error)

	// ListByRecord returns a record's call details, oldest first.
	ListByRecord(ctx context.Context, recordID string) ([]model.CallDetail, error)
}

type callDetailService struct {
	repo  repository.CallDetailRepository
	now   func() time.Time
	newID func() string
}

// NewCallDetailService constructs a CallDetailService.
func NewCallDetailService(repo repository.CallDetailRepository) CallDetailService {
	return &callDetailService{repo: repo, now: time.Now, newID: uuid.NewString}
}

func (s *callDetailService) Log(ctx context.Context, recordID string, in CallDetailInput) (*model.CallDetail, error) {
	if recordID == "" {
		return nil, ErrIDRequired
	}
	if err := validateCallDetail(in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	cd, err := s.repo.Create(ctx, &model.CallDetail{
		ID:                   s.newID(),
		RecordID:             recordID,
		CandidateID:          strings.TrimSpace(in.CandidateID),
		Status:               model.CallStatus(in.Status),
		Reason:               in.Reason,
		CustomerInterested:   in.CustomerInterested,
		IsScheduled:          in.IsScheduled,
		FollowUpDate:         strings.TrimSpace(in.FollowUpDate),
		DonationAmount:       strings.TrimSpace(in.DonationAmount),
		CallOutcome:          strings.TrimSpace(in.CallOutcome),
		Remarks:              strings.TrimSpace(in.Remarks),
		DoNotDisturb:         in.DoNotDisturb,
		ValuableCustomer:     in.ValuableCustomer,
		AppointmentScheduled: in.AppointmentScheduled,
		CallTime:             strings.TrimSpace(in.CallTime),
		CreatedAt:            now,
		UpdatedAt:            now,
	})
	if err != nil {
		if errors.Is(err, repository.ErrMissingReference) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("save call detail: %w", err)
	}
	return cd, nil
}

func (s *callDetailService) ListByRecord(ctx context.Context, recordID string) ([]model.CallDetail, error) {
	if recordID == "" {
		return nil, ErrIDRequired
	}
	out, err := s.repo.ListByRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

func validateCallDetail(in CallDetailInput) error {
	switch {
	case strings.TrimSpace(in.CandidateID) == "":
		return fmt.Errorf("%w: candidateId is required", ErrInvalidCallDetail)
	case !model.CallStatus(in.Status).Valid():
		return fmt.Errorf("%w: status must be %q or %q", ErrInvalidCallDetail, model.CallConnected, model.CallNotConnected)
	case !model.ValidCallReason(in.Reason):
		return fmt.Errorf("%w: unknown reason %q", ErrInvalidCallDetail, in.Reason)
	case strings.TrimSpace(in.CallTime) == "":
		return fmt.Errorf("%w: callTime is required", ErrInvalidCallDetail)
	}
	return nil
}
