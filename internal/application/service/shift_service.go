package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-pos/internal/domain/entity"
	"github.com/sangkips/laundry-pos/internal/domain/enum"
	"github.com/sangkips/laundry-pos/internal/domain/repository"
	"github.com/sangkips/laundry-pos/pkg/apperror"
	"github.com/sangkips/laundry-pos/pkg/billing"
	"github.com/sangkips/laundry-pos/pkg/pagination"
)

// ShiftService handles cash register shifts
type ShiftService struct {
	shiftRepo repository.ShiftRepository
	now       func() time.Time
}

// NewShiftService creates a new shift service
func NewShiftService(shiftRepo repository.ShiftRepository) *ShiftService {
	return &ShiftService{shiftRepo: shiftRepo, now: time.Now}
}

// OpenShift starts a shift for the cashier with the cash float in the drawer.
// A cashier can only have one open shift.
func (s *ShiftService) OpenShift(ctx context.Context, userID uuid.UUID, openingFloat float64, notes *string) (*entity.Shift, error) {
	if openingFloat < 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "opening_float", Message: "Opening float cannot be negative"}})
	}

	open, err := s.shiftRepo.GetOpenByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, apperror.NewConflictError("A shift is already open for this cashier")
	}

	float := billing.ToCents(billing.Amount(openingFloat))
	shift := &entity.Shift{
		UserID:       userID,
		Status:       enum.ShiftStatusOpen,
		OpeningFloat: float,
		ExpectedCash: float,
		Notes:        notes,
		OpenedAt:     s.now(),
	}

	if err := s.shiftRepo.Create(ctx, shift); err != nil {
		return nil, err
	}
	return shift, nil
}

// GetCurrentShift returns the cashier's open shift
func (s *ShiftService) GetCurrentShift(ctx context.Context, userID uuid.UUID) (*entity.Shift, error) {
	shift, err := s.shiftRepo.GetOpenByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, apperror.NewNotFoundError("Open shift")
	}
	return shift, nil
}

// openShift returns the cashier's open shift or nil without treating absence as an error
func (s *ShiftService) openShift(ctx context.Context, userID uuid.UUID) (*entity.Shift, error) {
	return s.shiftRepo.GetOpenByUser(ctx, userID)
}

// RecordTakings books a payment against the shift. newOrder also counts the
// payment as one more order taken in the shift.
func (s *ShiftService) RecordTakings(ctx context.Context, shift *entity.Shift, method billing.PaymentMethod, cents int64, newOrder bool) error {
	if shift == nil {
		return nil
	}
	if shift.Status != enum.ShiftStatusOpen {
		return apperror.NewConflictError("Shift is closed")
	}
	if cents > 0 {
		shift.AddTakings(method, cents)
	}
	if newOrder {
		shift.OrdersCount++
	}
	return s.shiftRepo.Update(ctx, shift)
}

// CloseShift counts the drawer and closes the cashier's open shift
func (s *ShiftService) CloseShift(ctx context.Context, userID uuid.UUID, countedCash float64, notes *string) (*entity.Shift, error) {
	if countedCash < 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "counted_cash", Message: "Counted cash cannot be negative"}})
	}

	shift, err := s.shiftRepo.GetOpenByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, apperror.ErrNoOpenShift
	}

	shift.Close(billing.ToCents(billing.Amount(countedCash)), s.now())
	if notes != nil {
		shift.Notes = notes
	}

	if err := s.shiftRepo.Update(ctx, shift); err != nil {
		return nil, err
	}
	return shift, nil
}

// ListShifts lists shifts newest first. A nil userID lists every cashier.
func (s *ShiftService) ListShifts(ctx context.Context, userID *uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Shift], error) {
	params.Validate()
	shifts, total, err := s.shiftRepo.List(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(shifts, pag), nil
}

// GetShift retrieves a shift by ID
func (s *ShiftService) GetShift(ctx context.Context, id uuid.UUID) (*entity.Shift, error) {
	shift, err := s.shiftRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, apperror.NewNotFoundError("Shift")
	}
	return shift, nil
}
