package bill

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/billsplitter/internal/models"
)

// ErrInvalidState is returned by Validate for a structurally broken bill.
var ErrInvalidState = errors.New("invalid bill")

// MaxAmountScale is the most fractional digits an amount may carry.
const MaxAmountScale = models.MaxAmountScale

// MaxAmount bounds the magnitude of every amount.
var MaxAmount = models.MaxAmount

// CheckAmount reports ErrAmountOutOfRange for values that are too precise or
// too large. The value is left out of the error since formatting an extreme
// exponent is itself expensive.
func CheckAmount(d decimal.Decimal) error {
	if !models.AmountInRange(d) {
		return ErrAmountOutOfRange
	}
	return nil
}

// Validate checks a client-supplied bill before any computation touches it.
func Validate(state models.BillState) error {
	participants := make(map[string]struct{}, len(state.Participants))
	for i, p := range state.Participants {
		if p.ID == "" {
			return fmt.Errorf("%w: participant %d has no id", ErrInvalidState, i)
		}
		if _, dup := participants[p.ID]; dup {
			return fmt.Errorf("%w: duplicate participant id %q", ErrInvalidState, p.ID)
		}
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: participant %q: %w", ErrInvalidState, p.ID, ErrEmptyName)
		}
		participants[p.ID] = struct{}{}
	}

	items := make(map[string]struct{}, len(state.Items))
	for i, it := range state.Items {
		if it.ID == "" {
			return fmt.Errorf("%w: item %d has no id", ErrInvalidState, i)
		}
		if _, dup := items[it.ID]; dup {
			return fmt.Errorf("%w: duplicate item id %q", ErrInvalidState, it.ID)
		}
		items[it.ID] = struct{}{}

		if strings.TrimSpace(it.Name) == "" {
			return fmt.Errorf("%w: item %q: %w", ErrInvalidState, it.ID, ErrEmptyName)
		}
		if it.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: item %q: %w", ErrInvalidState, it.ID, ErrNegativePrice)
		}
		if err := CheckAmount(it.UnitPrice); err != nil {
			return fmt.Errorf("%w: item %q: %w", ErrInvalidState, it.ID, err)
		}
		if it.Quantity < 1 {
			return fmt.Errorf("%w: item %q: quantity must be at least 1", ErrInvalidState, it.ID)
		}

		assigned := make(map[string]struct{}, len(it.AssignedTo))
		for _, pid := range it.AssignedTo {
			if _, ok := participants[pid]; !ok {
				return fmt.Errorf("%w: item %q: %w: %q", ErrInvalidState, it.ID, ErrUnknownParticipant, pid)
			}
			if _, dup := assigned[pid]; dup {
				return fmt.Errorf("%w: item %q: participant %q assigned twice", ErrInvalidState, it.ID, pid)
			}
			assigned[pid] = struct{}{}
		}
	}

	return validateSettings(state.Settings)
}

func validateSettings(s models.Settings) error {
	switch {
	case s.DiscountType != "" && s.DiscountType != models.DiscountPercentage && s.DiscountType != models.DiscountFixed:
		return fmt.Errorf("%w: unknown discount type %q", ErrInvalidSettings, s.DiscountType)
	case s.DiscountValue.IsNegative():
		return fmt.Errorf("%w: discount cannot be negative", ErrInvalidSettings)
	case s.ServiceCharge.Rate.IsNegative():
		return fmt.Errorf("%w: service charge rate cannot be negative", ErrInvalidSettings)
	case s.Tax.Rate.IsNegative():
		return fmt.Errorf("%w: tax rate cannot be negative", ErrInvalidSettings)
	case s.CustomRate.Valid && s.CustomRate.Decimal.IsNegative():
		return fmt.Errorf("%w: custom rate cannot be negative", ErrInvalidSettings)
	}

	amounts := []struct {
		name  string
		value decimal.Decimal
	}{
		{"discount", s.DiscountValue},
		{"service charge", s.ServiceCharge.Rate},
		{"tax", s.Tax.Rate},
		{"custom rate", s.CustomRate.Decimal},
	}
	for _, a := range amounts {
		if err := CheckAmount(a.value); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidSettings, a.name, err)
		}
	}
	return nil
}
