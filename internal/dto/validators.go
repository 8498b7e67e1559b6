package dto

import (
	"github.com/gigbridge/gigbridge_backend/internal/core/domain"
	"github.com/go-playground/validator/v10"
)

var entryTypes = map[string]struct{}{
	string(domain.EntryMilestonePayment): {},
	string(domain.EntryWithdrawal):       {},
	string(domain.EntryRefund):           {},
	string(domain.EntryCommission):       {},
	string(domain.EntryBonus):            {},
	string(domain.EntryDisputeRefund):    {},
}

var entryStatuses = map[string]struct{}{
	string(domain.EntryPending):     {},
	string(domain.EntryProcessing):  {},
	string(domain.EntryCompleted):   {},
	string(domain.EntryFailed):      {},
	string(domain.EntryCancelled):   {},
	string(domain.EntryUnderReview): {},
	string(domain.EntryVerified):    {},
}

var paymentMethods = map[string]struct{}{
	string(domain.MethodPlatformBalance): {},
	string(domain.MethodBankTransfer):    {},
	string(domain.MethodCard):            {},
	string(domain.MethodPaypal):          {},
}

// RegisterCustomValidators adds the enum validators used by the binding tags
// above to the given validator engine. Called once at startup against Gin's
// binding validator.
func RegisterCustomValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("entrytype", func(fl validator.FieldLevel) bool {
		_, ok := entryTypes[fl.Field().String()]
		return ok
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("entrystatus", func(fl validator.FieldLevel) bool {
		_, ok := entryStatuses[fl.Field().String()]
		return ok
	}); err != nil {
		return err
	}
	return v.RegisterValidation("paymentmethod", func(fl validator.FieldLevel) bool {
		_, ok := paymentMethods[fl.Field().String()]
		return ok
	})
}
