package domain

import (
	"fmt"
	"math"
)

// Validate rejects malformed transactions before they reach the analysis core
func (t Transaction) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidTransaction)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: %s has no date", ErrInvalidTransaction, t.ID)
	}
	if t.Amount < 0 || math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) {
		return fmt.Errorf("%w: %s has amount %v", ErrInvalidTransaction, t.ID, t.Amount)
	}
	switch t.Type {
	case TransactionDebit, TransactionCredit, TransactionTransfer, TransactionFee:
	default:
		return fmt.Errorf("%w: %s has unknown type %q", ErrInvalidTransaction, t.ID, t.Type)
	}
	return nil
}

// ValidateTransactions validates a batch, stopping at the first failure
func ValidateTransactions(txs []Transaction) error {
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate rejects malformed account snapshots
func (a Account) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidAccount)
	}
	if a.Balance < 0 || math.IsNaN(a.Balance) {
		return fmt.Errorf("%w: %s has balance %v", ErrInvalidAccount, a.ID, a.Balance)
	}
	if a.MonthlyTransactionCount < 0 {
		return fmt.Errorf("%w: %s has negative transaction count", ErrInvalidAccount, a.ID)
	}
	switch a.Type {
	case AccountChecking, AccountSavings, AccountInvestment, AccountCredit:
	default:
		return fmt.Errorf("%w: %s has unknown type %q", ErrInvalidAccount, a.ID, a.Type)
	}
	return nil
}

// Validate rejects malformed holdings
func (a Asset) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidAsset)
	}
	if a.Quantity < 0 || a.CurrentPrice < 0 {
		return fmt.Errorf("%w: %s has negative quantity or price", ErrInvalidAsset, a.ID)
	}
	if a.Volatility < 0 || a.Volatility > 100 {
		return fmt.Errorf("%w: %s volatility %v outside [0,100]", ErrInvalidAsset, a.ID, a.Volatility)
	}
	switch a.ResolvedClass() {
	case ClassTraditional, ClassLongevity:
	default:
		return fmt.Errorf("%w: %s has no resolvable class (type %q)", ErrInvalidAsset, a.ID, a.Type)
	}
	return nil
}

// ValidateAssets validates a batch, stopping at the first failure
func ValidateAssets(assets []Asset) error {
	for _, a := range assets {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ParseRiskProfile converts user input into a RiskProfile
func ParseRiskProfile(s string) (RiskProfile, error) {
	switch p := RiskProfile(s); p {
	case ProfileConservative, ProfileModerate, ProfileAggressive:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidProfile, s)
}

// Validate rejects negative shares and targets that do not sum to 100
func (a Allocation) Validate() error {
	if a.Traditional < 0 || a.Longevity < 0 {
		return fmt.Errorf("%w: negative share %v/%v", ErrInvalidAllocation, a.Traditional, a.Longevity)
	}
	if sum := a.Traditional + a.Longevity; math.Abs(sum-100) > 0.01 {
		return fmt.Errorf("%w: shares sum to %v, want 100", ErrInvalidAllocation, sum)
	}
	return nil
}
