// Package domain provides core domain models and types.
package domain

import "time"

// TransactionType classifies the direction of a transaction
type TransactionType string

const (
	TransactionDebit    TransactionType = "debit"
	TransactionCredit   TransactionType = "credit"
	TransactionTransfer TransactionType = "transfer"
	TransactionFee      TransactionType = "fee"
)

// CategoryTransfer is the category excluded from spending totals
const CategoryTransfer = "transfer"

// Transaction is a single money movement. Amount is always non-negative;
// direction comes from Type.
type Transaction struct {
	Date     time.Time       `json:"date"`
	ID       string          `json:"id"`
	Category string          `json:"category"`
	Type     TransactionType `json:"type"`
	Merchant string          `json:"merchant,omitempty"`
	Amount   float64         `json:"amount"`
}

// IsSpending reports whether the transaction counts toward spending totals
func (t Transaction) IsSpending() bool {
	return t.Type == TransactionDebit && t.Category != CategoryTransfer
}

// AccountType represents the kind of bank or brokerage account
type AccountType string

const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountInvestment AccountType = "investment"
	AccountCredit     AccountType = "credit"
)

// Account is a read-only balance snapshot
type Account struct {
	LastActivityDate        time.Time   `json:"last_activity_date"`
	ID                      string      `json:"id"`
	Type                    AccountType `json:"type"`
	Balance                 float64     `json:"balance"`
	MonthlyTransactionCount int         `json:"monthly_transaction_count"`
}

// AssetType is the instrument kind of a holding
type AssetType string

const (
	AssetStock     AssetType = "stock"
	AssetBond      AssetType = "bond"
	AssetETF       AssetType = "etf"
	AssetStaking   AssetType = "staking"
	AssetYield     AssetType = "yield"
	AssetInsurance AssetType = "insurance"
)

// AssetClass groups asset types for allocation math
type AssetClass string

const (
	ClassTraditional AssetClass = "traditional"
	ClassLongevity   AssetClass = "longevity"
)

// ClassOf maps an asset type to its allocation class. Unknown types return "".
func ClassOf(t AssetType) AssetClass {
	switch t {
	case AssetStock, AssetBond, AssetETF:
		return ClassTraditional
	case AssetStaking, AssetYield, AssetInsurance:
		return ClassLongevity
	default:
		return ""
	}
}

// Asset is a portfolio holding
type Asset struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Type         AssetType  `json:"type"`
	Class        AssetClass `json:"class,omitempty"`
	Quantity     float64    `json:"quantity"`
	CurrentPrice float64    `json:"current_price"`
	Volatility   float64    `json:"volatility"`
}

// Value returns quantity × current price. Missing prices count as zero.
func (a Asset) Value() float64 {
	if a.Quantity <= 0 || a.CurrentPrice <= 0 {
		return 0
	}
	return a.Quantity * a.CurrentPrice
}

// ResolvedClass returns the explicit class, falling back to the type mapping
func (a Asset) ResolvedClass() AssetClass {
	if a.Class != "" {
		return a.Class
	}
	return ClassOf(a.Type)
}

// RiskProfile is the declared or derived investor risk appetite
type RiskProfile string

const (
	ProfileConservative RiskProfile = "conservative"
	ProfileModerate     RiskProfile = "moderate"
	ProfileAggressive   RiskProfile = "aggressive"
)

// Severity grades a policy violation
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Allocation is the percentage split between the two asset classes
type Allocation struct {
	Traditional float64 `json:"traditional"`
	Longevity   float64 `json:"longevity"`
}

// DefaultTargetAllocation is the 70/30 traditional/longevity target
var DefaultTargetAllocation = Allocation{Traditional: 70, Longevity: 30}
