package testing

import (
	"time"

	"github.com/aristath/ledgerwise/internal/domain"
)

// NewTransactionFixtures returns three months of activity for one user:
// a monthly salary, rent, a streaming subscription and some groceries.
// Dates are relative to asOf so recurring detection sees fresh payments.
func NewTransactionFixtures(asOf time.Time) []domain.Transaction {
	var txs []domain.Transaction
	for m := 3; m >= 1; m-- {
		month := asOf.AddDate(0, -m, 0)
		txs = append(txs,
			domain.Transaction{
				ID:       "salary-" + month.Format("2006-01"),
				Date:     month,
				Amount:   5000,
				Category: "income",
				Type:     domain.TransactionCredit,
				Merchant: "Acme Corp",
			},
			domain.Transaction{
				ID:       "rent-" + month.Format("2006-01"),
				Date:     month.AddDate(0, 0, 1),
				Amount:   1500,
				Category: "housing",
				Type:     domain.TransactionDebit,
				Merchant: "Landlord",
			},
			domain.Transaction{
				ID:       "netflix-" + month.Format("2006-01"),
				Date:     month.AddDate(0, 0, 2),
				Amount:   15.99,
				Category: "subscriptions",
				Type:     domain.TransactionDebit,
				Merchant: "Netflix",
			},
			domain.Transaction{
				ID:       "groceries-" + month.Format("2006-01"),
				Date:     month.AddDate(0, 0, 5),
				Amount:   420,
				Category: "groceries",
				Type:     domain.TransactionDebit,
				Merchant: "Market",
			},
		)
	}
	return txs
}

// NewAssetFixtures returns a priced four-asset portfolio worth 100,000
// split 40/20/20/20 across stocks, bonds, staking and insurance.
func NewAssetFixtures() []domain.Asset {
	return []domain.Asset{
		{ID: "VTI", Name: "Total Market ETF", Type: domain.AssetETF, Quantity: 200, CurrentPrice: 200, Volatility: 18},
		{ID: "BND", Name: "Total Bond ETF", Type: domain.AssetBond, Quantity: 250, CurrentPrice: 80, Volatility: 6},
		{ID: "ETH-STK", Name: "Staked ETH", Type: domain.AssetStaking, Quantity: 10, CurrentPrice: 2000, Volatility: 60},
		{ID: "LIFE-1", Name: "Longevity Policy", Type: domain.AssetInsurance, Quantity: 1, CurrentPrice: 20000, Volatility: 2},
	}
}
