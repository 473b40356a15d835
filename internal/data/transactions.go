// TransactionModel persists the local mutation audit log: every submitted
// create/contribute transaction, live or simulated.
package data

import (
	"context"
	"fmt"
	"time"

	"github.com/guregu/null"

	"github.com/opencrowd/crowdfund-backend/internal/db"
	"github.com/opencrowd/crowdfund-backend/internal/metrics"
)

// Mutation kinds recorded in the audit log.
const (
	KindCreateCampaign = "create_campaign"
	KindContribute     = "contribute"
)

type Transaction struct {
	ID          int64     `db:"id" json:"id"`
	Hash        string    `db:"tx_hash" json:"txHash"`
	Kind        string    `db:"kind" json:"kind"`
	CampaignID  null.Int  `db:"campaign_id" json:"campaignId"`
	AmountWei   string    `db:"amount_wei" json:"amountWei"`
	FromAddress string    `db:"from_address" json:"fromAddress"`
	Simulated   bool      `db:"simulated" json:"simulated"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

type TransactionModel struct {
	DB             db.ConnectionPool
	MetricsService metrics.MetricsService
}

func (m *TransactionModel) Insert(ctx context.Context, tx Transaction) error {
	const query = `
		INSERT INTO transactions (tx_hash, kind, campaign_id, amount_wei, from_address, simulated)
		VALUES (?, ?, ?, ?, ?, ?)`
	start := time.Now()
	_, err := m.DB.ExecContext(ctx, query, tx.Hash, tx.Kind, tx.CampaignID, tx.AmountWei, tx.FromAddress, tx.Simulated)
	duration := time.Since(start).Seconds()
	m.MetricsService.ObserveDBQueryDuration("INSERT", "transactions", duration)
	if err != nil {
		m.MetricsService.IncDBQueryError("INSERT", "transactions", "exec_error")
		return fmt.Errorf("inserting transaction %s: %w", tx.Hash, err)
	}
	m.MetricsService.IncDBQuery("INSERT", "transactions")
	return nil
}

// GetRecent returns the most recently submitted transactions, newest first.
func (m *TransactionModel) GetRecent(ctx context.Context, limit int) ([]Transaction, error) {
	const query = `
		SELECT id, tx_hash, kind, campaign_id, amount_wei, from_address, simulated, created_at
		FROM transactions
		ORDER BY created_at DESC, id DESC
		LIMIT ?`
	var transactions []Transaction
	start := time.Now()
	err := m.DB.SelectContext(ctx, &transactions, query, limit)
	duration := time.Since(start).Seconds()
	m.MetricsService.ObserveDBQueryDuration("SELECT", "transactions", duration)
	if err != nil {
		m.MetricsService.IncDBQueryError("SELECT", "transactions", "select_error")
		return nil, fmt.Errorf("getting recent transactions: %w", err)
	}
	m.MetricsService.IncDBQuery("SELECT", "transactions")
	return transactions, nil
}
