package data

import (
	"errors"

	"github.com/opencrowd/crowdfund-backend/internal/db"
	"github.com/opencrowd/crowdfund-backend/internal/metrics"
)

type Models struct {
	Transactions *TransactionModel
}

func NewModels(db db.ConnectionPool, metricsService metrics.MetricsService) (*Models, error) {
	if db == nil {
		return nil, errors.New("ConnectionPool must be initialized")
	}
	if metricsService == nil {
		return nil, errors.New("metricsService must be initialized")
	}

	return &Models{
		Transactions: &TransactionModel{DB: db, MetricsService: metricsService},
	}, nil
}
