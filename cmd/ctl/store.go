package main

import (
	"database/sql"

	"github.com/MrJamesThe3rd/pennywise/internal/category"
	categoryStore "github.com/MrJamesThe3rd/pennywise/internal/category/store"
	"github.com/MrJamesThe3rd/pennywise/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/pennywise/internal/matching/store"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
	txStore "github.com/MrJamesThe3rd/pennywise/internal/transaction/store"
)

type services struct {
	categories   *category.Service
	transactions *transaction.Service
	rules        *matching.Service
}

func newServices(db *sql.DB) services {
	categories := category.NewService(categoryStore.New(db))

	return services{
		categories:   categories,
		transactions: transaction.NewService(txStore.New(db), categories),
		rules:        matching.NewService(matchingStore.New(db), categories),
	}
}
