package router

import (
	"github.com/condoledger/backend/internal/interfaces/http/handler"
)

// Handlers bundles every domain handler the API mounts
type Handlers struct {
	Building       *handler.BuildingHandler
	Expense        *handler.ExpenseHandler
	Payment        *handler.PaymentHandler
	Balance        *handler.BalanceHandler
	Closing        *handler.ClosingHandler
	Recurring      *handler.RecurringHandler
	Reconciliation *handler.ReconciliationHandler
}

// LedgerRoutes builds the route groups for the condominium ledger API
func LedgerRoutes(h Handlers) []RouteRegistrar {
	buildings := NewDomainGroup("buildings", "/buildings").
		POST("", h.Building.CreateBuilding).
		GET("", h.Building.ListBuildings).
		GET("/:id", h.Building.GetBuilding).
		PUT("/:id/reserve-fund", h.Building.ConfigureReserveFund).
		POST("/:id/apartments", h.Building.AddApartment).
		GET("/:id/apartments", h.Building.ListApartments).
		POST("/:id/expenses", h.Expense.CreateExpense).
		GET("/:id/expenses", h.Expense.ListExpenses).
		POST("/:id/recurring-charges", h.Recurring.ApplyMonth).
		POST("/:id/close-month", h.Closing.CloseMonth).
		GET("/:id/monthly-balances", h.Closing.ListMonthlyBalances).
		POST("/:id/reconcile", h.Reconciliation.ReconcileBuilding).
		POST("/:id/reconcile/duplicates", h.Reconciliation.RemoveDuplicates)

	apartments := NewDomainGroup("apartments", "/apartments").
		POST("/:id/payments", h.Payment.CreatePayment).
		GET("/:id/payments", h.Payment.ListPayments).
		GET("/:id/balance", h.Balance.GetBalance).
		GET("/:id/transactions", h.Balance.ListTransactions)

	expenses := NewDomainGroup("expenses", "/expenses").
		GET("/:id", h.Expense.GetExpense).
		POST("/:id/allocate", h.Expense.AllocateExpense)

	payments := NewDomainGroup("payments", "/payments").
		POST("/:id/record", h.Payment.RecordPayment)

	transactions := NewDomainGroup("transactions", "/transactions").
		DELETE("/:id", h.Reconciliation.RemoveTransaction)

	return []RouteRegistrar{buildings, apartments, expenses, payments, transactions}
}
