package dto

import (
	"time"

	"github.com/SscSPs/ledger_settlement/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType string          `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	AsOf   string                    `json:"asOf"`
	Rows   []TrialBalanceRowResponse `json:"rows"`
	Totals struct {
		Debit  decimal.Decimal `json:"debit"`
		Credit decimal.Decimal `json:"credit"`
	} `json:"totals"`
	IsBalanced bool `json:"isBalanced"`
}

// AccountAmountResponse represents an account with its amount in a financial report
type AccountAmountResponse struct {
	AccountCode string          `json:"accountCode"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
}

// BalanceSheetResponse represents the balance sheet report response
type BalanceSheetResponse struct {
	AsOf        string                  `json:"asOf"`
	Assets      []AccountAmountResponse `json:"assets"`
	Liabilities []AccountAmountResponse `json:"liabilities"`
	Equity      []AccountAmountResponse `json:"equity"`
	Summary     struct {
		TotalAssets      decimal.Decimal `json:"totalAssets"`
		TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
		TotalEquity      decimal.Decimal `json:"totalEquity"`
	} `json:"summary"`
	IsBalanced bool `json:"isBalanced"`
}

func toAccountAmountResponses(amounts []domain.AccountAmount) []AccountAmountResponse {
	res := make([]AccountAmountResponse, len(amounts))
	for i, a := range amounts {
		res[i] = AccountAmountResponse{AccountCode: a.AccountCode, Name: a.Name, Amount: a.NetAmount}
	}
	return res
}

// ToTrialBalanceResponse converts a domain.TrialBalanceReport.
func ToTrialBalanceResponse(r *domain.TrialBalanceReport) TrialBalanceResponse {
	var resp TrialBalanceResponse
	resp.AsOf = r.AsOf.Format("2006-01-02")
	resp.Rows = make([]TrialBalanceRowResponse, len(r.Rows))
	for i, row := range r.Rows {
		resp.Rows[i] = TrialBalanceRowResponse{
			AccountCode: row.AccountCode,
			AccountName: row.AccountName,
			AccountType: string(row.AccountType),
			Debit:       row.Debit,
			Credit:      row.Credit,
		}
	}
	resp.Totals.Debit = r.TotalDebits
	resp.Totals.Credit = r.TotalCredits
	resp.IsBalanced = r.IsBalanced
	return resp
}

// ToBalanceSheetResponse converts a domain.BalanceSheetReport.
func ToBalanceSheetResponse(r *domain.BalanceSheetReport) BalanceSheetResponse {
	var resp BalanceSheetResponse
	resp.AsOf = r.AsOf.Format("2006-01-02")
	resp.Assets = toAccountAmountResponses(r.Assets)
	resp.Liabilities = toAccountAmountResponses(r.Liabilities)
	resp.Equity = toAccountAmountResponses(r.Equity)
	resp.Summary.TotalAssets = r.TotalAssets
	resp.Summary.TotalLiabilities = r.TotalLiabilities
	resp.Summary.TotalEquity = r.TotalEquity
	resp.IsBalanced = r.IsBalanced
	return resp
}

// ProfitAndLossResponse represents the profit and loss report response
type ProfitAndLossResponse struct {
	AsOf      string                  `json:"asOf"`
	Revenue   []AccountAmountResponse `json:"revenue"`
	Expenses  []AccountAmountResponse `json:"expenses"`
	NetProfit decimal.Decimal         `json:"netProfit"`
}

// ToProfitAndLossResponse converts a domain.PAndLReport. The report carries no
// date of its own, so asOf is passed in.
func ToProfitAndLossResponse(r *domain.PAndLReport, asOf time.Time) ProfitAndLossResponse {
	return ProfitAndLossResponse{
		AsOf:      asOf.Format("2006-01-02"),
		Revenue:   toAccountAmountResponses(r.Revenue),
		Expenses:  toAccountAmountResponses(r.Expenses),
		NetProfit: r.NetProfit,
	}
}
