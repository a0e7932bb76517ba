package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_settlement/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_settlement/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_settlement/internal/core/ports/services"
	"github.com/SscSPs/ledger_settlement/internal/utils/accounting"
)

// currentEarningsName labels the net profit line folded into equity.
const currentEarningsName = "Current period earnings"

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(journalRepo portsrepo.JournalRepositoryFacade, options ...ServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		BaseService: newBaseService(),
		journalRepo: journalRepo,
	}
	applyOptions(&svc.BaseService, options)
	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

func (s *reportingService) loadJournals(ctx context.Context, report string, asOf time.Time) ([]domain.JournalEntry, error) {
	journals, err := s.journalRepo.ListJournalEntries(ctx, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve journal entries for report",
			slog.String("report", report),
			slog.String("asOf", asOf.Format(time.RFC3339)))
		return nil, fmt.Errorf("failed to retrieve %s data: %w", report, err)
	}
	return journals, nil
}

// TrialBalance generates a trial balance report as of a specific date
func (s *reportingService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error) {
	journals, err := s.loadJournals(ctx, "trial balance", asOf)
	if err != nil {
		return nil, err
	}

	// Net debit minus credit per account.
	net := make(map[string]decimal.Decimal)
	for _, j := range journals {
		for _, l := range j.Lines {
			net[l.AccountCode] = net[l.AccountCode].Add(l.Debit).Sub(l.Credit)
		}
	}

	report := &domain.TrialBalanceReport{
		AsOf:         asOf,
		Rows:         make([]domain.TrialBalanceRow, 0, len(net)),
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.Zero,
	}
	for code, balance := range net {
		if balance.IsZero() {
			continue
		}
		row := domain.TrialBalanceRow{
			AccountCode: code,
			AccountName: accounting.AccountName(code),
			AccountType: accounting.AccountTypeFromCode(code),
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
		}
		if balance.IsPositive() {
			row.Debit = balance
			report.TotalDebits = report.TotalDebits.Add(balance)
		} else {
			row.Credit = balance.Neg()
			report.TotalCredits = report.TotalCredits.Add(row.Credit)
		}
		report.Rows = append(report.Rows, row)
	}
	sort.Slice(report.Rows, func(i, j int) bool { return report.Rows[i].AccountCode < report.Rows[j].AccountCode })
	report.IsBalanced = accounting.IsTrialBalanceBalanced(report.TotalDebits, report.TotalCredits)

	if !report.IsBalanced {
		s.LogWarn(ctx, "Trial balance does not balance",
			slog.String("total_debits", report.TotalDebits.String()),
			slog.String("total_credits", report.TotalCredits.String()))
	}
	s.LogInfo(ctx, "Trial balance report generated successfully",
		slog.String("asOf", asOf.Format(time.RFC3339)),
		slog.Int("row_count", len(report.Rows)))
	return report, nil
}

// groupedBalances splits natural account balances by account type, sorted by code.
func groupedBalances(balances map[string]decimal.Decimal) map[domain.AccountType][]domain.AccountAmount {
	groups := make(map[domain.AccountType][]domain.AccountAmount)
	for code, balance := range balances {
		if balance.IsZero() {
			continue
		}
		t := accounting.AccountTypeFromCode(code)
		groups[t] = append(groups[t], domain.AccountAmount{
			AccountCode: code,
			Name:        accounting.AccountName(code),
			NetAmount:   balance,
		})
	}
	for _, amounts := range groups {
		sort.Slice(amounts, func(i, j int) bool { return amounts[i].AccountCode < amounts[j].AccountCode })
	}
	return groups
}

func sumAmounts(amounts []domain.AccountAmount) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.NetAmount)
	}
	return total
}

func (s *reportingService) balances(ctx context.Context, report string, asOf time.Time) (map[domain.AccountType][]domain.AccountAmount, error) {
	journals, err := s.loadJournals(ctx, report, asOf)
	if err != nil {
		return nil, err
	}
	balances, err := accounting.AccountBalances(journals)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute account balances", slog.String("report", report))
		return nil, fmt.Errorf("failed to compute %s: %w", report, err)
	}
	return groupedBalances(balances), nil
}

// ProfitAndLoss generates a profit and loss report of everything posted up to asOf
func (s *reportingService) ProfitAndLoss(ctx context.Context, asOf time.Time) (*domain.PAndLReport, error) {
	groups, err := s.balances(ctx, "profit and loss", asOf)
	if err != nil {
		return nil, err
	}

	report := &domain.PAndLReport{
		Revenue:  nonNil(groups[domain.Revenue]),
		Expenses: nonNil(groups[domain.Expense]),
	}
	report.NetProfit = sumAmounts(report.Revenue).Sub(sumAmounts(report.Expenses))

	s.LogInfo(ctx, "Profit and loss report generated successfully",
		slog.String("asOf", asOf.Format(time.RFC3339)),
		slog.String("net_profit", report.NetProfit.String()))
	return report, nil
}

// BalanceSheet generates a balance sheet report as of a specific date. The net
// profit to date is shown as an equity line so the sheet balances without closing entries.
func (s *reportingService) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error) {
	groups, err := s.balances(ctx, "balance sheet", asOf)
	if err != nil {
		return nil, err
	}

	netProfit := sumAmounts(groups[domain.Revenue]).Sub(sumAmounts(groups[domain.Expense]))
	equity := nonNil(groups[domain.Equity])
	if !netProfit.IsZero() {
		equity = append(equity, domain.AccountAmount{Name: currentEarningsName, NetAmount: netProfit})
	}

	report := &domain.BalanceSheetReport{
		AsOf:        asOf,
		Assets:      nonNil(groups[domain.Asset]),
		Liabilities: nonNil(groups[domain.Liability]),
		Equity:      equity,
	}
	report.TotalAssets = sumAmounts(report.Assets)
	report.TotalLiabilities = sumAmounts(report.Liabilities)
	report.TotalEquity = sumAmounts(report.Equity)
	report.IsBalanced = accounting.IsBalanceSheetBalanced(report.TotalAssets, report.TotalLiabilities.Add(report.TotalEquity))

	if !report.IsBalanced {
		s.LogWarn(ctx, "Balance sheet does not balance",
			slog.String("total_assets", report.TotalAssets.String()),
			slog.String("total_liabilities", report.TotalLiabilities.String()),
			slog.String("total_equity", report.TotalEquity.String()))
	}
	s.LogInfo(ctx, "Balance sheet report generated successfully",
		slog.String("asOf", asOf.Format(time.RFC3339)),
		slog.Int("asset_accounts", len(report.Assets)))
	return report, nil
}

func nonNil(amounts []domain.AccountAmount) []domain.AccountAmount {
	if amounts == nil {
		return []domain.AccountAmount{}
	}
	return amounts
}
