package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbooks-io/ledger-api/internal/domain"
)

type chartReader interface {
	List(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, int, error)
	ListByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error)
}

type entryReader interface {
	ListTouchingAccounts(ctx context.Context, accountIDs []uuid.UUID, window domain.Window) ([]domain.Entry, error)
}

// ReportService shapes the standard financial statements. All aggregation
// goes through the BalanceCalculator; the reports only group and present.
type ReportService struct {
	accounts chartReader
	entries  entryReader
	calc     *BalanceCalculator
}

func NewReportService(accounts chartReader, entries entryReader, calc *BalanceCalculator) *ReportService {
	return &ReportService{accounts: accounts, entries: entries, calc: calc}
}

type TrialBalanceRow struct {
	AccountID uuid.UUID          `json:"account_id"`
	Code      string             `json:"code"`
	Name      string             `json:"name"`
	Type      domain.AccountType `json:"type"`
	Debit     decimal.Decimal    `json:"debit"`
	Credit    decimal.Decimal    `json:"credit"`
}

type TrialBalanceReport struct {
	AsOf        time.Time         `json:"as_of"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"total_debit"`
	TotalCredit decimal.Decimal   `json:"total_credit"`
}

// TrialBalance lists every account with activity through asOf, computing
// net = debit − credit uniformly for all types. A positive net lands in
// the debit column, a negative one (as absolute value) in the credit
// column. Whenever the underlying entries balance, the two column totals
// agree: that equality is the whole point of the report.
func (s *ReportService) TrialBalance(ctx context.Context, asOf time.Time) (*TrialBalanceReport, error) {
	accounts, _, err := s.accounts.List(ctx, domain.AccountFilter{})
	if err != nil {
		return nil, fmt.Errorf("TrialBalance: %w", err)
	}

	window := domain.AsOf(asOf)
	report := &TrialBalanceReport{
		AsOf:        asOf,
		Rows:        []TrialBalanceRow{},
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}

	for _, account := range accounts {
		debit, credit, err := s.calc.Sums(ctx, []uuid.UUID{account.ID}, window)
		if err != nil {
			return nil, fmt.Errorf("TrialBalance: account %s: %w", account.Code, err)
		}
		if debit.IsZero() && credit.IsZero() {
			continue
		}

		row := TrialBalanceRow{
			AccountID: account.ID,
			Code:      account.Code,
			Name:      account.Name,
			Type:      account.Type,
			Debit:     decimal.Zero,
			Credit:    decimal.Zero,
		}
		net := debit.Sub(credit)
		switch {
		case net.IsPositive():
			row.Debit = net
		case net.IsNegative():
			row.Credit = net.Abs()
		}

		report.Rows = append(report.Rows, row)
		report.TotalDebit = report.TotalDebit.Add(row.Debit)
		report.TotalCredit = report.TotalCredit.Add(row.Credit)
	}
	return report, nil
}

type ReportLine struct {
	AccountID uuid.UUID       `json:"account_id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

type BalanceSheetReport struct {
	AsOf             time.Time       `json:"as_of"`
	Assets           []ReportLine    `json:"assets"`
	Liabilities      []ReportLine    `json:"liabilities"`
	Equity           []ReportLine    `json:"equity"`
	NetIncome        decimal.Decimal `json:"net_income"`
	TotalAssets      decimal.Decimal `json:"total_assets"`
	TotalLiabilities decimal.Decimal `json:"total_liabilities"`
	TotalEquity      decimal.Decimal `json:"total_equity"`
}

// BalanceSheet groups type-aware balances as of a date. Net income over
// all time through asOf is folded into equity as a synthetic retained
// earnings line, which is what makes total assets equal total liabilities
// plus total equity on a balanced ledger.
func (s *ReportService) BalanceSheet(ctx context.Context, asOf time.Time) (*BalanceSheetReport, error) {
	window := domain.AsOf(asOf)

	assets, assetTotal, err := s.typeSection(ctx, domain.AccountTypeAsset, window)
	if err != nil {
		return nil, fmt.Errorf("BalanceSheet: %w", err)
	}
	liabilities, liabilityTotal, err := s.typeSection(ctx, domain.AccountTypeLiability, window)
	if err != nil {
		return nil, fmt.Errorf("BalanceSheet: %w", err)
	}
	equity, equityTotal, err := s.typeSection(ctx, domain.AccountTypeEquity, window)
	if err != nil {
		return nil, fmt.Errorf("BalanceSheet: %w", err)
	}

	netIncome, err := s.netIncome(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("BalanceSheet: %w", err)
	}

	return &BalanceSheetReport{
		AsOf:             asOf,
		Assets:           assets,
		Liabilities:      liabilities,
		Equity:           equity,
		NetIncome:        netIncome,
		TotalAssets:      assetTotal,
		TotalLiabilities: liabilityTotal,
		TotalEquity:      equityTotal.Add(netIncome),
	}, nil
}

type IncomeStatementReport struct {
	From          time.Time       `json:"from"`
	To            time.Time       `json:"to"`
	Revenue       []ReportLine    `json:"revenue"`
	Expenses      []ReportLine    `json:"expenses"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetIncome     decimal.Decimal `json:"net_income"`
}

// IncomeStatement reports period movement, not cumulative balances: only
// entries dated inside [from, to] count.
func (s *ReportService) IncomeStatement(ctx context.Context, from, to time.Time) (*IncomeStatementReport, error) {
	window := domain.Between(from, to)

	revenue, revenueTotal, err := s.typeSection(ctx, domain.AccountTypeRevenue, window)
	if err != nil {
		return nil, fmt.Errorf("IncomeStatement: %w", err)
	}
	expenses, expenseTotal, err := s.typeSection(ctx, domain.AccountTypeExpense, window)
	if err != nil {
		return nil, fmt.Errorf("IncomeStatement: %w", err)
	}

	return &IncomeStatementReport{
		From:          from,
		To:            to,
		Revenue:       revenue,
		Expenses:      expenses,
		TotalRevenue:  revenueTotal,
		TotalExpenses: expenseTotal,
		NetIncome:     revenueTotal.Sub(expenseTotal),
	}, nil
}

type CashFlowLine struct {
	Counterparty string          `json:"counterparty"`
	Amount       decimal.Decimal `json:"amount"`
}

type CashFlowReport struct {
	From          time.Time       `json:"from"`
	To            time.Time       `json:"to"`
	Inflows       []CashFlowLine  `json:"inflows"`
	Outflows      []CashFlowLine  `json:"outflows"`
	TotalInflows  decimal.Decimal `json:"total_inflows"`
	TotalOutflows decimal.Decimal `json:"total_outflows"`
	NetCashFlow   decimal.Decimal `json:"net_cash_flow"`
}

// CashFlow approximates a cash-flow statement from journal activity on
// cash-like accounts. Each cash movement is attributed to the first line
// in the same entry with a non-zero amount on the opposite side. Entries
// with more than two lines attribute the whole movement to that first
// match; this single-counterparty shortcut is deliberate and inherited, a
// full multi-line allocation is out of scope.
func (s *ReportService) CashFlow(ctx context.Context, from, to time.Time) (*CashFlowReport, error) {
	window := domain.Between(from, to)

	accounts, _, err := s.accounts.List(ctx, domain.AccountFilter{})
	if err != nil {
		return nil, fmt.Errorf("CashFlow: %w", err)
	}

	names := make(map[uuid.UUID]string, len(accounts))
	cash := make(map[uuid.UUID]bool)
	var cashIDs []uuid.UUID
	for _, a := range accounts {
		names[a.ID] = a.Name
		if isCashLike(a) {
			cash[a.ID] = true
			cashIDs = append(cashIDs, a.ID)
		}
	}

	entries, err := s.entries.ListTouchingAccounts(ctx, cashIDs, window)
	if err != nil {
		return nil, fmt.Errorf("CashFlow: %w", err)
	}

	inflows := make(map[uuid.UUID]decimal.Decimal)
	outflows := make(map[uuid.UUID]decimal.Decimal)

	for _, entry := range entries {
		for _, item := range entry.Items {
			if !cash[item.AccountID] {
				continue
			}

			if item.Debit.IsPositive() {
				counterparty := firstBalancingLine(entry.Items, item, false)
				inflows[counterparty] = inflows[counterparty].Add(item.Debit)
			} else if item.Credit.IsPositive() {
				counterparty := firstBalancingLine(entry.Items, item, true)
				outflows[counterparty] = outflows[counterparty].Add(item.Credit)
			}
		}
	}

	report := &CashFlowReport{
		From:          from,
		To:            to,
		TotalInflows:  decimal.Zero,
		TotalOutflows: decimal.Zero,
	}
	report.Inflows, report.TotalInflows = flowLines(inflows, names)
	report.Outflows, report.TotalOutflows = flowLines(outflows, names)
	report.NetCashFlow = report.TotalInflows.Sub(report.TotalOutflows)
	return report, nil
}

// typeSection computes per-account balances for one account type over the
// window. Zero-balance accounts are left off the line items but cost the
// totals nothing either way.
func (s *ReportService) typeSection(ctx context.Context, accountType domain.AccountType, window domain.Window) ([]ReportLine, decimal.Decimal, error) {
	accounts, err := s.accounts.ListByType(ctx, accountType)
	if err != nil {
		return nil, decimal.Zero, err
	}

	lines := []ReportLine{}
	total := decimal.Zero
	for _, account := range accounts {
		balance, err := s.calc.Balance(ctx, accountType, []uuid.UUID{account.ID}, window)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("account %s: %w", account.Code, err)
		}
		if balance.IsZero() {
			continue
		}
		lines = append(lines, ReportLine{
			AccountID: account.ID,
			Code:      account.Code,
			Name:      account.Name,
			Amount:    balance,
		})
		total = total.Add(balance)
	}
	return lines, total, nil
}

func (s *ReportService) netIncome(ctx context.Context, window domain.Window) (decimal.Decimal, error) {
	revenue, err := s.typeBalance(ctx, domain.AccountTypeRevenue, window)
	if err != nil {
		return decimal.Zero, err
	}
	expense, err := s.typeBalance(ctx, domain.AccountTypeExpense, window)
	if err != nil {
		return decimal.Zero, err
	}
	return revenue.Sub(expense), nil
}

func (s *ReportService) typeBalance(ctx context.Context, accountType domain.AccountType, window domain.Window) (decimal.Decimal, error) {
	accounts, err := s.accounts.ListByType(ctx, accountType)
	if err != nil {
		return decimal.Zero, err
	}
	ids := make([]uuid.UUID, len(accounts))
	for i, a := range accounts {
		ids[i] = a.ID
	}
	return s.calc.Balance(ctx, accountType, ids, window)
}

// isCashLike marks the accounts whose movement the cash-flow report
// tracks: assets named like cash or bank holdings, case-insensitively, or
// tagged with the "cash" sub-type.
func isCashLike(a domain.Account) bool {
	if a.Type != domain.AccountTypeAsset {
		return false
	}
	name := strings.ToLower(a.Name)
	return strings.Contains(name, "cash") || strings.Contains(name, "bank") || a.SubType == "cash"
}

// firstBalancingLine finds the counterparty for a cash line: the first
// item in the entry, other than the cash line itself, with a non-zero
// amount on the opposite side.
func firstBalancingLine(items []domain.LineItem, cashLine domain.LineItem, cashIsCredit bool) uuid.UUID {
	for _, other := range items {
		if other.ID == cashLine.ID {
			continue
		}
		if cashIsCredit && other.Debit.IsPositive() {
			return other.AccountID
		}
		if !cashIsCredit && other.Credit.IsPositive() {
			return other.AccountID
		}
	}
	return uuid.Nil
}

func flowLines(flows map[uuid.UUID]decimal.Decimal, names map[uuid.UUID]string) ([]CashFlowLine, decimal.Decimal) {
	lines := make([]CashFlowLine, 0, len(flows))
	total := decimal.Zero
	for accountID, amount := range flows {
		name, ok := names[accountID]
		if !ok {
			name = "Unclassified"
		}
		lines = append(lines, CashFlowLine{Counterparty: name, Amount: amount})
		total = total.Add(amount)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Counterparty < lines[j].Counterparty })
	return lines, total
}
