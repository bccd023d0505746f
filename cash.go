package fintrack

import "sort"

// buildCashHistory folds the transaction log and dividend events into the
// base-currency cash balance step function, through the given day.
//
// The balance starts at 'initial' the day before the first transaction.
// Each flow converts at its own date's exchange rate. Dividends credit
// cash only while the position held before that day's trades is long;
// short and flat positions earn nothing.
func buildCashHistory(ledger *Ledger, market *MarketData, initial Money, through Date) (*History[Money], error) {
	h := &History[Money]{}
	inception, ok := ledger.Inception()
	if !ok {
		return h, nil
	}

	// Base-currency flow per calendar day.
	flows := make(map[Date]Money)

	for tx := range ledger.Transactions() {
		if tx.When().After(through) {
			break
		}
		native := M(tx.CashFlow().Decimal(), market.Currency(tx.Ticker))
		flow, err := market.Convert(native, tx.When())
		if err != nil {
			return nil, err
		}
		flows[tx.When()] = flows[tx.When()].Add(flow)
	}

	for _, ticker := range ledger.Tickers() {
		positions := ledger.Positions(ticker)
		for on, div := range market.Dividends(ticker).Values() {
			if on.Before(inception) || on.After(through) {
				continue
			}
			pos, ok := positions.ValueAsOf(on.Add(-1))
			if !ok || !pos.IsPositive() {
				continue
			}
			credit, err := market.Convert(div.Mul(pos), on)
			if err != nil {
				return nil, err
			}
			flows[on] = flows[on].Add(credit)
		}
	}

	days := make([]Date, 0, len(flows))
	for on := range flows {
		days = append(days, on)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	balance := initial
	h.Append(inception.Add(-1), balance)
	for _, on := range days {
		balance = balance.Add(flows[on])
		h.Append(on, balance)
	}
	return h, nil
}
