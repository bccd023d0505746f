package fintrack

// marketValue returns the mark-to-market value of all open positions on a
// day, in base currency. Short positions contribute negatively: covering
// them is a liability priced at the same forward-filled close as a long.
func marketValue(ledger *Ledger, market *MarketData, on Date) (Money, error) {
	total := M(0, market.BaseCurrency())
	for ticker, pos := range ledger.Holdings(on) {
		price, err := market.Price(ticker, on)
		if err != nil {
			return Money{}, err
		}
		total = total.Add(price.Mul(pos))
	}
	return total, nil
}

// cashAsOf reads the cash balance step function; before the first change
// point the balance is the initial amount.
func cashAsOf(cash *History[Money], initial Money, on Date) Money {
	balance, ok := cash.ValueAsOf(on)
	if !ok {
		return initial
	}
	return balance
}

// portfolioValue returns cash plus market value on a day. Cash alone never
// fails; an open position without any price on or before the day does.
func portfolioValue(ledger *Ledger, market *MarketData, cash *History[Money], initial Money, on Date) (Money, error) {
	value, err := marketValue(ledger, market, on)
	if err != nil {
		return Money{}, err
	}
	return value.Add(cashAsOf(cash, initial, on)), nil
}

// valueHistory computes the daily portfolio value over a range, one point
// per calendar day.
func valueHistory(ledger *Ledger, market *MarketData, cash *History[Money], initial Money, r Range) (*History[Money], error) {
	h := &History[Money]{}
	for on := range r.Days() {
		value, err := portfolioValue(ledger, market, cash, initial, on)
		if err != nil {
			return nil, err
		}
		h.Append(on, value)
	}
	return h, nil
}
