package game

// Wallet owns the cash balance and the lifetime total mined.
type Wallet struct {
	cash       int64
	totalMined int64
}

func (w *Wallet) Cash() int64       { return w.cash }
func (w *Wallet) TotalMined() int64 { return w.totalMined }

// Require checks affordability without mutating.
func (w *Wallet) Require(amount int64) error {
	if w.cash < amount {
		return &FundsError{Need: amount, Have: w.cash}
	}
	return nil
}

// Debit deducts amount or fails with a FundsError leaving the balance untouched.
func (w *Wallet) Debit(amount int64) error {
	if err := w.Require(amount); err != nil {
		return err
	}
	w.cash -= amount
	return nil
}

// Earn credits mined cash: it counts toward the lifetime total.
func (w *Wallet) Earn(amount int64) {
	if amount <= 0 {
		return
	}
	w.cash += amount
	w.totalMined += amount
}

// Grant credits cash that was not mined (rewards).
func (w *Wallet) Grant(amount int64) {
	if amount <= 0 {
		return
	}
	w.cash += amount
}

// Reset sets cash to a fixed amount; the lifetime total is kept.
func (w *Wallet) Reset(cash int64) {
	w.cash = cash
}
