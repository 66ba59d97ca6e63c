package domain

// Deposit validates the whole batch and, only if every entry is valid,
// credits each entry in order. The applied batch is returned in the receipt.
//
// Validation covers the denomination, a positive quantity, and the per-bill
// capacity of the inventory; a single bad entry aborts the batch with no
// mutation. An empty batch is a no-op that still yields a receipt.
func (inv *Inventory) Deposit(batch []Bill) (*Receipt, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	if err := inv.validateDeposit(batch); err != nil {
		return nil, err
	}

	for _, b := range batch {
		// Cannot fail: every denomination was checked above.
		_ = inv.adjust(b.Value, b.Quantity)
	}

	applied := make([]Bill, len(batch))
	copy(applied, batch)
	return &Receipt{Bills: applied, TotalAfter: inv.total()}, nil
}

func (inv *Inventory) validateDeposit(batch []Bill) error {
	pending := make(map[Denomination]int64, len(denominations))
	for _, b := range batch {
		current, err := inv.count(b.Value)
		if err != nil {
			return err
		}
		if b.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		if b.Quantity > maxCount-current-pending[b.Value] {
			return ErrInvalidQuantity
		}
		pending[b.Value] += b.Quantity
	}
	return nil
}
