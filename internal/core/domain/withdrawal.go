package domain

// PlanWithdrawal computes the bills to dispense for amount using the greedy
// strategy: take as many of the largest denomination as the counts allow,
// then move to the next one, never backtracking.
//
// The planner only reads counts. It returns ErrOverdraw when the greedy
// remainder does not reach zero, which can happen even when some other
// combination of the available bills would add up to amount. Callers rely
// on that exact behavior.
func PlanWithdrawal(counts map[Denomination]int64, amount int64) ([]Bill, error) {
	if amount <= 0 {
		return nil, ErrInvalidQuantity
	}

	remainder := amount
	plan := make([]Bill, 0, len(denominations))
	for _, d := range denominations {
		requested := remainder / int64(d)
		take := min(requested, counts[d])
		if take <= 0 {
			continue
		}
		remainder -= take * int64(d)
		plan = append(plan, Bill{Value: d, Quantity: take})
	}

	if remainder > 0 {
		return nil, ErrOverdraw
	}
	return plan, nil
}

// Withdraw plans and commits a withdrawal of amount as one critical section.
// On any error the inventory is left untouched.
func (inv *Inventory) Withdraw(amount int64) (*Receipt, error) {
	if amount <= 0 {
		return nil, ErrInvalidQuantity
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	plan, err := PlanWithdrawal(inv.counts, amount)
	if err != nil {
		return nil, err
	}
	inv.commitWithdrawal(plan)

	return &Receipt{Bills: plan, TotalAfter: inv.total()}, nil
}

// commitWithdrawal debits a plan computed against the current counts.
// inv.mu must be held since planning.
func (inv *Inventory) commitWithdrawal(plan []Bill) {
	for _, b := range plan {
		_ = inv.adjust(b.Value, -b.Quantity)
	}
}
