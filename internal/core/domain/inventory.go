package domain

import (
	"math"
	"sync"
)

// maxCount bounds every per-denomination count so that the inventory total
// can never overflow int64.
var maxCount = func() int64 {
	var sum int64
	for _, d := range denominations {
		sum += int64(d)
	}
	return math.MaxInt64 / sum
}()

// Telemetry is a consistent read-only view of the inventory.
type Telemetry struct {
	Total int64                  `json:"total"`
	Bills map[Denomination]int64 `json:"bills"`
}

// Receipt is the outcome of a committed deposit or withdrawal.
type Receipt struct {
	Bills      []Bill `json:"bills"`
	TotalAfter int64  `json:"total_after"`
}

// Inventory tracks how many bills of each denomination the dispenser holds.
//
// Deposits and withdrawals run as one critical section each, from validation
// or planning through commit. Reads take the lock in shared mode.
type Inventory struct {
	mu     sync.RWMutex
	counts map[Denomination]int64
}

// NewInventory returns an empty inventory.
func NewInventory() *Inventory {
	inv := &Inventory{}
	inv.reset()
	return inv
}

// Get returns the count for d.
func (inv *Inventory) Get(d Denomination) (int64, error) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.count(d)
}

// Adjust applies count += delta for d. It does not check that the result
// stays non-negative; transactions are responsible for that.
func (inv *Inventory) Adjust(d Denomination, delta int64) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.adjust(d, delta)
}

// Total returns Σ(denomination × count).
func (inv *Inventory) Total() int64 {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.total()
}

// Reset sets every count to zero.
func (inv *Inventory) Reset() {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.reset()
}

// Snapshot returns the total and per-denomination counts read under a single
// lock acquisition.
func (inv *Inventory) Snapshot() Telemetry {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	bills := make(map[Denomination]int64, len(inv.counts))
	for d, n := range inv.counts {
		bills[d] = n
	}
	return Telemetry{Total: inv.total(), Bills: bills}
}

// The helpers below assume inv.mu is held.

func (inv *Inventory) count(d Denomination) (int64, error) {
	n, ok := inv.counts[d]
	if !ok {
		return 0, InvalidDenomination(int64(d))
	}
	return n, nil
}

func (inv *Inventory) adjust(d Denomination, delta int64) error {
	if _, ok := inv.counts[d]; !ok {
		return InvalidDenomination(int64(d))
	}
	inv.counts[d] += delta
	return nil
}

func (inv *Inventory) total() int64 {
	var sum int64
	for d, n := range inv.counts {
		sum += int64(d) * n
	}
	return sum
}

func (inv *Inventory) reset() {
	inv.counts = make(map[Denomination]int64, len(denominations))
	for _, d := range denominations {
		inv.counts[d] = 0
	}
}
