package domain

// Denomination is the face value of a bill held by the dispenser.
type Denomination int64

// denominations is the fixed set of accepted bills, largest first.
var denominations = [...]Denomination{50, 25, 10, 5, 2, 1}

// Denominations returns the accepted bill values in descending order.
// The returned slice is a copy.
func Denominations() []Denomination {
	out := make([]Denomination, len(denominations))
	copy(out, denominations[:])
	return out
}

// Valid reports whether d belongs to the fixed set.
func (d Denomination) Valid() bool {
	for _, v := range denominations {
		if v == d {
			return true
		}
	}
	return false
}

// Bill is a (denomination, quantity) pair. A slice of bills is either a
// deposit batch or a withdrawal plan.
type Bill struct {
	Value    Denomination `json:"value"`
	Quantity int64        `json:"quantity"`
}

// Amount returns value × quantity.
func (b Bill) Amount() int64 {
	return int64(b.Value) * b.Quantity
}

// SumBills returns the total value of a batch or plan.
func SumBills(bills []Bill) int64 {
	var sum int64
	for _, b := range bills {
		sum += b.Amount()
	}
	return sum
}
