package testutil

// TransactionFixture is a raw transaction as callers submit it.
type TransactionFixture struct {
	Amount          float64
	Distance        float64
	TransactionType int
}

// Canonical transactions sitting deep inside each class of the synthetic data.
var (
	ObviousFraud = TransactionFixture{Amount: 1000, Distance: 400, TransactionType: 0}
	ObviousLegit = TransactionFixture{Amount: 30, Distance: 2, TransactionType: 1}
)

// Seed is the seed every reproducibility test trains with.
const Seed uint64 = 42
