package valueobject

import "fmt"

// TransactionType is an immutable value object for the channel a transaction
// was made through. Its numeric code is the model feature.
type TransactionType struct {
	value string
	code  int
}

var (
	TransactionTypeOnline  = TransactionType{value: "ONLINE", code: 0}
	TransactionTypeInStore = TransactionType{value: "IN_STORE", code: 1}
	TransactionTypeATM     = TransactionType{value: "ATM", code: 2}
)

// TransactionTypes lists every valid type in code order.
func TransactionTypes() []TransactionType {
	return []TransactionType{TransactionTypeOnline, TransactionTypeInStore, TransactionTypeATM}
}

// TransactionTypeFromCode maps a wire code (0 online, 1 in-store, 2 ATM).
func TransactionTypeFromCode(code int) (TransactionType, error) {
	types := TransactionTypes()
	if code < 0 || code >= len(types) {
		return TransactionType{}, fmt.Errorf("invalid transaction type code: %d", code)
	}
	return types[code], nil
}

// TransactionTypeFromString reconstructs a TransactionType from its string representation.
func TransactionTypeFromString(s string) (TransactionType, error) {
	for _, t := range TransactionTypes() {
		if t.value == s {
			return t, nil
		}
	}
	return TransactionType{}, fmt.Errorf("invalid transaction type: %s", s)
}

// Code returns the numeric feature value.
func (t TransactionType) Code() int {
	return t.code
}

// String returns the string representation.
func (t TransactionType) String() string {
	return t.value
}

// IsZero returns true if the TransactionType has not been set.
func (t TransactionType) IsZero() bool {
	return t.value == ""
}

// Equal checks equality with another TransactionType.
func (t TransactionType) Equal(other TransactionType) bool {
	return t.value == other.value
}
