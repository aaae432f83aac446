package enums

import "fmt"

// CreditType names which credit pool an order draws from.
type CreditType string

const (
	CreditTypeNone      CreditType = "none"
	CreditTypeFreeAlbum CreditType = "free_album"
	CreditTypeDollar    CreditType = "dollar"
)

var validCreditTypes = []CreditType{
	CreditTypeNone,
	CreditTypeFreeAlbum,
	CreditTypeDollar,
}

// String implements fmt.Stringer.
func (c CreditType) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CreditType.
func (c CreditType) IsValid() bool {
	for _, candidate := range validCreditTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCreditType converts raw input into a CreditType.
func ParseCreditType(value string) (CreditType, error) {
	for _, candidate := range validCreditTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid credit type %q", value)
}
