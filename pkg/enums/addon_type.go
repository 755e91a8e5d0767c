package enums

import "fmt"

// AddOnType classifies meal customizations.
type AddOnType string

const (
	AddOnTypeTopping  AddOnType = "topping"
	AddOnTypeSide     AddOnType = "side"
	AddOnTypeBeverage AddOnType = "beverage"
)

var validAddOnTypes = []AddOnType{
	AddOnTypeTopping,
	AddOnTypeSide,
	AddOnTypeBeverage,
}

// String implements fmt.Stringer.
func (a AddOnType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AddOnType.
func (a AddOnType) IsValid() bool {
	for _, candidate := range validAddOnTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAddOnType converts raw input into an AddOnType.
func ParseAddOnType(value string) (AddOnType, error) {
	for _, candidate := range validAddOnTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid add-on type %q", value)
}
