package anchor

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/anchor-protocol/anchor-txs/internal/validators"
)

// AddressProvider maps the Anchor contracts to their on-chain addresses.
type AddressProvider struct {
	Market        string `json:"market" validate:"required,terra_address"`
	Overseer      string `json:"overseer" validate:"required,terra_address"`
	Custody       string `json:"custody" validate:"required,terra_address"`
	Oracle        string `json:"oracle" validate:"required,terra_address"`
	InterestModel string `json:"interestModel" validate:"omitempty,terra_address"`
	BLunaToken    string `json:"bLunaToken" validate:"required,terra_address"`
	AUST          string `json:"aUST" validate:"required,terra_address"`
}

// ParseAddressProvider decodes and validates an address provider JSON document.
func ParseAddressProvider(raw []byte) (AddressProvider, error) {
	var ap AddressProvider
	if err := json.Unmarshal(raw, &ap); err != nil {
		return AddressProvider{}, fmt.Errorf("decoding address provider: %w", err)
	}
	if err := ap.Validate(); err != nil {
		return AddressProvider{}, err
	}
	return ap, nil
}

func (ap AddressProvider) Validate() error {
	if err := validators.NewValidator().Struct(ap); err != nil {
		if vErrs, ok := err.(validator.ValidationErrors); ok {
			return fmt.Errorf("invalid address provider: %v", validators.ParseValidationError(vErrs))
		}
		return fmt.Errorf("validating address provider: %w", err)
	}
	return nil
}
