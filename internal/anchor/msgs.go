package anchor

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/anchor-protocol/anchor-txs/internal/terra"
	"github.com/anchor-protocol/anchor-txs/internal/validators"
)

var (
	ErrInvalidAddress = errors.New("invalid wallet address")
	ErrInvalidAmount  = errors.New("amount must be a positive decimal")
)

type borrowStable struct {
	BorrowAmount string `json:"borrow_amount"`
	To           string `json:"to,omitempty"`
}

type unlockCollateral struct {
	Collaterals [][2]string `json:"collaterals"`
}

type withdrawCollateral struct {
	Amount string `json:"amount"`
}

// FabricateMarketBorrow builds the market borrow_stable message.
func FabricateMarketBorrow(ap AddressProvider, address, amount, withdrawTo string) ([]terra.Msg, error) {
	uAmount, err := microAmount(address, amount)
	if err != nil {
		return nil, err
	}
	if withdrawTo != "" && !validators.IsTerraAddress(withdrawTo) {
		return nil, fmt.Errorf("withdraw address %q: %w", withdrawTo, ErrInvalidAddress)
	}

	msg, err := executeMsg(address, ap.Market, "borrow_stable", borrowStable{
		BorrowAmount: uAmount.String(),
		To:           withdrawTo,
	})
	if err != nil {
		return nil, err
	}
	return []terra.Msg{msg}, nil
}

// FabricateMarketRepay builds the market repay_stable message, sending the repaid UST along.
func FabricateMarketRepay(ap AddressProvider, address, amount string) ([]terra.Msg, error) {
	return stableCoinMsg(ap.Market, "repay_stable", address, amount)
}

// FabricateMarketDepositStableCoin builds the market deposit_stable message.
func FabricateMarketDepositStableCoin(ap AddressProvider, address, amount string) ([]terra.Msg, error) {
	return stableCoinMsg(ap.Market, "deposit_stable", address, amount)
}

// FabricateRedeemCollateral unlocks bLuna at the overseer and withdraws it from the custody.
// The custody withdrawal is always the second message.
func FabricateRedeemCollateral(ap AddressProvider, address, amount string) ([]terra.Msg, error) {
	uAmount, err := microAmount(address, amount)
	if err != nil {
		return nil, err
	}

	unlock, err := executeMsg(address, ap.Overseer, "unlock_collateral", unlockCollateral{
		Collaterals: [][2]string{{ap.BLunaToken, uAmount.String()}},
	})
	if err != nil {
		return nil, err
	}
	withdraw, err := executeMsg(address, ap.Custody, "withdraw_collateral", withdrawCollateral{
		Amount: uAmount.String(),
	})
	if err != nil {
		return nil, err
	}

	return []terra.Msg{unlock, withdraw}, nil
}

func stableCoinMsg(contract, method, address, amount string) ([]terra.Msg, error) {
	uAmount, err := microAmount(address, amount)
	if err != nil {
		return nil, err
	}

	msg, err := executeMsg(address, contract, method, struct{}{})
	if err != nil {
		return nil, err
	}
	msg.Coins = []terra.Coin{{Denom: USTDenom, Amount: uAmount.String()}}
	return []terra.Msg{msg}, nil
}

func microAmount(address, amount string) (decimal.Decimal, error) {
	if !validators.IsTerraAddress(address) {
		return decimal.Zero, fmt.Errorf("wallet address %q: %w", address, ErrInvalidAddress)
	}
	uAmount, err := Microfy(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w", ErrInvalidAmount, err)
	}
	uAmount = uAmount.Floor()
	if !uAmount.IsPositive() {
		return decimal.Zero, fmt.Errorf("amount %q: %w", amount, ErrInvalidAmount)
	}
	return uAmount, nil
}

func executeMsg(sender, contract, method string, body any) (terra.Msg, error) {
	payload, err := json.Marshal(map[string]any{method: body})
	if err != nil {
		return terra.Msg{}, fmt.Errorf("encoding %s message: %w", method, err)
	}
	return terra.Msg{
		Sender:     sender,
		Contract:   contract,
		ExecuteMsg: payload,
	}, nil
}
