package host

import (
	"github.com/guelowrd/non-fungible-pixels/internal/bank"
	"github.com/holiman/uint256"
)

// callContext is the ledger.Call of one host call. The contract balance
// is read once after the deposit is attached and kept current across
// transfers.
type callContext struct {
	bank     *bank.Bank
	contract string
	caller   string
	deposit  *uint256.Int
	balance  *uint256.Int
}

func (c *callContext) Caller() string                { return c.caller }
func (c *callContext) AttachedDeposit() *uint256.Int { return new(uint256.Int).Set(c.deposit) }
func (c *callContext) AccountBalance() *uint256.Int  { return new(uint256.Int).Set(c.balance) }

func (c *callContext) Transfer(to string, amount *uint256.Int) error {
	if err := c.bank.Transfer(c.contract, to, amount); err != nil {
		return err
	}
	c.balance = new(uint256.Int).Sub(c.balance, amount)
	return nil
}
