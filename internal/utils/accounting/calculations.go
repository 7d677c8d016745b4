package accounting

import (
	"fmt"

	"github.com/jash90/ledger_posting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceTolerance is the maximum allowed absolute difference between total
// base-currency debits and credits of a posted entry.
var BalanceTolerance = decimal.NewFromFloat(0.01)

// SignedBalanceChange converts one entry line into the signed delta it
// applies to the account's persisted balance, which is kept on the account's
// normal-balance side. A debit increases a debit-normal account and decreases
// a credit-normal one, and vice versa. Amounts are in base currency.
func SignedBalanceChange(line domain.EntryLine, accountType domain.AccountType) (decimal.Decimal, error) {
	net := line.BaseDebit().Sub(line.BaseCredit())
	switch accountType.NormalBalance() {
	case domain.DebitSide:
		return net, nil
	case domain.CreditSide:
		return net.Neg(), nil
	}
	return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, line.AccountID)
}

// IsBalanced reports whether total debits and credits agree within tolerance.
func IsBalanced(totalDebits, totalCredits decimal.Decimal) bool {
	return totalDebits.Sub(totalCredits).Abs().LessThanOrEqual(BalanceTolerance)
}

// ClosingLine builds the line that reverses an account's balance for the
// year-end closing entry. The balance is signed on the account's normal side;
// a credit-normal account holding a net credit balance gets a debit line of
// that magnitude, and vice versa. A negative balance (account sitting on its
// abnormal side) flips the direction.
func ClosingLine(account domain.Account, balance decimal.Decimal) (debit, credit decimal.Decimal) {
	magnitude := balance.Abs()
	reverseWithDebit := account.NormalBalance() == domain.CreditSide
	if balance.IsNegative() {
		reverseWithDebit = !reverseWithDebit
	}
	if reverseWithDebit {
		return magnitude, decimal.Zero
	}
	return decimal.Zero, magnitude
}
