/*
engine.go - Running-balance engine

PURPOSE:
  Keeps the balance column of every entry consistent with the period's
  brought-forward balance and the deposit/withdrawal sequence, and keeps the
  period totals consistent with the entry list and the CURRENT schema.

INVARIANTS:
  balance_i = broughtForward + Σ_{j<=i} (deposit_j - withdrawal_j)

  Totals tolerate entries written under a prior schema: a sub-account name
  an entry does not carry contributes zero, never an error.

SEE ALSO:
  - period.go: invokes recomputation after every append/delete
*/
package rcb

import "github.com/skgov/fiscal-engine/fiscal"

// =============================================================================
// RUNNING BALANCE
// =============================================================================

// RecomputeBalances rewrites the balance column in place: each entry's
// balance is the previous balance (the opening balance for the first entry)
// plus its deposit minus its withdrawal. Entries stay in insertion order;
// no date sort is performed.
func RecomputeBalances(openingBalance fiscal.Amount, entries []LedgerEntry) []LedgerEntry {
	running := openingBalance
	for i := range entries {
		running = running.Add(entries[i].Deposit).Sub(entries[i].Withdrawal)
		entries[i].Balance = running
	}
	return entries
}

// EndingBalance returns the last entry's balance, or the opening balance
// when the period has no entries.
func EndingBalance(openingBalance fiscal.Amount, entries []LedgerEntry) fiscal.Amount {
	if len(entries) == 0 {
		return openingBalance
	}
	return entries[len(entries)-1].Balance
}

// =============================================================================
// TOTALS
// =============================================================================

// Totals are the aggregate figures for one period under one schema.
type Totals struct {
	Deposit    fiscal.Amount `json:"deposit"`
	Withdrawal fiscal.Amount `json:"withdrawal"`
	Balance    fiscal.Amount `json:"balance"`

	MOOE          map[string]fiscal.Amount `json:"mooe"`
	CapitalOutlay map[string]fiscal.Amount `json:"co"`
	Withholding   map[string]fiscal.Amount `json:"withholding"`

	AdvancesToOfficials fiscal.Amount `json:"advancesToOfficials"`
	AdvancesToTreasurer fiscal.Amount `json:"advancesToTreasurer"`
	Others              fiscal.Amount `json:"others"`
}

// ComputeTotals sums the entry list against the current schema. Balance is
// the ending balance (opening balance when the list is empty). Per-account
// sums are keyed by the schema's current names; entries built under an old
// schema contribute zero for names they lack.
func ComputeTotals(entries []LedgerEntry, schema AccountSchema, openingBalance fiscal.Amount) Totals {
	t := Totals{
		Balance:       EndingBalance(openingBalance, entries),
		MOOE:          make(map[string]fiscal.Amount, len(schema.MOOEAccounts)),
		CapitalOutlay: make(map[string]fiscal.Amount, len(schema.COAccounts)),
		Withholding:   make(map[string]fiscal.Amount),
	}

	for _, name := range schema.MOOEAccounts {
		t.MOOE[name] = fiscal.ZeroAmount()
	}
	for _, name := range schema.COAccounts {
		t.CapitalOutlay[name] = fiscal.ZeroAmount()
	}
	withholding := schema.WithholdingBuckets()
	for _, name := range withholding {
		t.Withholding[name] = fiscal.ZeroAmount()
	}
	syntheticWithholding := len(schema.WithholdingTypes) == 0

	for _, e := range entries {
		t.Deposit = t.Deposit.Add(e.Deposit)
		t.Withdrawal = t.Withdrawal.Add(e.Withdrawal)
		t.AdvancesToOfficials = t.AdvancesToOfficials.Add(e.AdvancesToOfficials)
		t.AdvancesToTreasurer = t.AdvancesToTreasurer.Add(e.AdvancesToTreasurer)
		t.Others = t.Others.Add(e.Others)

		for _, name := range schema.MOOEAccounts {
			t.MOOE[name] = t.MOOE[name].Add(e.MOOE[name])
		}
		for _, name := range schema.COAccounts {
			t.CapitalOutlay[name] = t.CapitalOutlay[name].Add(e.CapitalOutlay[name])
		}
		if syntheticWithholding {
			// No types configured: fold every recorded withholding value
			// into the synthetic bucket.
			for _, v := range e.Withholding {
				t.Withholding[SyntheticWithholding] = t.Withholding[SyntheticWithholding].Add(v)
			}
		} else {
			for _, name := range withholding {
				t.Withholding[name] = t.Withholding[name].Add(e.Withholding[name])
			}
		}
	}
	return t
}
