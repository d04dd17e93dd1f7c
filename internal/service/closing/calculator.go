package closing

import (
	"github.com/shopspring/decimal"

	"github.com/Thyago-vibe/posto-mobile/internal/domain/models"
)

// Classification is the outcome of comparing the declared total against
// the pump meter reading.
type Classification string

const (
	// Balanced: the drawer matches the meter exactly.
	Balanced Classification = "balanced"
	// Shortage: the meter says more should have come in than was declared.
	Shortage Classification = "shortage"
	// Surplus: more was declared than the meter accounts for.
	Surplus Classification = "surplus"
	// Undetermined: no meter reading was entered, nothing to compare.
	Undetermined Classification = "undetermined"
)

// Amounts are the six payment-method inputs of the closing form.
type Amounts struct {
	DebitCard  decimal.Decimal `json:"debit_card"`
	CreditCard decimal.Decimal `json:"credit_card"`
	Pix        decimal.Decimal `json:"pix"`
	Cash       decimal.Decimal `json:"cash"`
	Coins      decimal.Decimal `json:"coins"`
	Voucher    decimal.Decimal `json:"voucher"`
}

// CreditNoteEntry is one pay-later sale drafted on the form.
type CreditNoteEntry struct {
	ClientID uint            `json:"client_id"`
	Amount   decimal.Decimal `json:"amount"`
}

// Reconciliation holds the derived quantities the form recomputes on
// every input change.
type Reconciliation struct {
	CardTotal     decimal.Decimal `json:"card_total"`
	NoteTotal     decimal.Decimal `json:"note_total"`
	TotalDeclared decimal.Decimal `json:"total_declared"`
	Variance      decimal.Decimal `json:"variance"`
	Result        Classification  `json:"result"`
}

// Reconcile aggregates the payment inputs and credit-note drafts, compares
// them against the meter reading and classifies the outcome. Pure
// arithmetic; no I/O.
func Reconcile(amounts Amounts, notes []CreditNoteEntry, meterReading decimal.Decimal) Reconciliation {
	cardTotal := amounts.DebitCard.Add(amounts.CreditCard)

	noteTotal := decimal.Zero
	for _, n := range notes {
		noteTotal = noteTotal.Add(n.Amount)
	}

	declared := cardTotal.
		Add(noteTotal).
		Add(amounts.Pix).
		Add(amounts.Cash).
		Add(amounts.Coins).
		Add(amounts.Voucher)

	variance := meterReading.Sub(declared)

	return Reconciliation{
		CardTotal:     cardTotal,
		NoteTotal:     noteTotal,
		TotalDeclared: declared,
		Variance:      variance,
		Result:        classify(meterReading, variance),
	}
}

func classify(meterReading, variance decimal.Decimal) Classification {
	switch {
	case meterReading.IsZero():
		return Undetermined
	case variance.IsZero():
		return Balanced
	case variance.IsPositive():
		return Shortage
	default:
		return Surplus
	}
}

// ValidateCreditNoteClient guards the draft list at entry time: a blocked
// client is rejected before the line ever reaches the form.
func ValidateCreditNoteClient(c models.Client) error {
	if c.Blocked {
		return validationf("client %s is blocked and cannot make new credit purchases", c.Name)
	}
	return nil
}
