package ledger

// timestampLayout renders DD/MM/YYYY HH:MM for display.
const timestampLayout = "02/01/2006 15:04"

// FormatTimestamp formats a transaction's timestamp for presentation.
func FormatTimestamp(tx Transaction) string {
	return tx.Timestamp.Format(timestampLayout)
}
