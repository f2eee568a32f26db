// Package report renders back-office data as spreadsheet workbooks.
package report

import (
	"fmt"
	"io"

	"vkolc-backend/internal/domain"

	"github.com/xuri/excelize/v2"
)

const LedgerSheet = "Ledger"

var ledgerHeaders = []interface{}{
	"Transaction", "Contract", "Date", "Party", "Direction",
	"Items", "Amount", "Tax", "Net Amount", "Manager", "Notes",
}

// WriteLedger writes the transactions as an xlsx workbook with one row per
// transaction, in the order given.
func WriteLedger(w io.Writer, txs []domain.Transaction) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", LedgerSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(LedgerSheet, "A1", &ledgerHeaders); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(LedgerSheet, "A1", "K1", style); err != nil {
		return err
	}

	for i, tx := range txs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			tx.ID, tx.ContractID, tx.Date, tx.PartyName, string(tx.Direction),
			tx.ItemCount, tx.Amount, tx.Tax, tx.NetAmount, tx.Manager, tx.Notes,
		}
		if err := f.SetSheetRow(LedgerSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s: %w", tx.ID, err)
		}
	}

	_ = f.SetColWidth(LedgerSheet, "D", "D", 25)
	_ = f.SetColWidth(LedgerSheet, "K", "K", 40)
	return f.Write(w)
}
