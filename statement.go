package ibanledger

import (
	"context"
	"io"

	"github.com/go-pdf/fpdf"
)

// Statement renders a one-page PDF summary of the account to w.
func (s *serviceImpl) Statement(ctx context.Context, w io.Writer, req StatementReq) error {
	acct, err := s.repo.GetByIban(ctx, req.Iban)
	if err != nil {
		return err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 12, "Account statement")
	pdf.Ln(16)

	pdf.SetFont("Helvetica", "", 11)
	rows := [][2]string{
		{"IBAN", acct.Iban},
		{"Currency", acct.Currency},
		{"Balance", acct.Balance.StringFixed(4)},
		{"Opened", acct.CreatedAt.Format("2006-01-02")},
	}
	for _, r := range rows {
		pdf.CellFormat(40, 8, r[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 8, r[1], "", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return ErrUnexpected{Cause: err}
	}
	return nil
}
