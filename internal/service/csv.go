package service

import (
	"encoding/csv"
	"io"
	"strconv"

	"voucherwall/internal/model"
)

var voucherCSVHeader = []string{"ID", "Voucher Code", "Used", "Used At", "Created At"}

// WriteVoucherCSV writes vouchers to w as CSV. Timestamps are date-only and
// an unused voucher gets an empty Used At cell.
func WriteVoucherCSV(w io.Writer, vouchers []model.Voucher) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(voucherCSVHeader); err != nil {
		return err
	}

	for _, v := range vouchers {
		used := "No"
		if v.IsUsed {
			used = "Yes"
		}
		usedAt := ""
		if v.UsedAt != nil {
			usedAt = v.UsedAt.Format("2006-01-02")
		}
		row := []string{
			strconv.FormatUint(uint64(v.ID), 10),
			v.Code,
			used,
			usedAt,
			v.CreatedAt.Format("2006-01-02"),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
