package cashflow

import (
	"encoding/csv"
	"os"
	"strconv"
)

func WriteYearsCSV(path string, years []YearRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"year",
		"calendar_year",
		"fio_b_fraction",
		"tariff",
		"generation_kwh",
		"consumption_kwh",
		"instantaneous_kwh",
		"credits_offset_kwh",
		"remote_offset_kwh",
		"unserved_kwh",
		"bank_end_kwh",
		"abated",
		"fio_b_cost",
		"savings",
		"om_cost",
		"salvage",
		"net_cash_flow",
		"cumulative_nominal",
		"discounted_cash_flow",
		"cumulative_discounted",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range years {
		row := []string{
			strconv.Itoa(r.Year),
			strconv.Itoa(r.CalendarYear),
			fmtFloat(r.FioBFraction),
			fmtFloat(r.Tariff),
			fmtFloat(r.Generation),
			fmtFloat(r.Consumption),
			fmtFloat(r.Instantaneous),
			fmtFloat(r.CreditsOffset),
			fmtFloat(r.RemoteOffset),
			fmtFloat(r.Unserved),
			fmtFloat(r.BankEnd),
			fmtFloat(r.Abated),
			fmtFloat(r.FioBCost),
			fmtFloat(r.Savings),
			fmtFloat(r.OMCost),
			fmtFloat(r.Salvage),
			fmtFloat(r.NetCashFlow),
			fmtFloat(r.CumulativeNominal),
			fmtFloat(r.DiscountedCashFlow),
			fmtFloat(r.CumulativeDiscounted),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func WriteMonthsCSV(path string, months []MonthRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"year", "month", "generation_kwh", "consumption_kwh", "instantaneous_kwh",
		"new_credits_kwh", "from_new_kwh", "from_bank_kwh", "remote_offset_kwh",
		"unserved_kwh", "bank_in_kwh", "bank_out_kwh", "fio_b_cost", "savings",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range months {
		row := []string{
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Month),
			fmtFloat(r.Generation),
			fmtFloat(r.Consumption),
			fmtFloat(r.Instantaneous),
			fmtFloat(r.NewCredits),
			fmtFloat(r.FromNew),
			fmtFloat(r.FromBank),
			fmtFloat(r.RemoteOffset),
			fmtFloat(r.Unserved),
			fmtFloat(r.BankIn),
			fmtFloat(r.BankOut),
			fmtFloat(r.FioBCost),
			fmtFloat(r.Savings),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
