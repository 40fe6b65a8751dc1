package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/pkg/ratetable"
	payrollService "github.com/cmlabs-hris/ph-payroll-backend-go/internal/service/payroll"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// =============================================================================
// TAX / BREAKDOWN COMMANDS - offline checks against the rate table
// =============================================================================

type rateFlags struct {
	legacyBoundary bool
	tablePath      string
}

func (f *rateFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.legacyBoundary, "legacy-boundary", false, "treat 250,000 as the start of the second bracket")
	cmd.Flags().StringVar(&f.tablePath, "rate-table", "", "YAML rate table (default embedded TRAIN table)")
}

func (f *rateFlags) table() (payroll.RateTable, error) {
	if f.tablePath == "" {
		return ratetable.Default(), nil
	}
	return ratetable.Load(f.tablePath)
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

func newTaxCmd() *cobra.Command {
	var flags rateFlags

	cmd := &cobra.Command{
		Use:   "tax ANNUAL_TAXABLE_INCOME",
		Short: "Show the bracket and annual tax for an annual taxable income",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			annual, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			table, err := flags.table()
			if err != nil {
				return err
			}

			tax, bracket, err := payrollService.NewTaxCalculator(table.TaxBrackets, flags.legacyBoundary).AnnualTax(annual)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "annual taxable\t%s\n", annual.StringFixed(2))
			fmt.Fprintf(w, "bracket\t%s\n", bracket.Label)
			fmt.Fprintf(w, "annual tax\t%s\n", tax.RoundBank(2).StringFixed(2))
			fmt.Fprintf(w, "monthly tax\t%s\n", tax.Div(decimal.NewFromInt(12)).RoundBank(2).StringFixed(2))
			return w.Flush()
		},
	}
	flags.register(cmd)
	return cmd
}

func newBreakdownCmd() *cobra.Command {
	var flags rateFlags

	cmd := &cobra.Command{
		Use:   "breakdown MONTHLY_GROSS",
		Short: "Show the full monthly deduction breakdown for a gross salary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gross, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			table, err := flags.table()
			if err != nil {
				return err
			}

			b, err := payrollService.NewCalculator(table, flags.legacyBoundary).Compute(gross)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "gross pay\t%s\n", b.GrossPay.StringFixed(2))
			fmt.Fprintf(w, "sss\t%s\t(employer %s)\n", b.SSS.Employee.StringFixed(2), b.SSS.Employer.StringFixed(2))
			fmt.Fprintf(w, "philhealth\t%s\t(employer %s)\n", b.PhilHealth.Employee.StringFixed(2), b.PhilHealth.Employer.StringFixed(2))
			fmt.Fprintf(w, "pag-ibig\t%s\t(employer %s)\n", b.PagIbig.Employee.StringFixed(2), b.PagIbig.Employer.StringFixed(2))
			fmt.Fprintf(w, "taxable income\t%s\n", b.TaxableIncome.StringFixed(2))
			fmt.Fprintf(w, "tax bracket\t%s\n", b.TaxBracket)
			fmt.Fprintf(w, "income tax\t%s\n", b.IncomeTax.StringFixed(2))
			fmt.Fprintf(w, "total deductions\t%s\n", b.TotalDeductions.StringFixed(2))
			fmt.Fprintf(w, "net pay\t%s\n", b.NetPay.StringFixed(2))
			return w.Flush()
		},
	}
	flags.register(cmd)
	return cmd
}
