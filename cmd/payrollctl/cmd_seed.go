package main

import (
	"fmt"

	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/fixtures"
	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/pkg/ratetable"
	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/repository/postgresql"
	employeeService "github.com/cmlabs-hris/ph-payroll-backend-go/internal/service/employee"
	payrollService "github.com/cmlabs-hris/ph-payroll-backend-go/internal/service/payroll"
	"github.com/spf13/cobra"
)

// =============================================================================
// SEED COMMAND - sample employees and payroll records
// =============================================================================

func newSeedCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert sample employees and their payroll for Jan-Feb 2025",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			if migrate {
				if err := db.MigrateUp(cmd.Context()); err != nil {
					return err
				}
			}

			rates := ratetable.Default()
			if cfg.Payroll.RateTablePath != "" {
				if rates, err = ratetable.Load(cfg.Payroll.RateTablePath); err != nil {
					return err
				}
			}

			employeeRepo := postgresql.NewEmployeeRepository(db)
			payrollRepo := postgresql.NewPayrollRepository(db)
			result, err := fixtures.Seed(cmd.Context(),
				employeeService.NewEmployeeService(employeeRepo),
				payrollService.NewPayrollService(payrollRepo, employeeRepo, rates, payrollService.Options{}),
			)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "employees: %d (%d already present)\nrecords: %d created, %d updated\n",
				len(result.EmployeeIDs), len(result.Skipped), result.RecordsCreated, result.RecordsUpdated)
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations first")
	return cmd
}
