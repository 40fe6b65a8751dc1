package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const payrollRecordColumns = `pr.id, pr.employee_id, pr.period_month, pr.period_year, pr.override_salary,
	pr.basic_salary, pr.sss_employee, pr.sss_employer, pr.philhealth_employee, pr.philhealth_employer,
	pr.pagibig_employee, pr.pagibig_employer, pr.taxable_income, pr.tax_bracket, pr.income_tax,
	pr.total_deductions, pr.net_pay, pr.created_at,
	e.first_name || ' ' || e.last_name AS employee_name`

type payrollRepositoryImpl struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepositoryImpl{db: db}
}

func scanPayrollRecord(row pgx.Row) (payroll.PayrollRecord, error) {
	var r payroll.PayrollRecord
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.PeriodMonth, &r.PeriodYear, &r.OverrideSalary,
		&r.BasicSalary, &r.SSSEmployee, &r.SSSEmployer, &r.PhilHealthEmployee, &r.PhilHealthEmployer,
		&r.PagIbigEmployee, &r.PagIbigEmployer, &r.TaxableIncome, &r.TaxBracket, &r.IncomeTax,
		&r.TotalDeductions, &r.NetPay, &r.CreatedAt,
		&r.EmployeeName,
	)
	return r, err
}

// UpsertRecord implements payroll.PayrollRepository.
func (p *payrollRepositoryImpl) UpsertRecord(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, bool, error) {
	var (
		saved   payroll.PayrollRecord
		created bool
	)

	err := WithTransaction(ctx, p.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, p.db)

		// xmax is zero only for a freshly inserted tuple.
		upsert := `
			INSERT INTO payroll_records (
				employee_id, period_month, period_year, override_salary, basic_salary,
				sss_employee, sss_employer, philhealth_employee, philhealth_employer,
				pagibig_employee, pagibig_employer, taxable_income, tax_bracket, income_tax,
				total_deductions, net_pay
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			ON CONFLICT ON CONSTRAINT uk_employee_period DO UPDATE SET
				override_salary = EXCLUDED.override_salary,
				basic_salary = EXCLUDED.basic_salary,
				sss_employee = EXCLUDED.sss_employee,
				sss_employer = EXCLUDED.sss_employer,
				philhealth_employee = EXCLUDED.philhealth_employee,
				philhealth_employer = EXCLUDED.philhealth_employer,
				pagibig_employee = EXCLUDED.pagibig_employee,
				pagibig_employer = EXCLUDED.pagibig_employer,
				taxable_income = EXCLUDED.taxable_income,
				tax_bracket = EXCLUDED.tax_bracket,
				income_tax = EXCLUDED.income_tax,
				total_deductions = EXCLUDED.total_deductions,
				net_pay = EXCLUDED.net_pay
			RETURNING id, (xmax = 0) AS inserted
		`

		var id int64
		err := q.QueryRow(ctx, upsert,
			record.EmployeeID, record.PeriodMonth, record.PeriodYear, record.OverrideSalary, record.BasicSalary,
			record.SSSEmployee, record.SSSEmployer, record.PhilHealthEmployee, record.PhilHealthEmployer,
			record.PagIbigEmployee, record.PagIbigEmployer, record.TaxableIncome, record.TaxBracket, record.IncomeTax,
			record.TotalDeductions, record.NetPay,
		).Scan(&id, &created)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
				return employee.ErrEmployeeNotFound
			}
			return fmt.Errorf("failed to upsert payroll record: %w", err)
		}

		saved, err = p.getRecord(ctx, q, id)
		return err
	})
	if err != nil {
		return payroll.PayrollRecord{}, false, err
	}
	return saved, created, nil
}

func (p *payrollRepositoryImpl) getRecord(ctx context.Context, q database.Querier, id int64) (payroll.PayrollRecord, error) {
	query := `
		SELECT ` + payrollRecordColumns + `
		FROM payroll_records pr
		JOIN employees e ON e.id = pr.employee_id
		WHERE pr.id = $1
	`

	record, err := scanPayrollRecord(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record with id %d: %w", id, err)
	}
	return record, nil
}

// GetRecordByID implements payroll.PayrollRepository.
func (p *payrollRepositoryImpl) GetRecordByID(ctx context.Context, id int64) (payroll.PayrollRecord, error) {
	return p.getRecord(ctx, GetQuerier(ctx, p.db), id)
}

// ListRecords implements payroll.PayrollRepository.
func (p *payrollRepositoryImpl) ListRecords(ctx context.Context, filter payroll.HistoryFilter) ([]payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, p.db)

	var (
		conditions []string
		args       []interface{}
	)
	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("pr.employee_id = $%d", len(args)))
	}
	if filter.Year != nil {
		args = append(args, *filter.Year)
		conditions = append(conditions, fmt.Sprintf("pr.period_year = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := `
		SELECT ` + payrollRecordColumns + `
		FROM payroll_records pr
		JOIN employees e ON e.id = pr.employee_id
		` + where + `
		ORDER BY pr.period_year DESC, pr.period_month DESC, pr.created_at DESC, pr.id DESC
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	records := []payroll.PayrollRecord{}
	for rows.Next() {
		r, err := scanPayrollRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payroll records: %w", err)
	}
	return records, nil
}

// DeleteRecord implements payroll.PayrollRepository.
func (p *payrollRepositoryImpl) DeleteRecord(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, p.db)

	tag, err := q.Exec(ctx, `DELETE FROM payroll_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payroll record with id %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollRecordNotFound
	}
	return nil
}
