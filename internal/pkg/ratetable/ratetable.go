// Package ratetable loads the statutory tax and contribution tables used by
// the payroll calculators.
package ratetable

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed ph_train.yaml
var defaultYAML []byte

var (
	ErrUnsupportedVersion = errors.New("ratetable: unsupported version")
	ErrNoBrackets         = errors.New("ratetable: no tax brackets")
	ErrBracketGap         = errors.New("ratetable: brackets must be contiguous")
	ErrBracketJump        = errors.New("ratetable: tax must be continuous at bracket boundaries")
	ErrInvalidSSS         = errors.New("ratetable: invalid sss parameters")
)

// amount is a decimal that accepts both quoted and bare YAML scalars
// without going through float64.
type amount struct {
	decimal.Decimal
}

func (a *amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("ratetable: line %d: expected a number", node.Line)
	}
	d, err := decimal.NewFromString(node.Value)
	if err != nil {
		return fmt.Errorf("ratetable: line %d: %w", node.Line, err)
	}
	a.Decimal = d
	return nil
}

type file struct {
	Version     int           `yaml:"version"`
	Name        string        `yaml:"name"`
	TaxBrackets []bracketYAML `yaml:"tax_brackets"`
	SSS         sssYAML       `yaml:"sss"`
	PhilHealth  struct {
		Rate          amount `yaml:"rate"`
		SalaryFloor   amount `yaml:"salary_floor"`
		SalaryCeiling amount `yaml:"salary_ceiling"`
	} `yaml:"philhealth"`
	PagIbig struct {
		Rate            amount `yaml:"rate"`
		MaxContribution amount `yaml:"max_contribution"`
		SalaryThreshold amount `yaml:"salary_threshold"`
	} `yaml:"pagibig"`
}

type bracketYAML struct {
	Label string  `yaml:"label"`
	Lower amount  `yaml:"lower"`
	Upper *amount `yaml:"upper"`
	Rate  amount  `yaml:"rate"`
	Fixed amount  `yaml:"fixed"`
}

type sssYAML struct {
	EmployeeRate amount `yaml:"employee_rate"`
	EmployerRate amount `yaml:"employer_rate"`
	MSCFloor     amount `yaml:"msc_floor"`
	MSCCeiling   amount `yaml:"msc_ceiling"`
	MSCStep      amount `yaml:"msc_step"`
	FirstBandMax amount `yaml:"first_band_max"`
}

// Parse decodes and validates a rate table document.
func Parse(b []byte) (payroll.RateTable, error) {
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return payroll.RateTable{}, fmt.Errorf("ratetable: %w", err)
	}
	if f.Version != 1 {
		return payroll.RateTable{}, ErrUnsupportedVersion
	}

	brackets, err := buildBrackets(f.TaxBrackets)
	if err != nil {
		return payroll.RateTable{}, err
	}
	bands, err := buildSSSBands(f.SSS)
	if err != nil {
		return payroll.RateTable{}, err
	}

	return payroll.RateTable{
		Name:        f.Name,
		TaxBrackets: brackets,
		SSS: payroll.SSSRule{
			Bands:        bands,
			EmployeeRate: f.SSS.EmployeeRate.Decimal,
			EmployerRate: f.SSS.EmployerRate.Decimal,
		},
		PhilHealth: payroll.PhilHealthRule{
			Rate:          f.PhilHealth.Rate.Decimal,
			SalaryFloor:   f.PhilHealth.SalaryFloor.Decimal,
			SalaryCeiling: f.PhilHealth.SalaryCeiling.Decimal,
		},
		PagIbig: payroll.PagIbigRule{
			Rate:            f.PagIbig.Rate.Decimal,
			MaxContribution: f.PagIbig.MaxContribution.Decimal,
			SalaryThreshold: f.PagIbig.SalaryThreshold.Decimal,
		},
	}, nil
}

// Load reads a rate table from disk.
func Load(path string) (payroll.RateTable, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return payroll.RateTable{}, fmt.Errorf("failed to read rate table: %w", err)
	}
	return Parse(b)
}

var (
	defaultOnce  sync.Once
	defaultTable payroll.RateTable
	defaultErr   error
)

// Default returns the embedded TRAIN table. It panics if the embedded
// document is invalid, which can only happen at build time.
func Default() payroll.RateTable {
	defaultOnce.Do(func() {
		defaultTable, defaultErr = Parse(defaultYAML)
	})
	if defaultErr != nil {
		panic(defaultErr)
	}
	return defaultTable
}

func buildBrackets(in []bracketYAML) ([]payroll.TaxBracket, error) {
	if len(in) == 0 {
		return nil, ErrNoBrackets
	}
	if !in[0].Lower.IsZero() {
		return nil, fmt.Errorf("%w: first bracket must start at 0", ErrBracketGap)
	}

	out := make([]payroll.TaxBracket, 0, len(in))
	for i, b := range in {
		tb := payroll.TaxBracket{
			LowerBound:  b.Lower.Decimal,
			Rate:        b.Rate.Decimal,
			FixedAmount: b.Fixed.Decimal,
			Label:       b.Label,
		}
		if b.Upper != nil {
			upper := b.Upper.Decimal
			tb.UpperBound = &upper
		}

		last := i == len(in)-1
		switch {
		case last && tb.UpperBound != nil:
			return nil, fmt.Errorf("%w: last bracket must be unbounded", ErrBracketGap)
		case !last && tb.UpperBound == nil:
			return nil, fmt.Errorf("%w: bracket %q has no upper bound", ErrBracketGap, b.Label)
		case !last && !tb.UpperBound.GreaterThan(tb.LowerBound):
			return nil, fmt.Errorf("%w: bracket %q is empty", ErrBracketGap, b.Label)
		}

		if i > 0 {
			prev := out[i-1]
			if !prev.UpperBound.Equal(tb.LowerBound) {
				return nil, fmt.Errorf("%w: %q does not start where %q ends", ErrBracketGap, b.Label, prev.Label)
			}
			if !prev.Tax(*prev.UpperBound).Equal(tb.FixedAmount) {
				return nil, fmt.Errorf("%w: %q", ErrBracketJump, b.Label)
			}
		}
		out = append(out, tb)
	}
	return out, nil
}

// buildSSSBands expands the MSC ladder: the floor credit covers everything
// up to first_band_max, each following credit m covers [m-step/2, m+step/2),
// and the ceiling credit is open-ended.
func buildSSSBands(s sssYAML) ([]payroll.SSSBand, error) {
	floor, ceiling, step := s.MSCFloor.Decimal, s.MSCCeiling.Decimal, s.MSCStep.Decimal
	if !step.IsPositive() || !floor.IsPositive() || ceiling.LessThan(floor) {
		return nil, ErrInvalidSSS
	}
	if !ceiling.Sub(floor).Mod(step).IsZero() {
		return nil, fmt.Errorf("%w: ceiling is not reachable from floor", ErrInvalidSSS)
	}

	half := step.Div(decimal.NewFromInt(2))
	centavo := decimal.New(1, -2)

	firstMax := s.FirstBandMax.Decimal
	bands := []payroll.SSSBand{{SalaryMin: decimal.Zero, SalaryMax: &firstMax, MSC: floor}}
	for msc := floor.Add(step); msc.LessThan(ceiling); msc = msc.Add(step) {
		upper := msc.Add(half).Sub(centavo)
		bands = append(bands, payroll.SSSBand{SalaryMin: msc.Sub(half), SalaryMax: &upper, MSC: msc})
	}
	bands = append(bands, payroll.SSSBand{SalaryMin: ceiling.Sub(half), MSC: ceiling})

	if len(bands) > 2 && !bands[1].SalaryMin.Equal(firstMax.Add(centavo)) {
		return nil, fmt.Errorf("%w: first band does not meet the second", ErrInvalidSSS)
	}
	return bands, nil
}
