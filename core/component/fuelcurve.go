package component

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// CurvePoint is one calibration point of a generator fuel-response curve:
// fuel consumption in percent of the full-load rate at the given loading.
type CurvePoint struct {
	LoadPercent float64 `json:"load_percent"`
	FuelPercent float64 `json:"fuel_percent"`
}

// DefaultFuelCurve is the five-point curve used when none is configured.
var DefaultFuelCurve = []CurvePoint{
	{LoadPercent: 0, FuelPercent: 10},
	{LoadPercent: 25, FuelPercent: 32},
	{LoadPercent: 50, FuelPercent: 55},
	{LoadPercent: 75, FuelPercent: 77},
	{LoadPercent: 100, FuelPercent: 100},
}

const maxCurveDegree = 3

// FuelCurve maps a whole-percent loading bucket to a fuel percentage. The
// table is built once by a least-squares polynomial fit through the
// calibration points.
type FuelCurve struct {
	coeffs []float64
	table  [101]float64
}

// NewFuelCurve fits a polynomial of degree min(3, len(points)-1) through points.
func NewFuelCurve(points []CurvePoint) (FuelCurve, error) {
	if len(points) < 2 {
		return FuelCurve{}, invalid("fuel curve", "at least two points required, got %d", len(points))
	}
	seen := make(map[float64]bool, len(points))
	for _, pt := range points {
		if pt.LoadPercent < 0 || pt.LoadPercent > 100 {
			return FuelCurve{}, invalid("fuel curve", "load percent %v outside [0,100]", pt.LoadPercent)
		}
		if pt.FuelPercent < 0 {
			return FuelCurve{}, invalid("fuel curve", "negative fuel percent %v", pt.FuelPercent)
		}
		if seen[pt.LoadPercent] {
			return FuelCurve{}, invalid("fuel curve", "duplicate load percent %v", pt.LoadPercent)
		}
		seen[pt.LoadPercent] = true
	}
	coeffs, err := polyfit(points, min(maxCurveDegree, len(points)-1))
	if err != nil {
		return FuelCurve{}, invalid("fuel curve", "fit failed: %v", err)
	}
	c := FuelCurve{coeffs: coeffs}
	for i := range c.table {
		c.table[i] = clampZero(polyval(coeffs, float64(i)))
	}
	return c, nil
}

// polyfit solves the Vandermonde system in the least-squares sense and returns
// the coefficients in increasing order of power.
func polyfit(points []CurvePoint, degree int) ([]float64, error) {
	a := mat.NewDense(len(points), degree+1, nil)
	b := mat.NewVecDense(len(points), nil)
	for i, pt := range points {
		x := pt.LoadPercent / 100
		v := 1.0
		for j := 0; j <= degree; j++ {
			a.Set(i, j, v)
			v *= x
		}
		b.SetVec(i, pt.FuelPercent)
	}
	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return nil, err
	}
	return mat.Col(nil, 0, &x), nil
}

func polyval(coeffs []float64, loadPercent float64) float64 {
	x := loadPercent / 100
	var y float64
	for i := len(coeffs) - 1; i >= 0; i-- {
		y = y*x + coeffs[i]
	}
	return y
}

// FuelPercent returns the tabulated fuel percentage for loadPercent rounded to
// the nearest whole percent.
func (c FuelCurve) FuelPercent(loadPercent float64) float64 {
	i := int(math.Round(loadPercent))
	if i < 0 {
		i = 0
	}
	if i > 100 {
		i = 100
	}
	return c.table[i]
}

// Coefficients returns a copy of the fitted polynomial coefficients.
func (c FuelCurve) Coefficients() []float64 {
	return append([]float64(nil), c.coeffs...)
}
