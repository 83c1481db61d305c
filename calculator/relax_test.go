package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"capacitor/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func mustGrid(t testing.TB, factor int, v1, v2 float64) *model.Field {
	t.Helper()
	f, err := BuildGrid(factor, v1, v2, 0)
	require.NoError(t, err)
	return f
}

// 外边界和极板上的点与初始值逐位相同
func assertFixedCellsUntouched(t *testing.T, initial, got *model.Field, factor int) {
	t.Helper()
	rows, cols := Dims(factor)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			ring := r == 0 || r == rows-1 || c == 0 || c == cols-1
			if !ring && !IsFixed(r, c, factor) {
				continue
			}
			if math.Float64bits(initial.At(r, c)) != math.Float64bits(got.At(r, c)) {
				t.Fatalf("fixed cell [%d][%d] changed: %v -> %v", r, c, initial.At(r, c), got.At(r, c))
			}
		}
	}
}

func TestRelax_JacobiConcreteScenario(t *testing.T) {
	grid := mustGrid(t, 1, 1.0, -1.0)
	field, sweeps, err := Relax(grid, 1, 1e-5, JacobiPolicy())
	require.NoError(t, err)
	require.Greater(t, sweeps, 0)

	assertFixedCellsUntouched(t, grid, field, 1)
	for r := 2; r < 8; r++ {
		assert.Equal(t, 1.0, field.At(r, 2))
		assert.Equal(t, -1.0, field.At(r, 8))
		assert.InDelta(t, 0.0, field.At(r, 5), 1e-12, "center column row %d", r)
	}
	assert.InDelta(t, 0.49256, field.At(4, 1), 1e-3)

	// 相同输入得到相同的迭代次数和结果
	again, sweeps2, err := Relax(grid, 1, 1e-5, JacobiPolicy())
	require.NoError(t, err)
	assert.Equal(t, sweeps, sweeps2)
	assert.Equal(t, field.Data, again.Data)
}

func TestRelax_Antisymmetry(t *testing.T) {
	for _, factor := range []int{1, 2} {
		grid := mustGrid(t, factor, 1.0, -1.0)
		field, _, err := Relax(grid, factor, 1e-6, JacobiPolicy())
		require.NoError(t, err)

		rows, cols := field.Shape()
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				assert.InDelta(t, -field.At(r, c), field.At(r, cols-1-c), 1e-12, "factor %d [%d][%d]", factor, r, c)
			}
		}
	}
}

func TestRelax_GaussSeidelConcreteScenario(t *testing.T) {
	grid := mustGrid(t, 1, 1.0, -1.0)
	gs, _, err := Relax(grid, 1, 1e-5, GaussSeidelPolicy(0.9))
	require.NoError(t, err)
	jacobi, _, err := Relax(grid, 1, 1e-5, JacobiPolicy())
	require.NoError(t, err)

	assertFixedCellsUntouched(t, grid, gs, 1)
	for i := range gs.Data {
		assert.InDelta(t, jacobi.Data[i], gs.Data[i], 1e-3)
	}
}

func TestRelax_GaussSeidelNotSlowerThanJacobi(t *testing.T) {
	cases := []struct {
		factor int
		v1, v2 float64
	}{
		{1, 1, 1},
		{1, 1, 0},
		{1, 2, -1},
		{2, 1, 0.5},
	}
	for _, tc := range cases {
		grid := mustGrid(t, tc.factor, tc.v1, tc.v2)
		_, jacobi, err := Relax(grid, tc.factor, 1e-5, JacobiPolicy())
		require.NoError(t, err)
		_, gs, err := Relax(grid, tc.factor, 1e-5, GaussSeidelPolicy(0))
		require.NoError(t, err)
		assert.LessOrEqual(t, gs, jacobi, "factor %d V1=%v V2=%v", tc.factor, tc.v1, tc.v2)
	}
}

// V2 = -V1 时 Jacobi 的迭代值始终反对称，只有反对称分量参与迭代，
// 而 GaussSeidel 的遍历顺序破坏了对称性，因此这种情况下 Jacobi 更快
func TestRelax_AntisymmetricPlatesFavourJacobi(t *testing.T) {
	grid := mustGrid(t, 1, 1.0, -1.0)
	_, jacobi, err := Relax(grid, 1, 1e-5, JacobiPolicy())
	require.NoError(t, err)
	_, gs, err := Relax(grid, 1, 1e-5, GaussSeidelPolicy(0))
	require.NoError(t, err)
	assert.Less(t, jacobi, gs)
}

func TestRelax_Idempotent(t *testing.T) {
	policies := []Policy{JacobiPolicy(), GaussSeidelPolicy(0), GaussSeidelPolicy(0.9), SORPolicy(-0.3)}
	for _, p := range policies {
		t.Run(p.String(), func(t *testing.T) {
			grid := mustGrid(t, 1, 1.0, -1.0)
			converged, _, err := Relax(grid, 1, 1e-5, p)
			require.NoError(t, err)

			again, sweeps, err := Relax(converged, 1, 1e-5, p)
			require.NoError(t, err)
			assert.Equal(t, 1, sweeps)
			for i := range again.Data {
				assert.InDelta(t, converged.Data[i], again.Data[i], 1e-5)
			}
		})
	}
}

func TestRelax_FixedCellsUntouchedEverySweep(t *testing.T) {
	policies := []Policy{JacobiPolicy(), GaussSeidelPolicy(0.9), SORPolicy(0.9), SORPolicy(-0.3)}
	for _, p := range policies {
		t.Run(p.String(), func(t *testing.T) {
			grid, err := BuildGrid(2, 3.0, -1.5, 0.25)
			require.NoError(t, err)
			for n := 1; n <= 6; n++ {
				field, sweeps, _ := Relax(grid, 2, 1e-12, p, WithMaxSweeps(n))
				require.Equal(t, n, sweeps)
				assertFixedCellsUntouched(t, grid, field, 2)
			}
		})
	}
}

func TestRelax_DoesNotMutateInput(t *testing.T) {
	for _, p := range []Policy{JacobiPolicy(), GaussSeidelPolicy(0.9), SORPolicy(-0.3)} {
		grid := mustGrid(t, 1, 1.0, -1.0)
		before := grid.Clone()
		_, _, err := Relax(grid, 1, 1e-5, p)
		require.NoError(t, err)
		assert.Equal(t, before.Data, grid.Data, p.String())
	}
}

func TestRelax_SORWithZeroOmegaIsJacobi(t *testing.T) {
	grid := mustGrid(t, 2, 1.0, -1.0)
	jacobi, js, err := Relax(grid, 2, 1e-6, JacobiPolicy())
	require.NoError(t, err)
	sor, ss, err := Relax(grid, 2, 1e-6, SORPolicy(0))
	require.NoError(t, err)

	assert.Equal(t, js, ss)
	assert.Equal(t, jacobi.Data, sor.Data)
}

func TestRelax_SORDiverges(t *testing.T) {
	grid := mustGrid(t, 1, 1.0, -1.0)
	field, sweeps, err := Relax(grid, 1, 1e-5, SORPolicy(0.9), WithMaxSweeps(100000))
	require.True(t, errors.Is(err, ErrDidNotConverge), "err = %v", err)
	require.NotNil(t, field)
	assert.Less(t, sweeps, 100000)

	diverged := false
	for _, v := range field.Data {
		if math.IsNaN(v) || math.Abs(v) > 1e300 {
			diverged = true
			break
		}
	}
	assert.True(t, diverged)
	assertFixedCellsUntouched(t, grid, field, 1)
}

func TestRelax_MaxSweeps(t *testing.T) {
	grid := mustGrid(t, 1, 1.0, -1.0)
	field, sweeps, err := Relax(grid, 1, 1e-5, JacobiPolicy(), WithMaxSweeps(3))
	require.True(t, errors.Is(err, ErrDidNotConverge), "err = %v", err)
	assert.Equal(t, 3, sweeps)
	require.NotNil(t, field)

	// 在上限之内收敛时不报错
	_, sweeps, err = Relax(grid, 1, 1e-5, JacobiPolicy(), WithMaxSweeps(10000))
	require.NoError(t, err)
	assert.Less(t, sweeps, 10000)
}

func TestRelax_Observer(t *testing.T) {
	grid := mustGrid(t, 1, 1.0, -1.0)
	var seen []int
	var last float64
	_, sweeps, err := Relax(grid, 1, 1e-5, GaussSeidelPolicy(0.9), WithObserver(func(sweep int, delta float64) {
		seen = append(seen, sweep)
		last = delta
	}))
	require.NoError(t, err)
	require.Len(t, seen, sweeps)
	assert.Equal(t, 1, seen[0])
	assert.Equal(t, sweeps, seen[len(seen)-1])
	assert.LessOrEqual(t, last, 1e-5)
}

func TestRelax_Errors(t *testing.T) {
	grid := mustGrid(t, 1, 1.0, -1.0)
	cases := []struct {
		name      string
		field     *model.Field
		factor    int
		tolerance float64
		err       error
	}{
		{"ZeroFactor", grid, 0, 1e-5, ErrInvalidScale},
		{"HugeFactor", grid, math.MaxInt / 10, 1e-5, ErrInvalidScale},
		{"ZeroTolerance", grid, 1, 0, ErrInvalidTolerance},
		{"NegativeTolerance", grid, 1, -1e-5, ErrInvalidTolerance},
		{"NaNTolerance", grid, 1, math.NaN(), ErrInvalidTolerance},
		{"ShapeMismatch", grid, 2, 1e-5, ErrShapeMismatch},
		{"NilField", nil, 1, 1e-5, ErrShapeMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Relax(tc.field, tc.factor, tc.tolerance, JacobiPolicy())
			if !errors.Is(err, tc.err) {
				t.Errorf("Relax error = %v; want %v", err, tc.err)
			}
		})
	}
}

func BenchmarkRelax_Jacobi(b *testing.B) {
	grid := mustGrid(b, 4, 1.0, -1.0)
	for i := 0; i < b.N; i++ {
		_, _, _ = Relax(grid, 4, 1e-5, JacobiPolicy())
	}
}

func BenchmarkRelax_GaussSeidel(b *testing.B) {
	grid := mustGrid(b, 4, 1.0, -1.0)
	for i := 0; i < b.N; i++ {
		_, _, _ = Relax(grid, 4, 1e-5, GaussSeidelPolicy(0.9))
	}
}
