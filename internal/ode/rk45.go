package ode

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Dormand-Prince coefficients (RK45)
const (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0

	safety   = 0.9
	minScale = 0.2
	maxScale = 10.0
)

// Solve advances y0 from t0 to t1 under f with embedded 4(5) error control.
// All stage buffers are allocated once up front; f sees the same slices on
// every call. The first-same-as-last property of the tableau is used to save
// one evaluation per accepted step.
func Solve(f Func, y0 []complex128, t0, t1 float64, cfg Config) (*Solution, error) {
	n := len(y0)
	if n == 0 {
		return nil, fmt.Errorf("ode: empty initial state")
	}
	if t1 <= t0 {
		return nil, fmt.Errorf("ode: end time %f not after start time %f", t1, t0)
	}
	cfg = cfg.withDefaults()

	y := make([]complex128, n)
	copy(y, y0)
	k1 := make([]complex128, n)
	k2 := make([]complex128, n)
	k3 := make([]complex128, n)
	k4 := make([]complex128, n)
	k5 := make([]complex128, n)
	k6 := make([]complex128, n)
	k7 := make([]complex128, n)
	ytmp := make([]complex128, n)
	ynew := make([]complex128, n)

	sol := &Solution{}
	if cfg.Keep {
		sol.Times = append(sol.Times, t0)
		sol.States = append(sol.States, cloneState(y))
	}

	t := t0
	dt := cfg.InitialStep
	if dt > t1-t0 {
		dt = t1 - t0
	}
	dtMin := (t1 - t0) * 1e-15

	f(t, y, k1)
	sol.Stats.Evaluations++

	for t < t1 {
		if sol.Stats.Steps+sol.Stats.Rejected >= cfg.MaxSteps {
			return nil, fmt.Errorf("%w after %d attempts at t=%g", ErrMaxSteps, cfg.MaxSteps, t)
		}
		if dt < dtMin {
			return nil, fmt.Errorf("%w at t=%g (dt=%g)", ErrStepUnderflow, t, dt)
		}
		last := false
		if t+dt >= t1 {
			dt = t1 - t
			last = true
		}
		h := complex(dt, 0)

		for i := 0; i < n; i++ {
			ytmp[i] = y[i] + h*(b21*k1[i])
		}
		f(t+a2*dt, ytmp, k2)

		for i := 0; i < n; i++ {
			ytmp[i] = y[i] + h*(b31*k1[i]+b32*k2[i])
		}
		f(t+a3*dt, ytmp, k3)

		for i := 0; i < n; i++ {
			ytmp[i] = y[i] + h*(b41*k1[i]+b42*k2[i]+b43*k3[i])
		}
		f(t+a4*dt, ytmp, k4)

		for i := 0; i < n; i++ {
			ytmp[i] = y[i] + h*(b51*k1[i]+b52*k2[i]+b53*k3[i]+b54*k4[i])
		}
		f(t+a5*dt, ytmp, k5)

		for i := 0; i < n; i++ {
			ytmp[i] = y[i] + h*(b61*k1[i]+b62*k2[i]+b63*k3[i]+b64*k4[i]+b65*k5[i])
		}
		f(t+dt, ytmp, k6)

		for i := 0; i < n; i++ {
			ynew[i] = y[i] + h*(c1*k1[i]+c3*k3[i]+c4*k4[i]+c5*k5[i]+c6*k6[i])
		}
		f(t+dt, ynew, k7)
		sol.Stats.Evaluations += 6

		errNorm := 0.0
		for i := 0; i < n; i++ {
			est := cmplx.Abs(h * (dc1*k1[i] + dc3*k3[i] + dc4*k4[i] + dc5*k5[i] + dc6*k6[i] + dc7*k7[i]))
			sc := cfg.AbsTol + cfg.RelTol*math.Max(cmplx.Abs(y[i]), cmplx.Abs(ynew[i]))
			r := est / sc
			errNorm += r * r
		}
		errNorm = math.Sqrt(errNorm / float64(n))

		if errNorm > 1 {
			sol.Stats.Rejected++
			dt *= math.Max(minScale, safety*math.Pow(errNorm, -0.25))
			continue
		}

		t += dt
		copy(y, ynew)
		copy(k1, k7) // FSAL
		sol.Stats.Steps++
		sol.Stats.LastStep = dt
		if cfg.Keep {
			sol.Times = append(sol.Times, t)
			sol.States = append(sol.States, cloneState(y))
		}
		if last {
			break
		}

		if errNorm > 0 {
			dt *= math.Min(maxScale, safety*math.Pow(errNorm, -0.2))
		} else {
			dt *= maxScale
		}
	}

	sol.Final = cloneState(y)
	return sol, nil
}

func cloneState(y []complex128) []complex128 {
	c := make([]complex128, len(y))
	copy(c, y)
	return c
}
