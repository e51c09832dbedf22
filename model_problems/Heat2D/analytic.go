package Heat2D

import "math"

// Term is one mode of a closed-form solution expressed as a linear
// combination sum_i Coef_i * F_(Nx_i, Ny_i)(x, y, t).
type Term struct {
	Coef   float64
	Nx, Ny int
}

// Each zeroBoundaryTerm is the fully evaluated coefficient form of a Term:
// amplitude * exp(coefT * t) * sin(coefX * (x - xShift)) * sin(coefY * (y - yShift))
type zeroBoundaryTerm struct {
	amplitude           float64
	coefT, coefX, coefY float64
}

// ZeroBoundary evaluates an analytical solution of the heat equation
// dU/dt - k div(grad U) = 0 on a rectangle whose boundary is held at zero:
//
//	sum_i a_i * exp(-k t (bx_i^2 + by_i^2)) * sin(bx_i (x - x0)) * sin(by_i (y - y0))
//
// with bx = Nx pi / width, by = Ny pi / height. Used as a pure callback for
// setting initial conditions and for error measurement.
type ZeroBoundary struct {
	terms          []zeroBoundaryTerm
	xShift, yShift float64
}

// NewZeroBoundary translates index-based terms into concrete coefficients.
//
//	k               - diffusivity in dU/dt - k div(grad U) = 0
//	xStart, xWidth  - lowest x position and x extent of the rectangle
//	yStart, yWidth  - lowest y position and y extent of the rectangle
func NewZeroBoundary(k, xStart, xWidth, yStart, yWidth float64,
	solutionTerms []Term) (zb *ZeroBoundary) {
	zb = &ZeroBoundary{
		terms:  make([]zeroBoundaryTerm, len(solutionTerms)),
		xShift: xStart,
		yShift: yStart,
	}
	for i, t := range solutionTerms {
		var (
			lambdaX = float64(t.Nx) * math.Pi / xWidth
			lambdaY = float64(t.Ny) * math.Pi / yWidth
		)
		zb.terms[i] = zeroBoundaryTerm{
			amplitude: t.Coef,
			coefT:     -k * (lambdaX*lambdaX + lambdaY*lambdaY),
			coefX:     lambdaX,
			coefY:     lambdaY,
		}
	}
	return
}

// At computes the value of the solution at the given point and time.
func (zb *ZeroBoundary) At(x, y, t float64) (result float64) {
	for _, term := range zb.terms {
		result += term.amplitude * math.Exp(t*term.coefT) *
			math.Sin((x-zb.xShift)*term.coefX) * math.Sin((y-zb.yShift)*term.coefY)
	}
	return
}
