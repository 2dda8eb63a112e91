// Package blackbody converts a Planckian-locus temperature into the linear
// RGB triple the parser substitutes for a "blackbody" DSL argument.
package blackbody

import (
	"github.com/chewxy/math32"
	"github.com/hatoo/rene-sub000/vmath"
)

// Approximate wavelengths (nm) used to sample the blackbody curve into a
// three-channel color. This renderer doesn't carry a spectral pipeline
// (spectral rendering is out of scope), so a blackbody argument is reduced
// to RGB at parse time using these three samples rather than a full CIE
// color-matching integral.
const (
	wavelengthR = 630.0
	wavelengthG = 532.0
	wavelengthB = 465.0
)

const (
	speedOfLight = 299792458.0
	planckH      = 6.62606957e-34
	boltzmannK   = 1.3806488e-23
)

// radiance evaluates Planck's law at wavelength lambda (nm) and
// temperature t (kelvin).
func radiance(lambdaNM, t float32) float32 {
	if t <= 0 {
		return 0
	}
	l := lambdaNM * 1e-9
	lambda5 := (l * l) * (l * l) * l
	return (2.0 * planckH * speedOfLight * speedOfLight) /
		(lambda5 * (math32.Exp((planckH*speedOfLight)/(l*boltzmannK*t)) - 1.0))
}

// TemperatureToRGB returns the blackbody emission at temperature t, sampled
// at three representative wavelengths and normalized so the curve's peak
// wavelength maps to 1.0 — matching how the grammar's "blackbody" argument
// type is meant to stand in for a scaled emission color.
func TemperatureToRGB(t float32) vmath.Vec3 {
	if t <= 0 {
		return vmath.Vec3{}
	}
	peakLambda := 2.8977721e-3 / t * 1e9
	peak := radiance(peakLambda, t)
	if peak == 0 {
		return vmath.Vec3{}
	}
	return vmath.Vec3{
		X: radiance(wavelengthR, t) / peak,
		Y: radiance(wavelengthG, t) / peak,
		Z: radiance(wavelengthB, t) / peak,
	}
}
