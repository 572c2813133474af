package nscp

import "math"

// NSCP 2015 Material Constants

const (
	// Modulus of elasticity for nonprestressed reinforcement (Section 420.2.2.2)
	Es = 200000.0 // MPa

	// Poisson's ratio used for isotropic material definitions
	PoissonConcrete = 0.2
	PoissonSteel    = 0.3

	// Coefficients of thermal expansion (1/°C)
	ThermalConcrete = 9.9e-6
	ThermalSteel    = 1.17e-5

	// Ratio of specified tensile to yield strength for ASTM A615 Grade 60 bars
	// (fu = 620 MPa for fy = 414 MPa)
	RebarTensileRatio = 1.5

	// MPaToKNPerM2 converts MPa to kN/m², the stress unit of a kN-m model
	MPaToKNPerM2 = 1000.0
)

// ConcreteModulus calculates the modulus of elasticity of normal-weight concrete
// NSCP 2015 Section 419.2.2.1: Ec = 4700√f'c (MPa)
func ConcreteModulus(fc float64) float64 {
	if fc <= 0 {
		return 0
	}
	return 4700 * math.Sqrt(fc)
}

// RebarTensileStrength estimates fu from fy for A615 Grade 60 reinforcement
func RebarTensileStrength(fy float64) float64 {
	return fy * RebarTensileRatio
}
