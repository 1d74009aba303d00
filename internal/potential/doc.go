// Package potential provides the force-field potential models.
//
// Each model implements [Model], pairing a closed-form potential with the
// force derived from it, the parameter domain its sliders cover, fixed
// chart axes and a schematic interaction diagram:
//
//   - [Bond]: harmonic bond stretch
//   - [Angle]: harmonic bond angle bend
//   - [LennardJones]: 12-6 non-bonded van der Waals interaction
//   - [Coulomb]: screened electrostatic interaction
//
// # Units
//
// Bond, Angle and Lennard-Jones forces are reported in N/mol: the
// kJ/(mol·Å) derivative is multiplied by [MolarForceFactor]. Coulomb
// forces are per particle in newtons and are not scaled.
//
// # Singularities
//
// The functions do not guard against r = 0. Infinite or NaN results are
// propagated; [Evaluate] turns them into [ErrDivisionSingularity].
//
//	m := potential.NewLennardJones()
//	p := potential.DefaultParams(m.Domain())
//	s, err := potential.Evaluate(m, p)
package potential
