// Package adsorption computes adsorbed-phase quantities from batch
// liquid-phase adsorption measurements.
//
// In a batch experiment only the bulk liquid can be probed, so the two
// conservation laws
//
//	V_in d_in  = V_eq d_eq  + m (Q_A + Q_S)   (total mass)
//	V_in CA_in = V_eq CA_eq + m Q_A           (solute mass)
//
// leave three unknowns (Q_A, Q_S, V_eq) and admit no unique solution. Each
// solver in this package closes the system with one additional relation:
//
//	XS  V_eq = V_in                      (excess adsorption)
//	NS  Q_S  = 0                         (no solvent adsorbs)
//	VC  V_eq = V_in - m Q_A/d_A          (volume change by solute adsorption)
//	PF  V_p  = Q_A/d_A + Q_S/d_S         (pore filling)
//
// All four are closed-form rearrangements, evaluated element-wise over a
// batch of runs, with optional first-order uncertainty propagation.
package adsorption
