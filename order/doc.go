// Package order enumerates the Cartesian components of a Gaussian shell.
//
// A shell of angular-momentum degree L has (L+1)(L+2)/2 Cartesian
// components x^a y^b z^c with a+b+c = L. Every consumer of a shell's
// Cartesian rows (the emitted kernels, the spherical transform, callers
// reading the output bundle) must agree on which row holds which
// component. That agreement is a Convention:
//
//   - Row: lexical order, x exponent descending then y descending
//     (xx, xy, xz, yy, yz, zz).
//   - Molden: the fixed tables of the Molden file format (L <= 4).
//
// Enumerate always walks components in lexical order and reports the row
// each one occupies under the requested convention.
package order
