// Package mat4 provides an efficient scalar 4x4 matrix inverse. It is an
// independent numeric routine sharing nothing with the generator packages.
package mat4

import "math"

// epsilon is the determinant threshold below which a matrix is treated as
// singular.
const epsilon = 2.220446049250313e-16

// Invert replaces m with its inverse, using the first row of co-factors for
// the determinant and reusing the intermediate values for the columns of the
// inverse (90 multiplies total, branch-free past the singularity test).
//
// It returns false, leaving m unmodified, when the matrix is determined to be
// singular. Running sums of signed terms are used throughout, so results are
// subject to cancellation error on badly conditioned input.
func Invert(m *[4][4]float64) bool {
	m30, m31, m32, m33 := m[3][0], m[3][1], m[3][2], m[3][3]
	m20, m21, m22, m23 := m[2][0], m[2][1], m[2][2], m[2][3]

	d01 := m20*m31 - m30*m21
	d12 := m21*m32 - m31*m22
	d23 := m22*m33 - m32*m23
	d30 := m23*m30 - m33*m20
	d02 := m20*m32 - m30*m22
	d13 := m21*m33 - m31*m23

	m10, m11, m12, m13 := m[1][0], m[1][1], m[1][2], m[1][3]

	c00 := +(m11*d23 - m12*d13 + m13*d12)
	c01 := -(m12*d30 + m13*d02 + m10*d23)
	c02 := +(m13*d01 + m10*d13 + m11*d30)
	c03 := -(m10*d12 - m11*d02 + m12*d01)

	m00, m01, m02, m03 := m[0][0], m[0][1], m[0][2], m[0][3]

	det := m00*c00 + m01*c01 + m02*c02 + m03*c03
	if math.Abs(det) < epsilon {
		return false
	}
	det = 1 / det

	m[0][0] = c00 * det
	m[1][0] = c01 * det
	m[2][0] = c02 * det
	m[3][0] = c03 * det

	m[0][1] = -(m01*d23 - m02*d13 + m03*d12) * det
	m[1][1] = +(m02*d30 + m03*d02 + m00*d23) * det
	m[2][1] = -(m03*d01 + m00*d13 + m01*d30) * det
	m[3][1] = +(m00*d12 - m01*d02 + m02*d01) * det

	d01 = (m00*m11 - m10*m01) * det
	d12 = (m01*m12 - m11*m02) * det
	d23 = (m02*m13 - m12*m03) * det
	d30 = (m03*m10 - m13*m00) * det
	d02 = (m00*m12 - m10*m02) * det
	d13 = (m01*m13 - m11*m03) * det

	m[0][2] = +(m31*d23 - m32*d13 + m33*d12)
	m[1][2] = -(m32*d30 + m33*d02 + m30*d23)
	m[2][2] = +(m33*d01 + m30*d13 + m31*d30)
	m[3][2] = -(m30*d12 - m31*d02 + m32*d01)

	m[0][3] = -(m21*d23 - m22*d13 + m23*d12)
	m[1][3] = +(m22*d30 + m23*d02 + m20*d23)
	m[2][3] = -(m23*d01 + m20*d13 + m21*d30)
	m[3][3] = +(m20*d12 - m21*d02 + m22*d01)

	return true
}
