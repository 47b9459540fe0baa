// Package state names the entries of a 36 element pose state vector.
//
// The vector is made of up to three 12 element blocks: pose, velocity and
// acceleration. Each block holds a position triad followed by the right (i),
// forward (j) and up (k) orientation basis vectors:
//
//	 0  1  2   3   4   5   6   7   8   9  10  11
//	 x  y  z  ix  iy  iz  jx  jy  jz  kx  ky  kz
//	vx vy vz vix viy viz vjx vjy vjz vkx vky vkz   (+12)
//	ax ay az aix aiy aiz ajx ajy ajz akx aky akz   (+24)
//
// The filter treats the state as opaque: these are labels for callers only.
package state

import (
	"fmt"

	"github.com/deepdive/go-kalman/matrix"
)

// Block sizes and supported state dimensions.
const (
	// BlockSize is the number of entries in each block.
	BlockSize = 12
	// PoseDim is the dimension of a position and orientation state.
	PoseDim = BlockSize
	// PoseVelDim is the dimension of a pose state extended with velocities.
	PoseVelDim = 2 * BlockSize
	// FullDim is the dimension of a pose state extended with velocities and accelerations.
	FullDim = 3 * BlockSize
)

// Block offsets into the state vector.
const (
	Pose         = 0
	Velocity     = BlockSize
	Acceleration = 2 * BlockSize
)

// Block-relative offsets of the position and basis triads.
const (
	Pos     = 0
	Right   = 3
	Forward = 6
	Up      = 9
)

// Axis is a component of a triad.
type Axis int

// Triad components.
const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Absolute pose indices.
const (
	X = Pose + Pos + iota
	Y
	Z
	IX
	IY
	IZ
	JX
	JY
	JZ
	KX
	KY
	KZ
)

// Absolute velocity indices.
const (
	VX = Velocity + Pos + iota
	VY
	VZ
	VIX
	VIY
	VIZ
	VJX
	VJY
	VJZ
	VKX
	VKY
	VKZ
)

// Absolute acceleration indices.
const (
	AX = Acceleration + Pos + iota
	AY
	AZ
	AIX
	AIY
	AIZ
	AJX
	AJY
	AJZ
	AKX
	AKY
	AKZ
)

// Index returns the absolute index of axis a of the triad at offset tri in block.
func Index(block, tri int, a Axis) int {
	return block + tri + int(a)
}

// Blocks returns the number of blocks a state of dimension dim holds.
// It returns error unless dim is one of PoseDim, PoseVelDim or FullDim.
func Blocks(dim int) (int, error) {
	switch dim {
	case PoseDim, PoseVelDim, FullDim:
		return dim / BlockSize, nil
	}

	return 0, fmt.Errorf("unsupported state dimension %d: %w", dim, matrix.ErrInvalidDimension)
}

// Triad returns the triad at offset tri in block of x.
func Triad(x *matrix.Vec, block, tri int) [3]float64 {
	i := block + tri
	return [3]float64{x[i], x[i+1], x[i+2]}
}

// SetTriad sets the triad at offset tri in block of x to v.
func SetTriad(x *matrix.Vec, block, tri int, v [3]float64) {
	copy(x[block+tri:block+tri+3], v[:])
}

// Position returns the position triad of block.
func Position(x *matrix.Vec, block int) [3]float64 {
	return Triad(x, block, Pos)
}

// SetPosition sets the position triad of block.
func SetPosition(x *matrix.Vec, block int, v [3]float64) {
	SetTriad(x, block, Pos, v)
}

// Basis returns the right, forward and up basis vectors of block.
func Basis(x *matrix.Vec, block int) (right, forward, up [3]float64) {
	return Triad(x, block, Right), Triad(x, block, Forward), Triad(x, block, Up)
}

// SetBasis sets the right, forward and up basis vectors of block.
func SetBasis(x *matrix.Vec, block int, right, forward, up [3]float64) {
	SetTriad(x, block, Right, right)
	SetTriad(x, block, Forward, forward)
	SetTriad(x, block, Up, up)
}

// Identity sets the pose block of x to the origin with an axis aligned basis
// and zeroes every other entry up to dim.
func Identity(x *matrix.Vec, dim int) error {
	if _, err := Blocks(dim); err != nil {
		return err
	}

	clear(x[:dim])
	x[IX], x[JY], x[KZ] = 1, 1, 1

	return nil
}

var names = [FullDim]string{
	"x", "y", "z", "ix", "iy", "iz", "jx", "jy", "jz", "kx", "ky", "kz",
	"vx", "vy", "vz", "vix", "viy", "viz", "vjx", "vjy", "vjz", "vkx", "vky", "vkz",
	"ax", "ay", "az", "aix", "aiy", "aiz", "ajx", "ajy", "ajz", "akx", "aky", "akz",
}

// Name returns the label of state entry i, e.g. "vx" for VX.
// It returns an empty string if i is out of range.
func Name(i int) string {
	if i < 0 || i >= FullDim {
		return ""
	}

	return names[i]
}
