package math

import "fmt"

type RotationUnit uint8

const (
	RotationDegrees RotationUnit = iota
	RotationRadians
)

// Rotation is an angle stored in the unit it was created with. Conversions
// happen on read and the value is never wrapped into [0, 360) or [0, 2π).
// The zero value is a rotation of 0 degrees.
type Rotation struct {
	Unit  RotationUnit
	Value float32
}

func Degrees(value float32) Rotation {
	return Rotation{Unit: RotationDegrees, Value: value}
}

func Radians(value float32) Rotation {
	return Rotation{Unit: RotationRadians, Value: value}
}

func (r Rotation) Degrees() float32 {
	if r.Unit == RotationRadians {
		return RadToDeg(r.Value)
	}
	return r.Value
}

func (r Rotation) Radians() float32 {
	if r.Unit == RotationRadians {
		return r.Value
	}
	return DegToRad(r.Value)
}

func (r Rotation) IsZero() bool {
	return r.Value == 0
}

func (r Rotation) String() string {
	if r.Unit == RotationRadians {
		return fmt.Sprintf("%grad", r.Value)
	}
	return fmt.Sprintf("%gdeg", r.Value)
}
