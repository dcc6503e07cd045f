package optics

// DrivingVector projects the laser onto every atom, returning the Rabi
// amplitude Ωₙ each atom sees.
func DrivingVector(p Problem) []complex128 {
	return p.Laser.Project(p.Atoms, p.K0)
}
