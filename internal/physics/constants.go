package physics

const (
	DefaultBodyWidth  = 0.6
	DefaultBodyHeight = 1.8

	// TouchDistance is how far a resting body probes its faces for
	// collision-stay contacts.
	TouchDistance = 1e-3

	CollisionAxisTolerance = 1e-9
)
