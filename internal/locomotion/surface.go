package locomotion

import (
	"fmt"
	"strings"
)

// Surface tags a collider for angle-threshold and probe purposes.
type Surface uint8

const (
	SurfaceDefault Surface = iota
	SurfaceStairs
	SurfaceDetail
)

var surfaceNames = [...]string{
	SurfaceDefault: "default",
	SurfaceStairs:  "stairs",
	SurfaceDetail:  "detail",
}

func (s Surface) String() string {
	if int(s) < len(surfaceNames) {
		return surfaceNames[s]
	}
	return fmt.Sprintf("surface(%d)", uint8(s))
}

func (s Surface) MarshalText() ([]byte, error) {
	if int(s) >= len(surfaceNames) {
		return nil, fmt.Errorf("unknown surface %d", uint8(s))
	}
	return []byte(surfaceNames[s]), nil
}

func (s *Surface) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range surfaceNames {
		if n == name {
			*s = Surface(i)
			return nil
		}
	}
	return fmt.Errorf("unknown surface %q", string(text))
}

// SurfaceSet is a small membership set of surfaces.
type SurfaceSet []Surface

func AllSurfaces() SurfaceSet {
	all := make(SurfaceSet, len(surfaceNames))
	for i := range surfaceNames {
		all[i] = Surface(i)
	}
	return all
}

func (set SurfaceSet) Contains(s Surface) bool {
	for _, member := range set {
		if member == s {
			return true
		}
	}
	return false
}
