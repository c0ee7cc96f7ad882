package shape

import (
	"fmt"
	"strings"
)

// Kind tags the shape family.
type Kind int

const (
	Box Kind = iota
	Cone
	Ellipsoid
	Duck
	Bottle
	Boat
	numKinds
)

var kindNames = [numKinds]string{
	Box:       "box",
	Cone:      "cone",
	Ellipsoid: "ellipsoid",
	Duck:      "duck",
	Bottle:    "bottle",
	Boat:      "boat",
}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps a configuration name onto a Kind.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "cube" || name == "cuboid" {
		return Box, nil
	}
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Kinds lists every supported kind.
func Kinds() []Kind {
	kinds := make([]Kind, 0, numKinds)
	for k := Kind(0); k < numKinds; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// IsCurve reports whether the kind is evaluated from a lookup table.
func (k Kind) IsCurve() bool {
	return k == Bottle || k == Boat
}
