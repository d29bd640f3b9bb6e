package asset

// Kind identifies a node's level in the asset hierarchy.
type Kind uint8

const (
	// KindLocation is a physical site, the root level.
	KindLocation Kind = iota

	// KindArea is a zone within a location.
	KindArea

	// KindDevice is a piece of equipment within an area.
	KindDevice

	// KindDataPoint is a single measured or controlled value on a device.
	KindDataPoint
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindLocation:
		return "location"
	case KindArea:
		return "area"
	case KindDevice:
		return "device"
	case KindDataPoint:
		return "data_point"
	default:
		return "unknown"
	}
}

// Valid returns true for the four defined kinds.
func (k Kind) Valid() bool {
	return k <= KindDataPoint
}

// Rank returns the depth of the kind in the hierarchy, 0 for Location.
func (k Kind) Rank() int {
	return int(k)
}

// ChildKind returns the kind allowed directly under k.
// ok is false for KindDataPoint, which is a leaf.
func (k Kind) ChildKind() (child Kind, ok bool) {
	if !k.Valid() || k == KindDataPoint {
		return 0, false
	}
	return k + 1, true
}

// ParentKind returns the kind allowed directly above k.
// ok is false for KindLocation, which is a root.
func (k Kind) ParentKind() (parent Kind, ok bool) {
	if !k.Valid() || k == KindLocation {
		return 0, false
	}
	return k - 1, true
}
