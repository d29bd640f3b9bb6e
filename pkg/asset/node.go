package asset

import "time"

// DevicePayload is the operational state carried by Device nodes.
type DevicePayload struct {
	// Status is the gateway-reported device status ("running", "fault", ...).
	Status string

	// Online reports whether the device is currently reachable.
	Online bool

	// ProtocolType names the field protocol ("modbus", "opcua", "bacnet", ...).
	ProtocolType string
}

// PointPayload is the measurement state carried by DataPoint nodes.
type PointPayload struct {
	// Address is the protocol-level register or tag address.
	Address string

	// DataType is the wire type of the value ("float", "int", "bool", ...).
	DataType string

	// CurrentValue is the last raw reading; nil if never read.
	CurrentValue *float64

	// Unit is the engineering unit of the scaled value.
	Unit string

	// LastRead is when CurrentValue was sampled; zero if never read.
	LastRead time.Time

	// ScaleFactor and Offset map the raw value to engineering units:
	// scaled = raw*ScaleFactor + Offset. A zero ScaleFactor means 1.
	ScaleFactor float64
	Offset      float64
}

// ScaledValue returns the current value in engineering units, or nil if
// the point has never been read.
func (p *PointPayload) ScaledValue() *float64 {
	if p.CurrentValue == nil {
		return nil
	}
	scale := p.ScaleFactor
	if scale == 0 {
		scale = 1
	}
	v := *p.CurrentValue*scale + p.Offset
	return &v
}

// Node is one node of the asset tree. Structure is kept as an id arena:
// ParentID and Children hold node ids, never pointers, so a node can be
// relinked without touching its subtree.
//
// Nodes are owned by a tree.Forest and must only be mutated through it.
type Node struct {
	ID   string
	Name string
	Kind Kind

	// ParentID is empty for roots.
	ParentID string

	// Children holds the ids of direct children in insertion order.
	Children []string

	// Device is set on KindDevice nodes only.
	Device *DevicePayload

	// Point is set on KindDataPoint nodes only.
	Point *PointPayload

	// Metadata holds auxiliary values such as device counts.
	Metadata map[string]any
}

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool {
	return n.ParentID == ""
}

// HasChild reports whether id is a direct child of the node.
func (n *Node) HasChild(id string) bool {
	for _, cid := range n.Children {
		if cid == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	c := &Node{
		ID:       n.ID,
		Name:     n.Name,
		Kind:     n.Kind,
		ParentID: n.ParentID,
	}
	if n.Children != nil {
		c.Children = append([]string(nil), n.Children...)
	}
	if n.Device != nil {
		d := *n.Device
		c.Device = &d
	}
	if n.Point != nil {
		p := *n.Point
		if n.Point.CurrentValue != nil {
			v := *n.Point.CurrentValue
			p.CurrentValue = &v
		}
		c.Point = &p
	}
	if n.Metadata != nil {
		c.Metadata = make(map[string]any, len(n.Metadata))
		for k, v := range n.Metadata {
			c.Metadata[k] = v
		}
	}
	return c
}
