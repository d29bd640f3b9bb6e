package asset

import "time"

// NodeView is the read-only nested counterpart of Node. Views are deep
// copies detached from the forest: holding one across a reload is safe.
//
// CBOR uses integer keys for compact snapshots; JSON uses snake_case.
type NodeView struct {
	ID       string         `cbor:"1,keyasint" json:"id"`
	Name     string         `cbor:"2,keyasint" json:"name"`
	Kind     Kind           `cbor:"3,keyasint" json:"kind"`
	Metadata map[string]any `cbor:"4,keyasint,omitempty" json:"metadata,omitempty"`
	Device   *DeviceView    `cbor:"5,keyasint,omitempty" json:"device,omitempty"`
	Point    *PointView     `cbor:"6,keyasint,omitempty" json:"point,omitempty"`
	Children []*NodeView    `cbor:"7,keyasint,omitempty" json:"children,omitempty"`
}

// DeviceView mirrors DevicePayload for serialization.
type DeviceView struct {
	Status       string `cbor:"1,keyasint,omitempty" json:"status,omitempty"`
	Online       bool   `cbor:"2,keyasint" json:"online"`
	ProtocolType string `cbor:"3,keyasint,omitempty" json:"protocol_type,omitempty"`
}

// PointView mirrors PointPayload for serialization.
type PointView struct {
	Address      string    `cbor:"1,keyasint,omitempty" json:"address,omitempty"`
	DataType     string    `cbor:"2,keyasint,omitempty" json:"data_type,omitempty"`
	CurrentValue *float64  `cbor:"3,keyasint,omitempty" json:"current_value,omitempty"`
	Unit         string    `cbor:"4,keyasint,omitempty" json:"unit,omitempty"`
	LastRead     time.Time `cbor:"5,keyasint,omitempty" json:"last_read,omitempty"`
	ScaleFactor  float64   `cbor:"6,keyasint,omitempty" json:"scale_factor,omitempty"`
	Offset       float64   `cbor:"7,keyasint,omitempty" json:"offset,omitempty"`
}

// View returns a deep read-only copy of the node, without children.
// The forest fills Children when producing nested snapshots.
func (n *Node) View() *NodeView {
	v := &NodeView{
		ID:   n.ID,
		Name: n.Name,
		Kind: n.Kind,
	}
	if n.Metadata != nil {
		v.Metadata = make(map[string]any, len(n.Metadata))
		for k, val := range n.Metadata {
			v.Metadata[k] = val
		}
	}
	if n.Device != nil {
		v.Device = &DeviceView{
			Status:       n.Device.Status,
			Online:       n.Device.Online,
			ProtocolType: n.Device.ProtocolType,
		}
	}
	if n.Point != nil {
		var value *float64
		if n.Point.CurrentValue != nil {
			cv := *n.Point.CurrentValue
			value = &cv
		}
		v.Point = &PointView{
			Address:      n.Point.Address,
			DataType:     n.Point.DataType,
			CurrentValue: value,
			Unit:         n.Point.Unit,
			LastRead:     n.Point.LastRead,
			ScaleFactor:  n.Point.ScaleFactor,
			Offset:       n.Point.Offset,
		}
	}
	return v
}

// Node converts the view back into a detached node, without parent or
// child links. Used when importing serialized snapshots.
func (v *NodeView) Node() *Node {
	n := &Node{
		ID:   v.ID,
		Name: v.Name,
		Kind: v.Kind,
	}
	if v.Metadata != nil {
		n.Metadata = make(map[string]any, len(v.Metadata))
		for k, val := range v.Metadata {
			n.Metadata[k] = val
		}
	}
	if v.Device != nil {
		n.Device = &DevicePayload{
			Status:       v.Device.Status,
			Online:       v.Device.Online,
			ProtocolType: v.Device.ProtocolType,
		}
	}
	if v.Point != nil {
		var value *float64
		if v.Point.CurrentValue != nil {
			cv := *v.Point.CurrentValue
			value = &cv
		}
		n.Point = &PointPayload{
			Address:      v.Point.Address,
			DataType:     v.Point.DataType,
			CurrentValue: value,
			Unit:         v.Point.Unit,
			LastRead:     v.Point.LastRead,
			ScaleFactor:  v.Point.ScaleFactor,
			Offset:       v.Point.Offset,
		}
	}
	return n
}
