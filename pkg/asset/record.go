package asset

import "time"

// DeviceRecord is one flat device row as delivered by a provider.
// Placement fields may be empty; the tree builder normalizes unplaced
// devices into default locations and areas.
type DeviceRecord struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`

	LocationID   string `json:"location_id,omitempty" yaml:"location_id,omitempty"`
	LocationName string `json:"location_name,omitempty" yaml:"location_name,omitempty"`
	AreaID       string `json:"area_id,omitempty" yaml:"area_id,omitempty"`
	AreaName     string `json:"area_name,omitempty" yaml:"area_name,omitempty"`

	Status       string `json:"status,omitempty" yaml:"status,omitempty"`
	Online       bool   `json:"online" yaml:"online"`
	ProtocolType string `json:"protocol_type,omitempty" yaml:"protocol_type,omitempty"`
	Vendor       string `json:"vendor,omitempty" yaml:"vendor,omitempty"`

	// DataPoints are points delivered inline with their device.
	DataPoints []DataPointRecord `json:"data_points,omitempty" yaml:"data_points,omitempty"`
}

// Valid reports whether the record can be attached to the tree.
func (r DeviceRecord) Valid() bool {
	return r.ID != "" && r.Name != ""
}

// Payload converts the record's operational fields into a node payload.
func (r DeviceRecord) Payload() *DevicePayload {
	return &DevicePayload{
		Status:       r.Status,
		Online:       r.Online,
		ProtocolType: r.ProtocolType,
	}
}

// DataPointRecord is one flat data point row as delivered by a provider.
// DeviceID is only meaningful on standalone records; points nested in a
// DeviceRecord belong to that device.
type DataPointRecord struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`

	DeviceID string `json:"device_id,omitempty" yaml:"device_id,omitempty"`

	Address      string    `json:"address,omitempty" yaml:"address,omitempty"`
	DataType     string    `json:"data_type,omitempty" yaml:"data_type,omitempty"`
	CurrentValue *float64  `json:"current_value,omitempty" yaml:"current_value,omitempty"`
	Unit         string    `json:"unit,omitempty" yaml:"unit,omitempty"`
	LastRead     time.Time `json:"last_read,omitempty" yaml:"last_read,omitempty"`
	ScaleFactor  float64   `json:"scale_factor,omitempty" yaml:"scale_factor,omitempty"`
	Offset       float64   `json:"offset,omitempty" yaml:"offset,omitempty"`
}

// Valid reports whether the record can be attached to the tree.
func (r DataPointRecord) Valid() bool {
	return r.ID != "" && r.Name != ""
}

// Payload converts the record's measurement fields into a node payload.
func (r DataPointRecord) Payload() *PointPayload {
	var value *float64
	if r.CurrentValue != nil {
		v := *r.CurrentValue
		value = &v
	}
	return &PointPayload{
		Address:      r.Address,
		DataType:     r.DataType,
		CurrentValue: value,
		Unit:         r.Unit,
		LastRead:     r.LastRead,
		ScaleFactor:  r.ScaleFactor,
		Offset:       r.Offset,
	}
}
