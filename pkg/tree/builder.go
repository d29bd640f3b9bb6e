package tree

import (
	"time"

	"github.com/plantview/plantview-go/pkg/asset"
	"github.com/plantview/plantview-go/pkg/log"
)

// Sentinel identifiers for devices that arrive without placement.
// Normalizing to these keeps every device in the tree.
const (
	DefaultLocationID = "default_location"
	DefaultAreaID     = "default_area"

	DefaultLocationName = "Unassigned"
	DefaultAreaName     = "General"
)

// Metadata keys maintained during assembly.
const (
	// MetaDeviceCount counts devices transitively owned by a Location or Area.
	MetaDeviceCount = "device_count"

	// MetaVendor records the vendor on Device nodes, mirrored from the record.
	MetaVendor = "vendor"
)

// BuildReport summarizes one assembly pass.
type BuildReport struct {
	// Devices is the number of device nodes attached.
	Devices int

	// DataPoints is the number of data point nodes attached.
	DataPoints int

	// Skipped is the number of malformed records rejected
	// (missing id or name, or a duplicate id).
	Skipped int

	// Orphaned is the number of standalone data point records whose
	// owning device is not present in the tree.
	Orphaned int
}

// Builder assembles a Forest from flat provider records.
// A Builder is stateless between Build calls and may be reused.
type Builder struct {
	logger log.Logger
}

// NewBuilder creates a builder with logging disabled.
func NewBuilder() *Builder {
	return NewBuilderWithLogger(log.NoopLogger{})
}

// NewBuilderWithLogger creates a builder that reports assembly passes to
// the given logger.
func NewBuilderWithLogger(logger log.Logger) *Builder {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &Builder{logger: logger}
}

// AreaNodeID returns the forest-unique id for an area. Area identifiers are
// only unique within their location, so the node id is the composite of both.
func AreaNodeID(locationID, areaID string) string {
	return locationID + ":" + areaID
}

// Build converts device and data point records into a Forest.
//
// Locations and Areas are created lazily the first time a device references
// them; iteration follows record order, so the same input always yields the
// same tree. Malformed records (missing id or name) and duplicate ids are
// skipped and counted in the report; they never partially attach.
func (b *Builder) Build(devices []asset.DeviceRecord, points []asset.DataPointRecord) (*Forest, BuildReport) {
	f := New()
	var report BuildReport

	for _, rec := range devices {
		if !rec.Valid() {
			report.Skipped++
			continue
		}

		locID := rec.LocationID
		locName := rec.LocationName
		if locID == "" {
			locID = DefaultLocationID
			if locName == "" {
				locName = DefaultLocationName
			}
		}
		if locName == "" {
			locName = locID
		}

		areaID := rec.AreaID
		areaName := rec.AreaName
		if areaID == "" {
			areaID = DefaultAreaID
			if areaName == "" {
				areaName = DefaultAreaName
			}
		}
		if areaName == "" {
			areaName = areaID
		}
		areaNodeID := AreaNodeID(locID, areaID)

		loc, ok := f.Node(locID)
		if !ok {
			loc = &asset.Node{
				ID:       locID,
				Name:     locName,
				Kind:     asset.KindLocation,
				Metadata: map[string]any{MetaDeviceCount: 0},
			}
			if err := f.Add(loc); err != nil {
				report.Skipped++
				continue
			}
		}

		area, ok := f.Node(areaNodeID)
		if !ok {
			area = &asset.Node{
				ID:       areaNodeID,
				Name:     areaName,
				Kind:     asset.KindArea,
				ParentID: locID,
				Metadata: map[string]any{MetaDeviceCount: 0},
			}
			if err := f.Add(area); err != nil {
				report.Skipped++
				continue
			}
		}

		dev := &asset.Node{
			ID:       rec.ID,
			Name:     rec.Name,
			Kind:     asset.KindDevice,
			ParentID: areaNodeID,
			Device:   rec.Payload(),
		}
		if rec.Vendor != "" {
			dev.Metadata = map[string]any{MetaVendor: rec.Vendor}
		}
		if err := f.Add(dev); err != nil {
			report.Skipped++
			continue
		}
		report.Devices++
		bumpCount(loc)
		bumpCount(area)

		for _, pt := range rec.DataPoints {
			if b.addPoint(f, pt, rec.ID, &report) {
				report.DataPoints++
			}
		}
	}

	for _, pt := range points {
		owner := pt.DeviceID
		if pt.Valid() && !f.Contains(owner) {
			report.Orphaned++
			continue
		}
		if b.addPoint(f, pt, owner, &report) {
			report.DataPoints++
		}
	}

	b.logger.Log(log.Event{
		Timestamp: time.Now(),
		Category:  log.CategoryBuild,
		Build: &log.BuildEvent{
			Devices:    report.Devices,
			DataPoints: report.DataPoints,
			Skipped:    report.Skipped,
			Orphaned:   report.Orphaned,
		},
	})

	return f, report
}

// addPoint attaches one data point under deviceID. Returns true if attached;
// malformed or duplicate records increment the skip count instead.
func (b *Builder) addPoint(f *Forest, rec asset.DataPointRecord, deviceID string, report *BuildReport) bool {
	if !rec.Valid() {
		report.Skipped++
		return false
	}
	n := &asset.Node{
		ID:       rec.ID,
		Name:     rec.Name,
		Kind:     asset.KindDataPoint,
		ParentID: deviceID,
		Point:    rec.Payload(),
	}
	if err := f.Add(n); err != nil {
		report.Skipped++
		return false
	}
	return true
}

func bumpCount(n *asset.Node) {
	if n.Metadata == nil {
		n.Metadata = map[string]any{}
	}
	count, _ := n.Metadata[MetaDeviceCount].(int)
	n.Metadata[MetaDeviceCount] = count + 1
}
