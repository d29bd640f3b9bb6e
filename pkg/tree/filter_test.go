package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantview/plantview-go/pkg/asset"
)

// filterFixture builds:
//
//	L1 "Plant North"
//	  L1:A1 "Pump House"
//	    dev1 "Feed Pump"
//	      dp1 "Flow"
//	    dev2 "Power Meter"
//	      dp2 "Voltage"
//	  L1:A2 "Yard"
//	    dev3 "Gate Sensor"
//	L2 "Plant South"
//	  L2:A1 "Metering"
//	    dev4 "Heat Meter"
func filterFixture(t *testing.T) *Forest {
	t.Helper()
	devices := []asset.DeviceRecord{
		{ID: "dev1", Name: "Feed Pump", LocationID: "L1", LocationName: "Plant North", AreaID: "A1", AreaName: "Pump House"},
		{ID: "dev2", Name: "Power Meter", LocationID: "L1", LocationName: "Plant North", AreaID: "A1", AreaName: "Pump House"},
		{ID: "dev3", Name: "Gate Sensor", LocationID: "L1", LocationName: "Plant North", AreaID: "A2", AreaName: "Yard"},
		{ID: "dev4", Name: "Heat Meter", LocationID: "L2", LocationName: "Plant South", AreaID: "A1", AreaName: "Metering"},
	}
	points := []asset.DataPointRecord{
		{ID: "dp1", Name: "Flow", DeviceID: "dev1"},
		{ID: "dp2", Name: "Voltage", DeviceID: "dev2"},
	}
	f, report := NewBuilder().Build(devices, points)
	require.Zero(t, report.Skipped)
	return f
}

func ids(f *Forest) []string {
	var out []string
	f.Walk(func(n *asset.Node, _ int) { out = append(out, n.ID) })
	return out
}

func TestFilterMatchesWithAncestors(t *testing.T) {
	f := filterFixture(t)

	got := Filter(f, "meter")

	// Both meters match; their ancestor chains are kept, nothing else.
	// L2:A1 "Metering" matches by its own name too.
	assert.ElementsMatch(t, []string{"L1", "L1:A1", "dev2", "L2", "L2:A1", "dev4"}, ids(got))
	assert.NoError(t, got.Verify())

	// A matched device keeps none of its children unless they match
	dev2, _ := got.Node("dev2")
	assert.Empty(t, dev2.Children)
}

func TestFilterMatchKeepsOnlyMatchingChildren(t *testing.T) {
	f := filterFixture(t)

	got := Filter(f, "flow")

	assert.Equal(t, []string{"L1", "L1:A1", "dev1", "dp1"}, ids(got))
}

func TestFilterCaseInsensitive(t *testing.T) {
	f := filterFixture(t)
	assert.Equal(t, ids(Filter(f, "METER")), ids(Filter(f, "meter")))
}

func TestFilterNoMatch(t *testing.T) {
	f := filterFixture(t)

	got := Filter(f, "zzz")
	assert.Zero(t, got.Len())
	assert.Empty(t, got.RootIDs())
}

func TestFilterEmptyQuery(t *testing.T) {
	f := filterFixture(t)

	assert.Same(t, f, Filter(f, ""))
	assert.Same(t, f, Filter(f, "   "))
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	f := filterFixture(t)
	before := f.Snapshot()

	_ = Filter(f, "meter")

	assert.Equal(t, before, f.Snapshot())
}

func TestFilterIdempotent(t *testing.T) {
	f := filterFixture(t)

	once := Filter(f, "meter")
	twice := Filter(once, "meter")

	assert.Equal(t, once.Snapshot(), twice.Snapshot())
}

func TestFilterPreservesChildOrder(t *testing.T) {
	f := filterFixture(t)

	got := Filter(f, "e")

	area, ok := got.Node("L1:A1")
	require.True(t, ok)

	// dev1 and dev2 both match "e"; insertion order must survive
	assert.Equal(t, []string{"dev1", "dev2"}, area.Children)
}
