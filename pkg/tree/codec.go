package tree

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/plantview/plantview-go/pkg/asset"
)

// snapEncMode is the CBOR encoder mode for forest snapshots.
// Canonical sort keeps exports byte-deterministic for identical trees.
var snapEncMode cbor.EncMode

// snapDecMode is the CBOR decoder mode for forest snapshots.
var snapDecMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	snapEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create snapshot CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyQuiet,
		IndefLength: cbor.IndefLengthAllowed,
	}
	snapDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create snapshot CBOR decoder mode: %v", err))
	}
}

// ExportCBOR serializes the forest snapshot to CBOR bytes.
func ExportCBOR(f *Forest) ([]byte, error) {
	return snapEncMode.Marshal(f.Snapshot())
}

// ImportCBOR rebuilds a forest from CBOR bytes produced by ExportCBOR.
// The rebuilt forest is verified before being returned.
func ImportCBOR(data []byte) (*Forest, error) {
	var views []*asset.NodeView
	if err := snapDecMode.Unmarshal(data, &views); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	f := New()
	for _, v := range views {
		if err := importView(f, v, ""); err != nil {
			return nil, err
		}
	}
	if err := f.Verify(); err != nil {
		return nil, fmt.Errorf("imported snapshot is inconsistent: %w", err)
	}
	return f, nil
}

func importView(f *Forest, v *asset.NodeView, parentID string) error {
	n := v.Node()
	n.ParentID = parentID
	if err := f.Add(n); err != nil {
		return fmt.Errorf("failed to attach %q: %w", v.ID, err)
	}
	for _, c := range v.Children {
		if err := importView(f, c, v.ID); err != nil {
			return err
		}
	}
	return nil
}
