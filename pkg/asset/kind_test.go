package asset

import "testing"

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindLocation, "location"},
		{KindArea, "area"},
		{KindDevice, "device"},
		{KindDataPoint, "data_point"},
		{Kind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestKindChildKind(t *testing.T) {
	tests := []struct {
		kind  Kind
		child Kind
		ok    bool
	}{
		{KindLocation, KindArea, true},
		{KindArea, KindDevice, true},
		{KindDevice, KindDataPoint, true},
		{KindDataPoint, 0, false},
		{Kind(99), 0, false},
	}
	for _, tt := range tests {
		child, ok := tt.kind.ChildKind()
		if ok != tt.ok || (ok && child != tt.child) {
			t.Errorf("%s.ChildKind() = (%v, %v), want (%v, %v)", tt.kind, child, ok, tt.child, tt.ok)
		}
	}
}

func TestKindParentKind(t *testing.T) {
	tests := []struct {
		kind   Kind
		parent Kind
		ok     bool
	}{
		{KindLocation, 0, false},
		{KindArea, KindLocation, true},
		{KindDevice, KindArea, true},
		{KindDataPoint, KindDevice, true},
		{Kind(99), 0, false},
	}
	for _, tt := range tests {
		parent, ok := tt.kind.ParentKind()
		if ok != tt.ok || (ok && parent != tt.parent) {
			t.Errorf("%s.ParentKind() = (%v, %v), want (%v, %v)", tt.kind, parent, ok, tt.parent, tt.ok)
		}
	}
}

func TestKindRank(t *testing.T) {
	for i, k := range []Kind{KindLocation, KindArea, KindDevice, KindDataPoint} {
		if k.Rank() != i {
			t.Errorf("%s.Rank() = %d, want %d", k, k.Rank(), i)
		}
	}
}

func TestKindValid(t *testing.T) {
	if !KindDataPoint.Valid() {
		t.Error("KindDataPoint should be valid")
	}
	if Kind(4).Valid() {
		t.Error("Kind(4) should not be valid")
	}
}
