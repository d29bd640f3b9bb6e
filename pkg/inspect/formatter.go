package inspect

import (
	"fmt"
	"strings"

	"github.com/plantview/plantview-go/pkg/asset"
)

// Formatter formats tree views as indented text.
type Formatter struct {
	// ShowIDs includes node ids alongside names
	ShowIDs bool

	// ShowValues includes current values and units on data points
	ShowValues bool

	// ShowCounts includes device counts on locations and areas
	ShowCounts bool

	// IndentWidth is the number of spaces per indent level
	IndentWidth int
}

// NewFormatter creates a new Formatter with default settings.
func NewFormatter() *Formatter {
	return &Formatter{
		ShowIDs:     false,
		ShowValues:  true,
		ShowCounts:  true,
		IndentWidth: 2,
	}
}

// Format renders a full tree snapshot, one node per line.
func (f *Formatter) Format(views []*asset.NodeView) string {
	var sb strings.Builder
	for _, v := range views {
		f.formatInto(&sb, v, 0)
	}
	return sb.String()
}

// FormatNode renders a single node line without its children.
func (f *Formatter) FormatNode(v *asset.NodeView) string {
	parts := []string{kindGlyph(v.Kind), v.Name}

	if f.ShowIDs {
		parts = append(parts, fmt.Sprintf("(%s)", v.ID))
	}

	if f.ShowCounts && v.Metadata != nil {
		if count, ok := v.Metadata["device_count"].(int); ok {
			parts = append(parts, fmt.Sprintf("[%d devices]", count))
		}
	}

	if v.Device != nil {
		state := "offline"
		if v.Device.Online {
			state = "online"
		}
		if v.Device.Status != "" {
			state = state + ", " + v.Device.Status
		}
		parts = append(parts, fmt.Sprintf("<%s>", state))
		if v.Device.ProtocolType != "" {
			parts = append(parts, v.Device.ProtocolType)
		}
	}

	if f.ShowValues && v.Point != nil {
		parts = append(parts, formatValue(v.Point))
	}

	return strings.Join(parts, " ")
}

func (f *Formatter) formatInto(sb *strings.Builder, v *asset.NodeView, depth int) {
	width := f.IndentWidth
	if width == 0 {
		width = 2
	}
	sb.WriteString(strings.Repeat(" ", depth*width))
	sb.WriteString(f.FormatNode(v))
	sb.WriteByte('\n')

	for _, c := range v.Children {
		f.formatInto(sb, c, depth+1)
	}
}

// kindGlyph returns a short marker for the node kind.
func kindGlyph(k asset.Kind) string {
	switch k {
	case asset.KindLocation:
		return "[L]"
	case asset.KindArea:
		return "[A]"
	case asset.KindDevice:
		return "[D]"
	case asset.KindDataPoint:
		return "[P]"
	default:
		return "[?]"
	}
}

func formatValue(p *asset.PointView) string {
	if p.CurrentValue == nil {
		return "= -"
	}
	if p.Unit != "" {
		return fmt.Sprintf("= %g %s", *p.CurrentValue, p.Unit)
	}
	return fmt.Sprintf("= %g", *p.CurrentValue)
}
