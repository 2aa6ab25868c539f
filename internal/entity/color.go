package entity

// Color is a palette entry shared by status and stage badges and charts.
type Color string

const (
	ColorBlue   Color = "blue"
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorRed    Color = "red"
	ColorPurple Color = "purple"
	ColorOrange Color = "orange"
	ColorGray   Color = "gray"
)

// Hex is the chart color (tailwind 500 shades).
func (c Color) Hex() string {
	switch c {
	case ColorBlue:
		return "#3B82F6"
	case ColorYellow:
		return "#EAB308"
	case ColorGreen:
		return "#22C55E"
	case ColorRed:
		return "#EF4444"
	case ColorPurple:
		return "#8B5CF6"
	case ColorOrange:
		return "#F97316"
	case ColorGray:
		return "#6B7280"
	}
	return "#6B7280"
}

// Badge is the css class pair for a status/stage badge.
func (c Color) Badge() string {
	return "bg-" + string(c) + "-100 text-" + string(c) + "-800"
}
