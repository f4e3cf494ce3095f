package core

// Color is a terminal foreground color: an ANSI 256-color number or a hex
// string such as "#a63fd6". The empty Color is the terminal default.
type Color string

// Predefined colors for board elements and panels.
const (
	ColorDefault       Color = ""
	ColorRed           Color = "1"
	ColorGreen         Color = "2"
	ColorYellow        Color = "3"
	ColorBlue          Color = "4"
	ColorMagenta       Color = "5"
	ColorCyan          Color = "6"
	ColorWhite         Color = "7"
	ColorBrightRed     Color = "9"
	ColorBrightGreen   Color = "10"
	ColorBrightYellow  Color = "11"
	ColorBrightBlue    Color = "12"
	ColorBrightMagenta Color = "13"
	ColorBrightCyan    Color = "14"
	ColorBrightWhite   Color = "15"
	ColorOrange        Color = "208"
	ColorGray          Color = "245"
)

// Or returns c, or fallback when c is the default color.
func (c Color) Or(fallback Color) Color {
	if c == ColorDefault {
		return fallback
	}
	return c
}
