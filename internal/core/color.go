package core

// Color is a terminal color in "#rrggbb" form, or an ANSI 256 index like "245".
// The empty Color means the terminal default.
type Color string

// Colors shared by the adapters.
const (
	ColorDefault Color = ""
	ColorBoard   Color = "#bbada0"
	ColorSlot    Color = "#cdc1b4"
	ColorText    Color = "#776e65"
	ColorLight   Color = "#f9f6f2"
	ColorGray    Color = "245"
)
