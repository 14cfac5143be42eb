package render

// Notice palette colors.
const (
	ColorGood = 0x57F287
	ColorBad  = 0xED4245
	ColorWarn = 0xFEE75C
)
