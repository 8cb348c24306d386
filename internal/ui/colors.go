package ui

// Color helpers return the escape code of the active theme, or "" when colors
// are disabled.

// ColorTitle returns the title color.
func ColorTitle() string { return GetCurrentTheme().Title }

// ColorAxis returns the axis color.
func ColorAxis() string { return GetCurrentTheme().Axis }

// ColorBar returns the histogram bar color.
func ColorBar() string { return GetCurrentTheme().Bar }

// ColorValue returns the highlight color for values.
func ColorValue() string { return GetCurrentTheme().Value }

// ColorSuccess returns the success color.
func ColorSuccess() string { return GetCurrentTheme().Success }

// ColorWarning returns the warning color.
func ColorWarning() string { return GetCurrentTheme().Warning }

// ColorError returns the error color.
func ColorError() string { return GetCurrentTheme().Error }

// ColorDim returns the color of secondary text.
func ColorDim() string { return GetCurrentTheme().Dim }

// ColorBold returns the bold attribute.
func ColorBold() string { return GetCurrentTheme().Bold }

// ColorReset clears all attributes.
func ColorReset() string { return GetCurrentTheme().Reset }
