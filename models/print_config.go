package models

// ColorMode values
const (
	ColorModeMonochrome = "bw"
	ColorModeColor      = "color"
)

// Orientation values
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// PageSelection values
const (
	PageSelectionAll      = "all"
	PageSelectionSpecific = "specific"
)

// Sided values
const (
	SidedSingle = "single"
	SidedDouble = "double"
)

// PageSize values
const (
	PageSizeA4     = "a4"
	PageSizeLetter = "letter"
	PageSizeLegal  = "legal"
)

// PrintConfig represents the print parameters chosen for a single file
// Example: {"color": "bw", "orientation": "portrait", "pagesToPrint": "specific", "specificRange": "1-5, 8",
// "sided": "double", "copies": 2, "pageSize": "a4", "remarks": "staple", "totalPrice": 24, "configured": true}
type PrintConfig struct {
	ColorMode     string  `json:"color"`
	Orientation   string  `json:"orientation"`
	PageSelection string  `json:"pagesToPrint"`
	SpecificRange string  `json:"specificRange"` // Only meaningful when PageSelection is "specific"
	Sided         string  `json:"sided"`
	Copies        int     `json:"copies"`
	PageSize      string  `json:"pageSize"`
	Remarks       string  `json:"remarks"`
	TotalPrice    float64 `json:"totalPrice"` // Derived, recomputed on every save
	Configured    bool    `json:"configured"` // True once saved at least once
}

// DefaultPrintConfig returns the configuration every newly admitted file starts with
func DefaultPrintConfig() PrintConfig {
	return PrintConfig{
		ColorMode:     ColorModeMonochrome,
		Orientation:   OrientationPortrait,
		PageSelection: PageSelectionAll,
		Sided:         SidedSingle,
		Copies:        1,
		PageSize:      PageSizeA4,
	}
}

var validColorModes = map[string]bool{
	ColorModeMonochrome: true,
	ColorModeColor:      true,
}

var validOrientations = map[string]bool{
	OrientationPortrait:  true,
	OrientationLandscape: true,
}

var validPageSelections = map[string]bool{
	PageSelectionAll:      true,
	PageSelectionSpecific: true,
}

var validSided = map[string]bool{
	SidedSingle: true,
	SidedDouble: true,
}

var validPageSizes = map[string]bool{
	PageSizeA4:     true,
	PageSizeLetter: true,
	PageSizeLegal:  true,
}

// IsValidColorMode reports whether mode is a known color mode
func IsValidColorMode(mode string) bool { return validColorModes[mode] }

// IsValidOrientation reports whether o is a known orientation
func IsValidOrientation(o string) bool { return validOrientations[o] }

// IsValidPageSelection reports whether s is a known page selection mode
func IsValidPageSelection(s string) bool { return validPageSelections[s] }

// IsValidSided reports whether s is a known duplex setting
func IsValidSided(s string) bool { return validSided[s] }

// IsValidPageSize reports whether s is a known page size
func IsValidPageSize(s string) bool { return validPageSizes[s] }

// SaveConfigRequest represents the request body for saving or quoting a file configuration
// Example: {"color": "color", "orientation": "landscape", "pagesToPrint": "all", "sided": "single",
// "copies": 3, "pageSize": "letter", "remarks": ""}
type SaveConfigRequest struct {
	ColorMode     string `json:"color"`
	Orientation   string `json:"orientation"`
	PageSelection string `json:"pagesToPrint"`
	SpecificRange string `json:"specificRange"`
	Sided         string `json:"sided"`
	Copies        int    `json:"copies"`
	PageSize      string `json:"pageSize"`
	Remarks       string `json:"remarks"`
}

// ToPrintConfig converts the request into a PrintConfig candidate (price not yet computed).
// An omitted copies field means one copy.
func (r SaveConfigRequest) ToPrintConfig() PrintConfig {
	copies := r.Copies
	if copies == 0 {
		copies = 1
	}
	return PrintConfig{
		ColorMode:     r.ColorMode,
		Orientation:   r.Orientation,
		PageSelection: r.PageSelection,
		SpecificRange: r.SpecificRange,
		Sided:         r.Sided,
		Copies:        copies,
		PageSize:      r.PageSize,
		Remarks:       r.Remarks,
	}
}
