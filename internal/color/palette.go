package color

// CrayonColors is the swatch grid offered for notebook colors.
var CrayonColors = []string{
	"#ED0A3F", "#C32148", "#FD0E35", "#CB4154",
	"#FF681F", "#FFB97B", "#FBE870", "#01A638",
	"#0066FF", "#8359A3", "#AF593E", "#000000",
	"#FFFFFF", "#FFA6C9", "#F7468A", "#FF681F",
	"#BB3385", "#FFAE42", "#ACBF60", "#00B7A9",
	"#6456B7", "#D99A6C", "#8B8680", "#FDD5B1",
	"#02A4D3", "#FED85D", "#B0E313", "#5D76CB",
	"#F653A6", "#CA3435", "#FEBAAD", "#B99B6B",
	"#FFCBA4", "#C3CDE6", "#01786F", "#843179",
	"#D27D46", "#665233", "#FF91A4", "#93DFB8",
	"#9E5B40", "#A6AAAE", "#ECEBBD", "#D8BFD8",
	"#6CDAE7", "#7A89B8", "#C9A0DC", "#FF7034",
	"#E97451", "#6699CC", "#A9B2C3", "#93CCEA",
	"#5FA777", "#E6BE8A", "#F2C649", "#E6E6FA",
	"#F2C649", "#1974D2", "#E29CD2", "#9678B6",
}

// HighlightColors are the marker colors for highlight ranges.
var HighlightColors = []string{"#FFEB3B", "#4CAF50", "#E91E63", "#FF9800", "#2196F3"}

// BackgroundColors are the paper colors offered for notebooks.
var BackgroundColors = []string{"#FFFFFF", "#FFFDD0", "#FFF9C4"}

// NotebookPreset describes a notebook seeded on first launch.
type NotebookPreset struct {
	Name            string
	Color           string
	BackgroundColor string
	TextColor       string
}

// DefaultNotebooks are seeded when no notebook collection is stored.
var DefaultNotebooks = []NotebookPreset{
	{Name: "Red Notebook", Color: "#E63946", BackgroundColor: "#FFFFFF", TextColor: "#000000"},
	{Name: "Blue Notebook", Color: "#457B9D", BackgroundColor: "#FFFFFF", TextColor: "#000000"},
}

// Theme is the chrome palette for one display mode.
type Theme struct {
	Background  string `json:"background"`
	Text        string `json:"text"`
	Button      string `json:"button"`
	Accent      string `json:"accent"`
	Card        string `json:"card"`
	Border      string `json:"border"`
	Placeholder string `json:"placeholder"`
}

var (
	LightTheme = Theme{
		Background:  "#FEF3C7",
		Text:        "#78350F",
		Button:      "#FDE68A",
		Accent:      "#2563EB",
		Card:        "#FFFFFF",
		Border:      "#E5E7EB",
		Placeholder: "#9CA3AF",
	}
	DarkTheme = Theme{
		Background:  "#000000",
		Text:        "#A855F7",
		Button:      "#1F1F1F",
		Accent:      "#A855F7",
		Card:        "#1F1F1F",
		Border:      "#374151",
		Placeholder: "#6B7280",
	}
)

// ThemeFor returns the theme for the dark mode flag.
func ThemeFor(darkMode bool) Theme {
	if darkMode {
		return DarkTheme
	}
	return LightTheme
}
