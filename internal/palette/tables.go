package palette

// categoryHex covers both the product-area categories found in release
// spreadsheets and the short functional categories.
var categoryHex = map[string]string{
	"Meeting":                    "#F5A623",
	"Chat features":              "#4A90E2",
	"Contact Center features":    "#5E7F9A",
	"General features":           "#63A375",
	"Mail and Calendar features": "#7B68EE",
	"Phone features":             "#607D8B",
	"Team Chat features":         "#3F51B5",
	"Webinar features":           "#8BC34A",
	"Whiteboard features":        "#00BCD4",
	"Zoom Apps features":         "#009688",
	"Zoom Clips":                 "#9C27B0",
	"Zoom Clips features":        "#673AB7",
	"Zoom Mail and Calendar":     "#2196F3",

	"UI/UX":          "#1E88E5",
	"Security":       "#D32F2F",
	"Performance":    "#43A047",
	"API":            "#FF9800",
	"Admin Controls": "#9C27B0",
	"Integration":    "#3949AB",
	"Audio/Video":    "#00ACC1",
	"Chat":           "#E91E63",
	"Whiteboard":     "#8BC34A",
	"Mobile":         "#795548",
	"Desktop":        "#607D8B",
	"Cloud Storage":  "#00BCD4",
	"Calendar":       "#FFEB3B",
	"Background":     "#9E9E9E",
	"Analytics":      "#F44336",
	"Settings":       "#4527A0",
	"Recording":      "#F57F17",
	"Search":         "#FFA000",
	"Notifications":  "#EF6C00",
	"Uncategorized":  "#78909C",
}

var teamHex = map[string]string{
	"Frontend":       "#42A5F5",
	"Backend":        "#66BB6A",
	"Mobile":         "#FFA726",
	"Design":         "#EC407A",
	"Security":       "#EF5350",
	"QA":             "#AB47BC",
	"Infrastructure": "#5C6BC0",
	"API":            "#26A69A",
	"DevOps":         "#8D6E63",
	"Research":       "#78909C",
}

var quarterHex = map[string]string{
	"Q1": "#4FC3F7",
	"Q2": "#81C784",
	"Q3": "#FFB74D",
	"Q4": "#E57373",
}
