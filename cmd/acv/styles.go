package main

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Background(lipgloss.Color("#1E1E2E")).
			Padding(0, 1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#CDD6F4")).
			Background(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#89B4FA"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F5C2E7")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F38BA8")).
			Bold(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#45475A")).
			Padding(0, 1)

	cardSelectedStyle = cardStyle.
				BorderForeground(lipgloss.Color("#7C3AED"))

	errorCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#F38BA8")).
			Padding(0, 1)

	cardTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#CDD6F4"))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CDD6F4")).
			Background(lipgloss.Color("#1E1E2E"))
)

// Display lookup tables. Labels missing from a table fall back to the
// default entry.

const defaultCategoryIcon = "🤖"

var categoryIcons = map[string]string{
	"Customer Service": "🎧",
	"Marketing":        "📣",
	"Operations":       "🔧",
	"Data Analysis":    "📊",
	"Development":      "💻",
	"Human Resources":  "👥",
	"Finance":          "💲",
	"Legal":            "📜",
}

var defaultBadgeColor = lipgloss.Color("#A6ADC8")

var statusColors = map[string]lipgloss.Color{
	"Active":   lipgloss.Color("#A6E3A1"),
	"Beta":     lipgloss.Color("#F9E2AF"),
	"Archived": lipgloss.Color("#6C7086"),
}

var pricingColors = map[string]lipgloss.Color{
	"Subscription": lipgloss.Color("#89B4FA"),
	"Per-Use":      lipgloss.Color("#CBA6F7"),
	"Free Tier":    lipgloss.Color("#A6E3A1"),
}

func categoryIcon(category string) string {
	if icon, ok := categoryIcons[category]; ok {
		return icon
	}
	return defaultCategoryIcon
}

func badgeColor(table map[string]lipgloss.Color, label string) lipgloss.Color {
	if c, ok := table[label]; ok {
		return c
	}
	return defaultBadgeColor
}

func statusBadge(status string) string {
	return badge(badgeColor(statusColors, status), status)
}

func pricingBadge(pricing string) string {
	return badge(badgeColor(pricingColors, pricing), pricing)
}

func badge(c lipgloss.Color, label string) string {
	if label == "" {
		label = "unknown"
	}
	return lipgloss.NewStyle().Foreground(c).Render("● " + label)
}
