package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF")).
			MarginBottom(1)
	labelStyle   = lipgloss.NewStyle().Width(18).Foreground(lipgloss.Color("#CCCCCC"))
	focusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	derivedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999")).Italic(true)
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).MarginTop(1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

var labels = map[string]string{
	"fullName":      "Full Name",
	"email":         "Email",
	"phone":         "Phone",
	"dob":           "Date of Birth",
	"country":       "Country",
	"productType":   "Product Type",
	"productModel":  "Product Model",
	"leaseDuration": "Lease Duration",
	"monthlyBudget": "Monthly Budget",
	"notes":         "Notes",
	"document":      "Document",
	"terms":         "Accept Terms",
	"employerName":  "Employer Name",
	"annualIncome":  "Annual Income",
}
