package display

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

const banner = `  _                                          
 | |_ _   _ _ __   ___  ___ _   _ _ __   ___ 
 | __| | | | '_ \ / _ \/ __| | | | '_ \ / __|
 | |_| |_| | | | |  __/\__ \ |_| | | | | (__ 
  \__|\__,_|_| |_|\___||___/\__, |_| |_|\___|
                            |___/            `

var bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))

// PrintBanner prints the ASCII art banner, colored when the active profile
// allows it.
func PrintBanner(w io.Writer) {
	fmt.Fprintln(w, bannerStyle.Render(banner))
}
