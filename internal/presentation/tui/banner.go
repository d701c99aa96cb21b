package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	"  __                                      _    ",
	" / _| ___  _ __ _ __ ___ __      _____  _ __| | __",
	"| |_ / _ \\| '__| '_ ` _ \\\\ \\ /\\ / / _ \\| '__| |/ /",
	"|  _| (_) | |  | | | | | |\\ V  V / (_) | |  |   < ",
	"|_|  \\___/|_|  |_| |_| |_| \\_/\\_/ \\___/|_|  |_|\\_\\",
}

var bannerColors = []string{"#34d399", "#2dd4bf", "#22d3ee", "#38bdf8", "#60a5fa"}

// PrintBanner writes the formwork banner to w, coloured when w's terminal
// supports it.
func PrintBanner(w io.Writer) {
	p := termenv.NewOutput(w).ColorProfile()

	fmt.Fprintln(w)
	for i, line := range bannerLines {
		fmt.Fprintln(w, termenv.String(line).Foreground(p.Color(bannerColors[i])))
	}
	fmt.Fprintln(w)
}
