package usecase

import (
	"fmt"
	"strings"

	"cinema-seating/internal/data/entity"
)

const screenHeader = "S C R E E N"

// RenderSeatingMap draws plan as text with the screen on top. Rows are
// printed back to front so row A sits at the bottom, and each seat is shown
// with symbols[AVAILABLE|BOOKED|PROPOSED] or its raw code.
func RenderSeatingMap(plan entity.SeatingPlan, status entity.SeatStatus, symbols map[string]string) string {
	numRows, numCols := plan.NumRows(), plan.SeatsPerRow()
	if numRows == 0 || numCols == 0 {
		return "Seating plan is empty.\n"
	}

	colWidth := max(len(fmt.Sprint(numCols)), 2)
	totalWidth := 2 + numCols*(colWidth+1) - 1
	padding := max((totalWidth-len(screenHeader))/2, 0)

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", padding) + screenHeader + "\n")
	b.WriteString(strings.Repeat("-", totalWidth) + "\n")

	for r := numRows - 1; r >= 0; r-- {
		cells := make([]string, numCols)
		for c, seat := range plan.Plan[r] {
			symbol, ok := symbols[status.Name(seat.Status)]
			if !ok {
				symbol = string(seat.Status)
			}
			cells[c] = padRight(symbol, colWidth)
		}
		b.WriteString(fmt.Sprintf("%c %s\n", 'A'+byte(r), strings.TrimRight(strings.Join(cells, " "), " ")))
	}

	footer := make([]string, numCols)
	for c := range footer {
		footer[c] = padRight(fmt.Sprint(c+1), colWidth)
	}
	b.WriteString("  " + strings.TrimRight(strings.Join(footer, " "), " ") + "\n")

	return b.String()
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
