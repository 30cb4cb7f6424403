package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dev-avwi/TradieTrack-sub007/internal/stats"
)

// PrintReport writes a plain-text summary for the -report flag, without
// taking over the terminal.
func PrintReport(w io.Writer, rng string, s stats.Summary, now time.Time) error {
	line := strings.Repeat("-", 50)

	switch rng {
	case "today":
		fmt.Fprintln(w, now.Format("Jan 2, 2006, Monday"))
		fmt.Fprintln(w, line)
		fmt.Fprintf(w, "Total working today : %s\n", formatHours(s.TodayHours))
	case "week":
		start := stats.WeekWindow(now).From
		fmt.Fprintf(w, "for week starting %s\n", start.Format("2006-01-02"))
		fmt.Fprintln(w, line)
		fmt.Fprintf(w, "%-15s | %s\n", "Day", "Hours")
		fmt.Fprintln(w, line)
		for i, label := range weekdayLabels {
			fmt.Fprintf(w, "%-15s | %s\n", label, formatHours(s.WeekdayHours[i]))
		}
		fmt.Fprintln(w, line)
		fmt.Fprintf(w, "Total working week : %s\n", formatHours(s.WeekHours))
	case "month":
		fmt.Fprintf(w, "for month %s\n", now.Format("2006-01"))
		fmt.Fprintln(w, line)
		fmt.Fprintf(w, "Total working month : %s\n", formatHours(s.MonthHours))
	default:
		return fmt.Errorf("unknown report range '%s'", rng)
	}

	return nil
}
