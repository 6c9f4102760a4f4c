// Package printer renders matches for the CLI.
package printer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dekarrin/rosed"

	"github.com/dekarrin/strem/internal/controller"
)

// Format renders hit using the format string tokens:
// %m expands to "start..end", %c to the channel of hit's first frame's
// first sample (or the empty string if there is none), and %% to a
// literal percent sign. An empty format string falls back to the bare
// "start..end" form.
func Format(format string, hit controller.Hit) string {
	if format == "" {
		return fmt.Sprintf("%d..%d", hit.Match.Start, hit.Match.End)
	}

	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i == len(format)-1 {
			b.WriteByte(c)
			continue
		}

		i++
		switch format[i] {
		case 'm':
			fmt.Fprintf(&b, "%d..%d", hit.Match.Start, hit.Match.End)
		case 'c':
			b.WriteString(firstChannel(hit))
		case '%':
			b.WriteByte('%')
		default:
			b.WriteByte('%')
			b.WriteByte(format[i])
		}
	}
	return b.String()
}

func firstChannel(hit controller.Hit) string {
	if len(hit.Frames) == 0 || len(hit.Frames[0].Samples) == 0 {
		return ""
	}
	return hit.Frames[0].Samples[0].Channel
}

// CountTable renders a two-column summary table of match counts, keyed
// by the rendered match text, using dekarrin/rosed's InsertTableOpts
// with a header row.
func CountTable(hits []controller.Hit) string {
	data := [][]string{{"Match", "Count"}}

	counts := map[string]int{}
	var order []string
	for _, h := range hits {
		key := Format("%m", h)
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	for _, key := range order {
		data = append(data, []string{key, strconv.Itoa(counts[key])})
	}

	tableOpts := rosed.Options{
		TableHeaders:             true,
		NoTrailingLineSeparators: true,
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 80, tableOpts).
		String()
}
