package render

import (
	"fmt"
	"strings"
)

// PlainCitations lays out every citation of v with all reference panels
// expanded, for output that cannot be browsed interactively.
func PlainCitations(v ResponseView) string {
	var b strings.Builder
	if v.Intervened {
		b.WriteString("[guardrail intervened]\n")
	}
	for _, c := range v.Citations {
		fmt.Fprintf(&b, "%s\n", c.Title)
		if c.Excerpt != "" {
			fmt.Fprintf(&b, "  %q\n", c.Excerpt)
		}
		for _, tr := range c.Triggers {
			p, _ := c.PanelAt(tr.Index)
			fmt.Fprintf(&b, "  %s: %s\n", tr.Label, p.Body)
			if p.Location != "" {
				fmt.Fprintf(&b, "    Location (%s): %s\n", p.LocationType, p.Location)
			}
			for _, row := range p.Rows {
				fmt.Fprintf(&b, "    %s: %s\n", row.Key, row.Value)
				if row.LinkURL != "" {
					fmt.Fprintf(&b, "    %s: %s\n", row.LinkLabel, row.LinkURL)
				}
			}
		}
	}
	return b.String()
}
