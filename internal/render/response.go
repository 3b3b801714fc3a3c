// Package render maps API replies onto display-ready view models. It knows
// nothing about terminals; internal/tui draws the views.
package render

import (
	"fmt"

	"docs-chat/internal/domain"
)

// FallbackText is shown when a reply carries no answer text.
const FallbackText = "Sorry, I didn't understand that."

// ResponseView is a rendered reply: the answer text followed by one citation
// view per citation.
type ResponseView struct {
	Text       string
	Citations  []*CitationView
	Intervened bool
}

// RenderResponse never fails; a nil or empty reply yields the fallback text
// and no citations.
func RenderResponse(reply *domain.Reply) ResponseView {
	view := ResponseView{
		Text:       reply.Text(),
		Intervened: reply.Intervened(),
	}
	if view.Text == "" {
		view.Text = FallbackText
	}
	citations := reply.CitationList()
	view.Citations = make([]*CitationView, 0, len(citations))
	for i := range citations {
		view.Citations = append(view.Citations, RenderCitation(citations[i], fmt.Sprintf("Citation %d", i+1)))
	}
	return view
}

// TriggerCount is the number of reference triggers across all citations.
func (v ResponseView) TriggerCount() int {
	n := 0
	for _, c := range v.Citations {
		n += len(c.Triggers)
	}
	return n
}
