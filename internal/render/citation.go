package render

import (
	"fmt"

	"docs-chat/internal/domain"
)

const (
	PlaceholderText = "-"
	DetailsTitle    = "Reference Details"
	noPanel         = -1
)

// Trigger is the control that reveals one reference's detail panel.
type Trigger struct {
	Index int
	Label string
}

type MetadataRow struct {
	Key       string
	Value     string
	LinkURL   string
	LinkLabel string
}

type ReferencePanel struct {
	Title        string
	Body         string
	LocationType domain.LocationType
	Location     string
	SignedURL    string
	Rows         []MetadataRow
}

// CitationView renders one citation. Its references share a single open
// slot: at most one detail panel is visible at a time.
type CitationView struct {
	Title    string
	Excerpt  string
	Triggers []Trigger

	panels []ReferencePanel
	open   int
}

func RenderCitation(c domain.Citation, title string) *CitationView {
	refs := c.References()
	view := &CitationView{
		Title:    title,
		Excerpt:  c.ResponsePartText(),
		Triggers: make([]Trigger, 0, len(refs)),
		panels:   make([]ReferencePanel, 0, len(refs)),
		open:     noPanel,
	}
	for i := range refs {
		view.Triggers = append(view.Triggers, Trigger{
			Index: i,
			Label: fmt.Sprintf("View Reference %d", i+1),
		})
		view.panels = append(view.panels, renderPanel(&refs[i]))
	}
	return view
}

func renderPanel(ref *domain.Reference) ReferencePanel {
	panel := ReferencePanel{
		Title:        DetailsTitle,
		Body:         ref.Text(),
		LocationType: ref.LocationType(),
		Location:     ref.Locator(),
		SignedURL:    ref.SignedURL,
	}
	if panel.Body == "" {
		panel.Body = PlaceholderText
	}
	keys := ref.MetadataKeys()
	panel.Rows = make([]MetadataRow, 0, len(keys))
	for _, k := range keys {
		panel.Rows = append(panel.Rows, MetadataRow{
			Key:       k,
			Value:     ref.Metadata[k],
			LinkURL:   ref.SignedURL,
			LinkLabel: fmt.Sprintf("View Original Source (%s)", k),
		})
	}
	return panel
}

// Open shows panel i, replacing whichever panel was open. It reports false
// for an out-of-range index and leaves the state unchanged.
func (v *CitationView) Open(i int) bool {
	if i < 0 || i >= len(v.panels) {
		return false
	}
	v.open = i
	return true
}

func (v *CitationView) Close() {
	v.open = noPanel
}

// Toggle closes panel i if it is the open one, otherwise opens it.
func (v *CitationView) Toggle(i int) bool {
	if v.open == i {
		v.Close()
		return true
	}
	return v.Open(i)
}

// OpenIndex returns the open panel's index, or -1.
func (v *CitationView) OpenIndex() int {
	return v.open
}

// Panel returns the currently open panel.
func (v *CitationView) Panel() (ReferencePanel, bool) {
	return v.PanelAt(v.open)
}

func (v *CitationView) PanelAt(i int) (ReferencePanel, bool) {
	if i < 0 || i >= len(v.panels) {
		return ReferencePanel{}, false
	}
	return v.panels[i], true
}
