package domain

import (
	"sort"
)

// GuardrailAction reports whether a policy filter intervened in the reply.
type GuardrailAction string

const (
	GuardrailIntervened GuardrailAction = "INTERVENED"
	GuardrailNone       GuardrailAction = "NONE"
)

// LocationType is the kind of data source a reference was retrieved from.
type LocationType string

const (
	LocationS3         LocationType = "S3"
	LocationWeb        LocationType = "WEB"
	LocationConfluence LocationType = "CONFLUENCE"
	LocationSalesforce LocationType = "SALESFORCE"
	LocationSharePoint LocationType = "SHAREPOINT"
)

// Reply is the structured answer returned by the retrieval API. Every field
// may be absent or of the wrong type; decoding drops such a field to its zero
// value (see decode.go) and the accessors below never panic, including on a
// nil *Reply.
type Reply struct {
	SessionID       string          `json:"sessionId,omitempty"`
	Output          *Output         `json:"output,omitempty"`
	Citations       []Citation      `json:"citations,omitempty"`
	GuardrailAction GuardrailAction `json:"guardrailAction,omitempty"`
}

type Output struct {
	Text string `json:"text"`
}

// Citation groups the references that support one part of the answer.
type Citation struct {
	GeneratedResponsePart *GeneratedResponsePart `json:"generatedResponsePart,omitempty"`
	RetrievedReferences   []Reference            `json:"retrievedReferences,omitempty"`
}

type GeneratedResponsePart struct {
	TextResponsePart *TextResponsePart `json:"textResponsePart,omitempty"`
}

type TextResponsePart struct {
	Text string `json:"text"`
	Span *Span  `json:"span,omitempty"`
}

type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Reference is one retrieved passage plus its origin.
type Reference struct {
	Content   *Content  `json:"content,omitempty"`
	Location  *Location `json:"location,omitempty"`
	Metadata  Metadata  `json:"metadata,omitempty"`
	SignedURL string    `json:"signedUrl,omitempty"`
}

type Content struct {
	Text string `json:"text"`
}

type Location struct {
	Type               LocationType `json:"type"`
	S3Location         *S3Location  `json:"s3Location,omitempty"`
	WebLocation        *LocatorURL  `json:"webLocation,omitempty"`
	ConfluenceLocation *LocatorURL  `json:"confluenceLocation,omitempty"`
	SalesforceLocation *LocatorURL  `json:"salesforceLocation,omitempty"`
	SharePointLocation *LocatorURL  `json:"sharePointLocation,omitempty"`
}

type S3Location struct {
	URI string `json:"uri"`
}

type LocatorURL struct {
	URL string `json:"url"`
}

// Metadata maps metadata keys to display strings. The upstream values are
// arbitrary JSON documents; non-string values are kept as compact JSON.
type Metadata map[string]string

// Text returns the answer text, or "" when absent.
func (r *Reply) Text() string {
	if r == nil || r.Output == nil {
		return ""
	}
	return r.Output.Text
}

func (r *Reply) CitationList() []Citation {
	if r == nil {
		return nil
	}
	return r.Citations
}

func (r *Reply) Intervened() bool {
	return r != nil && r.GuardrailAction == GuardrailIntervened
}

func (c *Citation) References() []Reference {
	if c == nil {
		return nil
	}
	return c.RetrievedReferences
}

// ResponsePartText is the generated answer fragment this citation supports.
func (c *Citation) ResponsePartText() string {
	if c == nil || c.GeneratedResponsePart == nil || c.GeneratedResponsePart.TextResponsePart == nil {
		return ""
	}
	return c.GeneratedResponsePart.TextResponsePart.Text
}

func (r *Reference) Text() string {
	if r == nil || r.Content == nil {
		return ""
	}
	return r.Content.Text
}

// MetadataKeys returns the metadata keys in sorted order.
func (r *Reference) MetadataKeys() []string {
	if r == nil || len(r.Metadata) == 0 {
		return nil
	}
	keys := make([]string, 0, len(r.Metadata))
	for k := range r.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (r *Reference) LocationType() LocationType {
	if r == nil || r.Location == nil {
		return ""
	}
	return r.Location.Type
}

func (r *Reference) Locator() string {
	if r == nil {
		return ""
	}
	return r.Location.Locator()
}

// Locator returns the URI or URL matching the location's type.
func (l *Location) Locator() string {
	if l == nil {
		return ""
	}
	switch l.Type {
	case LocationS3:
		if l.S3Location != nil {
			return l.S3Location.URI
		}
	case LocationWeb:
		return l.WebLocation.url()
	case LocationConfluence:
		return l.ConfluenceLocation.url()
	case LocationSalesforce:
		return l.SalesforceLocation.url()
	case LocationSharePoint:
		return l.SharePointLocation.url()
	}
	return ""
}

func (u *LocatorURL) url() string {
	if u == nil {
		return ""
	}
	return u.URL
}
