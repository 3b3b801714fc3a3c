package domain

import (
	"bytes"
	"encoding/json"
)

// The reply schema is decoded member by member. Syntax errors are the caller's
// concern (json.Unmarshal validates the whole document before any of these
// run); a member of the wrong type is dropped to its zero value instead of
// failing the reply, and a non-object where an object is expected decodes as
// an empty value. None of these methods return an error.

// members splits a JSON object into its raw members. Anything else yields nil.
func members(data []byte) map[string]json.RawMessage {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	return raw
}

// field decodes raw into dst, leaving dst untouched when raw is absent or does
// not fit.
func field[T any](raw json.RawMessage, dst *T) {
	if len(raw) == 0 {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return
	}
	*dst = v
}

func (r *Reply) UnmarshalJSON(data []byte) error {
	m := members(data)
	*r = Reply{}
	field(m["sessionId"], &r.SessionID)
	field(m["output"], &r.Output)
	field(m["citations"], &r.Citations)
	field(m["guardrailAction"], &r.GuardrailAction)
	return nil
}

func (o *Output) UnmarshalJSON(data []byte) error {
	m := members(data)
	*o = Output{}
	field(m["text"], &o.Text)
	return nil
}

func (c *Citation) UnmarshalJSON(data []byte) error {
	m := members(data)
	*c = Citation{}
	field(m["generatedResponsePart"], &c.GeneratedResponsePart)
	field(m["retrievedReferences"], &c.RetrievedReferences)
	return nil
}

func (g *GeneratedResponsePart) UnmarshalJSON(data []byte) error {
	m := members(data)
	*g = GeneratedResponsePart{}
	field(m["textResponsePart"], &g.TextResponsePart)
	return nil
}

func (t *TextResponsePart) UnmarshalJSON(data []byte) error {
	m := members(data)
	*t = TextResponsePart{}
	field(m["text"], &t.Text)
	field(m["span"], &t.Span)
	return nil
}

func (s *Span) UnmarshalJSON(data []byte) error {
	m := members(data)
	*s = Span{}
	field(m["start"], &s.Start)
	field(m["end"], &s.End)
	return nil
}

func (r *Reference) UnmarshalJSON(data []byte) error {
	m := members(data)
	*r = Reference{}
	field(m["content"], &r.Content)
	field(m["location"], &r.Location)
	field(m["metadata"], &r.Metadata)
	field(m["signedUrl"], &r.SignedURL)
	return nil
}

func (c *Content) UnmarshalJSON(data []byte) error {
	m := members(data)
	*c = Content{}
	field(m["text"], &c.Text)
	return nil
}

func (l *Location) UnmarshalJSON(data []byte) error {
	m := members(data)
	*l = Location{}
	field(m["type"], &l.Type)
	field(m["s3Location"], &l.S3Location)
	field(m["webLocation"], &l.WebLocation)
	field(m["confluenceLocation"], &l.ConfluenceLocation)
	field(m["salesforceLocation"], &l.SalesforceLocation)
	field(m["sharePointLocation"], &l.SharePointLocation)
	return nil
}

func (s *S3Location) UnmarshalJSON(data []byte) error {
	m := members(data)
	*s = S3Location{}
	field(m["uri"], &s.URI)
	return nil
}

func (u *LocatorURL) UnmarshalJSON(data []byte) error {
	m := members(data)
	*u = LocatorURL{}
	field(m["url"], &u.URL)
	return nil
}

// UnmarshalJSON keeps string values verbatim and renders anything else as
// compact JSON. null decodes to nil; any other non-object to an empty map.
func (md *Metadata) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*md = nil
		return nil
	}
	raw := members(data)
	out := make(Metadata, len(raw))
	for k, v := range raw {
		out[k] = documentString(v)
	}
	*md = out
	return nil
}

func documentString(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, v); err != nil {
		return string(v)
	}
	if buf.String() == "null" {
		return ""
	}
	return buf.String()
}
