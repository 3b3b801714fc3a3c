package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

const fullReply = `{
	"sessionId": "s-1",
	"output": {"text": "Use the deploy command."},
	"citations": [{
		"generatedResponsePart": {"textResponsePart": {"text": "Use the deploy", "span": {"start": 0, "end": 14}}},
		"retrievedReferences": [{
			"content": {"text": "Run amp deploy."},
			"location": {"type": "S3", "s3Location": {"uri": "s3://docs/deploy.md"}},
			"metadata": {"title": "Deploy", "page": 3, "tags": ["a", "b"], "empty": null},
			"signedUrl": "https://signed.example/deploy"
		}]
	}],
	"guardrailAction": "INTERVENED"
}`

func TestReply_DecodeFullPayload(t *testing.T) {
	var r Reply
	require.NoError(t, json.Unmarshal([]byte(fullReply), &r))

	require.Equal(t, "Use the deploy command.", r.Text())
	require.True(t, r.Intervened())
	require.Len(t, r.CitationList(), 1)

	c := r.CitationList()[0]
	require.Equal(t, "Use the deploy", c.ResponsePartText())
	require.Len(t, c.References(), 1)

	ref := c.References()[0]
	require.Equal(t, "Run amp deploy.", ref.Text())
	require.Equal(t, LocationS3, ref.LocationType())
	require.Equal(t, "s3://docs/deploy.md", ref.Locator())
	require.Equal(t, "https://signed.example/deploy", ref.SignedURL)
	require.Equal(t, []string{"empty", "page", "tags", "title"}, ref.MetadataKeys())
	require.Equal(t, "Deploy", ref.Metadata["title"])
	require.Equal(t, "3", ref.Metadata["page"])
	require.Equal(t, `["a","b"]`, ref.Metadata["tags"])
	require.Equal(t, "", ref.Metadata["empty"])
}

func TestReply_NilAccessorsAreTotal(t *testing.T) {
	var r *Reply
	require.Equal(t, "", r.Text())
	require.Nil(t, r.CitationList())
	require.False(t, r.Intervened())

	var c *Citation
	require.Nil(t, c.References())
	require.Equal(t, "", c.ResponsePartText())

	var ref *Reference
	require.Equal(t, "", ref.Text())
	require.Nil(t, ref.MetadataKeys())
	require.Equal(t, LocationType(""), ref.LocationType())
	require.Equal(t, "", ref.Locator())
}

func TestReply_EmptyObject(t *testing.T) {
	var r Reply
	require.NoError(t, json.Unmarshal([]byte(`{}`), &r))
	require.Equal(t, "", r.Text())
	require.Empty(t, r.CitationList())
	require.False(t, r.Intervened())
}

func TestReference_PartialFields(t *testing.T) {
	var ref Reference
	require.NoError(t, json.Unmarshal([]byte(`{"metadata": null}`), &ref))
	require.Equal(t, "", ref.Text())
	require.Nil(t, ref.Metadata)
	require.Empty(t, ref.MetadataKeys())
	require.Equal(t, "", ref.Locator())
}

func TestLocation_Locator(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"s3", `{"type":"S3","s3Location":{"uri":"s3://b/k"}}`, "s3://b/k"},
		{"web", `{"type":"WEB","webLocation":{"url":"https://w"}}`, "https://w"},
		{"confluence", `{"type":"CONFLUENCE","confluenceLocation":{"url":"https://c"}}`, "https://c"},
		{"salesforce", `{"type":"SALESFORCE","salesforceLocation":{"url":"https://sf"}}`, "https://sf"},
		{"sharepoint", `{"type":"SHAREPOINT","sharePointLocation":{"url":"https://sp"}}`, "https://sp"},
		{"type without locator", `{"type":"WEB"}`, ""},
		{"mismatched locator", `{"type":"S3","webLocation":{"url":"https://w"}}`, ""},
		{"unknown type", `{"type":"KENDRA"}`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var l Location
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &l))
			require.Equal(t, tc.want, l.Locator())
		})
	}
}

func TestMetadata_NonObjectIsEmpty(t *testing.T) {
	for _, raw := range []string{`["a"]`, `"m"`, `7`, `true`} {
		var m Metadata
		require.NoError(t, json.Unmarshal([]byte(raw), &m), raw)
		require.NotNil(t, m, raw)
		require.Empty(t, m, raw)
	}

	var m Metadata
	require.NoError(t, json.Unmarshal([]byte(`null`), &m))
	require.Nil(t, m)
}

func TestReply_WrongTypesDropToZero(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		check func(t *testing.T, r *Reply)
	}{
		{name: "reply not an object", raw: `"oops"`, check: func(t *testing.T, r *Reply) {
			require.Equal(t, Reply{}, *r)
		}},
		{name: "text is a number", raw: `{"output":{"text":42},"guardrailAction":"INTERVENED"}`, check: func(t *testing.T, r *Reply) {
			require.NotNil(t, r.Output)
			require.Equal(t, "", r.Text())
			require.True(t, r.Intervened())
		}},
		{name: "output is an array", raw: `{"output":[1],"sessionId":"s"}`, check: func(t *testing.T, r *Reply) {
			require.Equal(t, "", r.Text())
			require.Equal(t, "s", r.SessionID)
		}},
		{name: "citations is an object", raw: `{"output":{"text":"hi"},"citations":{}}`, check: func(t *testing.T, r *Reply) {
			require.Equal(t, "hi", r.Text())
			require.Empty(t, r.CitationList())
		}},
		{name: "citation element not an object", raw: `{"citations":[1,{"retrievedReferences":[{}]}]}`, check: func(t *testing.T, r *Reply) {
			require.Len(t, r.CitationList(), 2)
			require.Empty(t, r.Citations[0].References())
			require.Len(t, r.Citations[1].References(), 1)
		}},
		{name: "guardrail is a number", raw: `{"output":{"text":"hi"},"guardrailAction":1}`, check: func(t *testing.T, r *Reply) {
			require.Equal(t, "hi", r.Text())
			require.False(t, r.Intervened())
		}},
		{name: "fractional span", raw: `{"citations":[{"generatedResponsePart":{"textResponsePart":{"text":"part","span":{"start":0.5,"end":"x"}}}}]}`, check: func(t *testing.T, r *Reply) {
			c := r.Citations[0]
			require.Equal(t, "part", c.ResponsePartText())
			require.Equal(t, Span{}, *c.GeneratedResponsePart.TextResponsePart.Span)
		}},
		{name: "reference members mistyped", raw: `{"citations":[{"retrievedReferences":[{
			"content":{"text":["x"]},"metadata":"m","signedUrl":5,
			"location":{"type":"WEB","webLocation":"https://x"}
		}]}]}`, check: func(t *testing.T, r *Reply) {
			ref := r.Citations[0].RetrievedReferences[0]
			require.Equal(t, "", ref.Text())
			require.Empty(t, ref.MetadataKeys())
			require.Equal(t, "", ref.SignedURL)
			require.Equal(t, LocationWeb, ref.LocationType())
			require.Equal(t, "", ref.Locator())
		}},
		{name: "location type mistyped", raw: `{"citations":[{"retrievedReferences":[{
			"location":{"type":3,"s3Location":{"uri":"s3://b/k"}}
		}]}]}`, check: func(t *testing.T, r *Reply) {
			ref := r.Citations[0].RetrievedReferences[0]
			require.Equal(t, LocationType(""), ref.LocationType())
			require.Equal(t, "", ref.Locator())
			require.Equal(t, "s3://b/k", ref.Location.S3Location.URI)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var r Reply
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &r))
			tc.check(t, &r)
		})
	}
}

func TestReply_SyntaxErrorStillFails(t *testing.T) {
	var r Reply
	require.Error(t, json.Unmarshal([]byte(`{"output":`), &r))
}
