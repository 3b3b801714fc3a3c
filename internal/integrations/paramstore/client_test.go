package paramstore

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/require"
)

// fakeAPI is a simple fake implementing ssmAPI for tests.
type fakeAPI struct {
	getOut *ssm.GetParameterOutput
	getErr error
}

func (f *fakeAPI) GetParameter(_ context.Context, _ *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	return f.getOut, f.getErr
}

func strPtr(s string) *string { return &s }

func TestGetParameter_HappyPath(t *testing.T) {
	api := &fakeAPI{getOut: &ssm.GetParameterOutput{Parameter: &types.Parameter{
		Name: strPtr("p"), Value: strPtr("https://kb.example.com"),
	}}}
	client, err := New(api)
	require.NoError(t, err)
	v, err := client.GetParameter(context.Background(), "p")
	require.NoError(t, err)
	require.Equal(t, "https://kb.example.com", v)
}

func TestGetParameter_HappyPath_SecureString(t *testing.T) {
	typeStr := "SecureString"
	api := &fakeAPI{getOut: &ssm.GetParameterOutput{Parameter: &types.Parameter{
		Name: strPtr("p"), Value: strPtr("https://kb.example.com"), Type: types.ParameterType(typeStr),
	}}}
	client, err := New(api)
	require.NoError(t, err)
	v, err := client.GetParameter(context.Background(), "p")
	require.NoError(t, err)
	require.Equal(t, "https://kb.example.com", v)
}

func TestGetParameter_MissingValue(t *testing.T) {
	api := &fakeAPI{getOut: &ssm.GetParameterOutput{Parameter: &types.Parameter{Name: strPtr("p"), Value: nil}}}
	client, err := New(api)
	require.NoError(t, err)
	_, err = client.GetParameter(context.Background(), "p")
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing value")
}

func TestGetParameter_ApiError(t *testing.T) {
	api := &fakeAPI{getErr: errors.New("boom")}
	client, err := New(api)
	require.NoError(t, err)
	_, err = client.GetParameter(context.Background(), "p")
	require.Error(t, err)
	require.ErrorContains(t, err, "boom")
}

func TestGetParameter_ClientNotInitialized(t *testing.T) {
	_, err := (&Client{}).GetParameter(context.Background(), "p")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not initialized")
}

func TestGetParameter_EmptyName(t *testing.T) {
	api := &fakeAPI{}
	client, err := New(api)
	require.NoError(t, err)
	_, err = client.GetParameter(context.Background(), "  ")
	require.Error(t, err)
	require.Contains(t, err.Error(), "required")
}

func TestNew_NilAPI(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "must not be nil")
}

// ---------------------------------------------------------------------------
// FetchEndpoint
// ---------------------------------------------------------------------------

type fakeGetter struct {
	val  string
	err  error
	name string
}

func (f *fakeGetter) GetParameter(_ context.Context, name string) (string, error) {
	f.name = name
	return f.val, f.err
}

func TestFetchEndpoint_BareURL(t *testing.T) {
	g := &fakeGetter{val: " https://kb.example.com/prod \n"}
	v, err := FetchEndpoint(context.Background(), g, "/docs-chat/query-api-url")
	require.NoError(t, err)
	require.Equal(t, "https://kb.example.com/prod", v)
	require.Equal(t, "/docs-chat/query-api-url", g.name)
}

func TestFetchEndpoint_JSONPayload(t *testing.T) {
	g := &fakeGetter{val: `{"url":"https://kb.example.com"}`}
	v, err := FetchEndpoint(context.Background(), g, "p")
	require.NoError(t, err)
	require.Equal(t, "https://kb.example.com", v)
}

func TestFetchEndpoint_JSONMissingURL(t *testing.T) {
	g := &fakeGetter{val: `{"other":"value"}`}
	_, err := FetchEndpoint(context.Background(), g, "p")
	require.Error(t, err)
	require.Contains(t, err.Error(), "endpoint is empty")
}

func TestFetchEndpoint_MalformedJSON(t *testing.T) {
	g := &fakeGetter{val: `{"broken`}
	_, err := FetchEndpoint(context.Background(), g, "p")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unmarshal")
}

func TestFetchEndpoint_NotAbsolute(t *testing.T) {
	g := &fakeGetter{val: "kb.example.com/prod"}
	_, err := FetchEndpoint(context.Background(), g, "p")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not an absolute URL")
}

func TestFetchEndpoint_GetterError(t *testing.T) {
	g := &fakeGetter{err: errors.New("ssm unavailable")}
	_, err := FetchEndpoint(context.Background(), g, "p")
	require.Error(t, err)
	require.ErrorContains(t, err, "ssm unavailable")
}

func TestFetchEndpoint_Validation(t *testing.T) {
	_, err := FetchEndpoint(context.Background(), nil, "p")
	require.Error(t, err)
	_, err = FetchEndpoint(context.Background(), &fakeGetter{}, " ")
	require.Error(t, err)
}
