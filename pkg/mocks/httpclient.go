package mocks

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/stretchr/testify/mock"

	"github.com/Behyna/bank-webhooks/pkg/httpclient"
)

var _ httpclient.HTTPClient = (*HTTPClient)(nil)

// HTTPClient stands in for the outbound client the notifier posts through.
// A nil response may be returned without a type conversion.
type HTTPClient struct {
	mock.Mock
}

// NotifierResponse builds the reply of a mocked notification endpoint.
func NotifierResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func (m *HTTPClient) Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	return response(m.Called(ctx, url, headers))
}

func (m *HTTPClient) Post(ctx context.Context, url string, body io.Reader, headers map[string]string) (*http.Response, error) {
	return response(m.Called(ctx, url, body, headers))
}

func (m *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	return response(m.Called(req))
}

func response(args mock.Arguments) (*http.Response, error) {
	resp, _ := args.Get(0).(*http.Response)
	return resp, args.Error(1)
}
