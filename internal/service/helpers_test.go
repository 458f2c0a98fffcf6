package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/target/rfp-console/internal/adapters/memstore"
	"github.com/target/rfp-console/internal/apiclient"
	"github.com/target/rfp-console/internal/mocks"
)

func okResponse(t *testing.T, body string) *apiclient.Response {
	t.Helper()
	resp, err := apiclient.NewResponse(http.StatusOK, []byte(body))
	require.NoError(t, err)
	return resp
}

// expectCall registers a single gateway call, hands the request to inspect and replies with body.
func expectCall(t *testing.T, gw *mocks.MockGateway, inspect func(apiclient.Request), body string) *gomock.Call {
	t.Helper()
	return gw.EXPECT().Do(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req apiclient.Request) (*apiclient.Response, error) {
			if inspect != nil {
				inspect(req)
			}
			return okResponse(t, body), nil
		})
}

func newMemorySessionStore() *SessionStore {
	return NewSessionStore(SessionStoreOptions{Storage: memstore.New(memstore.Options{}).Open("test")})
}
