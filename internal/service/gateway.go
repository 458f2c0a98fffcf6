package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/target/rfp-console/internal/apiclient"
	domainauth "github.com/target/rfp-console/internal/domain/auth"
	"github.com/target/rfp-console/internal/ports"
)

// SessionWriter is the slice of SessionStore the auth flows mutate.
type SessionWriter interface {
	Set(ctx context.Context, token string, profile domainauth.Profile) error
	Clear(ctx context.Context) error
}

// authedRequest stamps the session token onto req, failing with an authorization
// error when the session is empty.
func authedRequest(sess domainauth.Session, req apiclient.Request) (apiclient.Request, error) {
	if !sess.IsAuthenticated() {
		return req, apiclient.Unauthenticated()
	}
	req.Token = sess.Token
	return req, nil
}

func call(ctx context.Context, gw ports.Gateway, sess domainauth.Session, req apiclient.Request) (*apiclient.Response, error) {
	req, err := authedRequest(sess, req)
	if err != nil {
		return nil, err
	}
	return gw.Do(ctx, req)
}

// searchInto evaluates a JMESPath expression against the envelope and decodes the result into out.
func searchInto(resp *apiclient.Response, expr string, out any) error {
	v, err := resp.Search(expr)
	if err != nil {
		return fmt.Errorf("search %q: %w", expr, err)
	}
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("re-encode %q: %w", expr, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %q: %w", expr, err)
	}
	return nil
}

// isEmptyResult reports whether err (or a success message) is the API's way of saying
// a list has no entries.
func isEmptyResult(err error, resp *apiclient.Response, phrase string) bool {
	if err != nil {
		apiErr, ok := apiclient.AsError(err)
		return ok && apiErr.Kind == apiclient.KindApplication &&
			strings.Contains(strings.ToLower(apiErr.Message), strings.ToLower(phrase))
	}
	return resp != nil && strings.Contains(strings.ToLower(resp.Message()), strings.ToLower(phrase))
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}
