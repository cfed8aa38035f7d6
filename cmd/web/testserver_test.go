package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/textproto"
	url2 "net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/myrjola/dockwatch/internal/errors"
	"github.com/myrjola/dockwatch/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCollaborator serves canned OpenAI-style chat completions so the e2e
// tests never leave the machine.
type fakeCollaborator struct {
	server  *httptest.Server
	content string
	status  int
}

func newFakeCollaborator(t *testing.T, content string, status int) *fakeCollaborator {
	t.Helper()
	fake := &fakeCollaborator{content: content, status: status, server: nil}
	fake.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if fake.status != http.StatusOK {
			http.Error(w, "upstream failure", fake.status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		response := map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "gpt-4o",
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]any{"role": "assistant", "content": fake.content},
					"finish_reason": "stop",
				},
			},
		}
		assert.NoError(t, json.NewEncoder(w).Encode(response))
	}))
	t.Cleanup(fake.server.Close)
	return fake
}

const validReportJSON = `{
  "investigation_id": "INV-4452",
  "summary": "Pallet count mismatch at dock 7.",
  "discrepancies_found": [
    {
      "type": "QUANTITY_VARIANCE",
      "description": "Manifest lists 24 pallets, footage shows 21 loaded.",
      "evidence": {
        "video": {"timestamp": "14:02", "observation": "21 pallets cross the dock threshold"},
        "document": {"manifest_id": "MAN-9981", "field": "pallet_count"}
      },
      "confidence": "HIGH",
      "risk_score": 9
    }
  ],
  "persons_of_interest": [
    {"name": "R. Vance", "role": "Driver", "flag_count": 3, "relation_to_incident": "Loaded the truck"}
  ],
  "recommended_actions": ["Audit dock 7 scans for the past month"],
  "shrinkage_estimate_usd": "$12,400"
}`

// testLookupEnv configures the server for in-process testing: a dynamic port,
// an in-memory database and the fake collaborator endpoint.
func testLookupEnv(collaboratorURL string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		switch key {
		case "DOCKWATCH_ADDR":
			return "localhost:0", true
		case "DOCKWATCH_PPROF_PORT":
			return ":0", true
		case "DOCKWATCH_SQLITE_URL":
			return ":memory:", true
		case "OPENAI_API_KEY":
			return "test-key", true
		case "DOCKWATCH_OPENAI_BASE_URL":
			return collaboratorURL, true
		default:
			return "", false
		}
	}
}

// waitForReady calls the specified endpoint until it gets a HTTP 200 Success
// response or until the context is cancelled or the 1-second timeout is reached.
func waitForReady(ctx context.Context, endpoint string) error {
	timeout := 1 * time.Second
	client := http.Client{} //nolint:exhaustruct // defaults are fine
	startTime := time.Now()
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	for {
		if req, err = http.NewRequestWithContext(
			ctx,
			http.MethodGet,
			endpoint,
			nil,
		); err != nil {
			return errors.Wrap(err, "create request")
		}

		if resp, err = client.Do(req); err == nil {
			if resp.StatusCode == http.StatusOK {
				if err = resp.Body.Close(); err != nil {
					return errors.Wrap(err, "close response body")
				}
				return nil
			}
			if err = resp.Body.Close(); err != nil {
				return errors.Wrap(err, "close response body")
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(250 * time.Millisecond)
		}
	}
}

type unsafeCookieJar struct {
	jar *cookiejar.Jar
}

// newUnsafeCookieJar returns a [http.CookieJar] that does not enforce the Secure flag. This is useful for testing.
func newUnsafeCookieJar(t *testing.T) *unsafeCookieJar {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &unsafeCookieJar{jar: jar}
}

func (u *unsafeCookieJar) SetCookies(url *url2.URL, cookies []*http.Cookie) {
	for _, cookie := range cookies {
		cookie.Secure = false
	}
	u.jar.SetCookies(url, cookies)
}

func (u *unsafeCookieJar) Cookies(url *url2.URL) []*http.Cookie {
	return u.jar.Cookies(url)
}

type testServer struct {
	url    string
	client http.Client
}

// startTestServer starts the test server, waits for it to be ready, and
// returns a client-carrying handle for driving it.
func startTestServer(t *testing.T, w io.Writer, lookupEnv func(string) (string, bool)) *testServer {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	// We need to grab the dynamically allocated port from the log output.
	addrCh := make(chan string, 1)
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(w, &slog.HandlerOptions{
		AddSource: false,
		Level:     slog.LevelDebug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == "Addr" {
				addrCh <- a.Value.String()
			}
			return a
		},
	})))

	// Start the server and wait for it to be ready.
	go func() {
		if err := run(ctx, logger, lookupEnv); err != nil {
			cancel()
			assert.NoError(t, err)
		}
	}()
	select {
	case <-ctx.Done():
		t.Fatal("server failed to start")
		return nil
	case addr := <-addrCh:
		serverURL := fmt.Sprintf("http://%s", addr)
		require.NoError(t, waitForReady(ctx, fmt.Sprintf("%s/api/healthy", serverURL)))
		return &testServer{
			url:    serverURL,
			client: http.Client{Jar: newUnsafeCookieJar(t)}, //nolint:exhaustruct // defaults are fine
		}
	}
}

// GetDoc fetches a URL and returns a goquery document.
func (s *testServer) GetDoc(t *testing.T, urlPath string) *goquery.Document {
	t.Helper()
	resp, err := s.client.Get(s.url + urlPath)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer func() {
		require.NoError(t, resp.Body.Close())
	}()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	return doc
}

// csrfToken extracts the CSRF token from the form posting to the given action.
func (s *testServer) csrfToken(t *testing.T, doc *goquery.Document, action string) string {
	t.Helper()
	formSelector := fmt.Sprintf("form[action='%s']", action)
	form := doc.Find(formSelector)
	require.Equal(t, 1, form.Length(), "form %s not found", formSelector)
	token, ok := form.Find("input[name=csrf_token]").Attr("value")
	require.True(t, ok, "csrf_token not found in form %s", formSelector)
	return token
}

// UploadEvidence posts a file into the category slot and returns the document
// the redirect lands on.
func (s *testServer) UploadEvidence(
	t *testing.T,
	category string,
	filename string,
	contentType string,
	content []byte,
) *goquery.Document {
	t.Helper()
	action := fmt.Sprintf("/evidence/%s", category)
	token := s.csrfToken(t, s.GetDoc(t, "/"), action)

	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("csrf_token", token))
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="evidence"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := s.client.Post(s.url+action, mw.FormDataContentType(), body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer func() {
		require.NoError(t, resp.Body.Close())
	}()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	return doc
}

// SubmitForm posts an urlencoded form found on formURLPath with the given
// action and values and returns the document the response renders.
func (s *testServer) SubmitForm(
	t *testing.T,
	formURLPath string,
	action string,
	values url2.Values,
) *goquery.Document {
	t.Helper()
	token := s.csrfToken(t, s.GetDoc(t, formURLPath), action)

	if values == nil {
		values = url2.Values{}
	}
	values.Set("csrf_token", token)
	resp, err := s.client.Post(
		s.url+action, "application/x-www-form-urlencoded", strings.NewReader(values.Encode()))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer func() {
		require.NoError(t, resp.Body.Close())
	}()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	return doc
}
