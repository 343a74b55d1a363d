package htmldom

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/dpotapov/go-htmldom/shtml/dump"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

const indexTree = `Root
├─ Document html
└─ Element <html>
   └─ Element <body>
      ├─ Element <h1 class="title">
      │  └─ Text "Index"
      └─ Element <a href="/docs/">
         └─ Text "Docs"
`

func TestHandler(t *testing.T) {
	tests := []struct {
		url        string
		wantStatus int
		wantBody   string
	}{
		{"GET /", 200, indexTree},
		{"GET /index.html", 200, indexTree},
		{"GET /?format=html", 200, `<!DOCTYPE html><html><body><h1 class="title">Index</h1><a href="/docs/">Docs</a></body></html>`},
		{"GET /docs/?format=html", 200, "<div><p>Docs</p></div>"},
		{"GET /docs/../index.html?format=html", 200, `<!DOCTYPE html><html><body><h1 class="title">Index</h1><a href="/docs/">Docs</a></body></html>`},
		{"GET /?format=html&q=" + url.QueryEscape(`tag == "a"`), 200, "<a href=\"/docs/\">Docs</a>\n"},
		{"GET /?q=" + url.QueryEscape(`kind == "text"`), 200, "Text \"Index\"\nText \"Docs\"\n"},
		{"GET /missing.html", 404, "Not Found\n"},
		{"GET /.hidden/secret.html", 404, "Not Found\n"},
		{"GET /broken.html", 422, "broken.html:3:5: unclosed element <p>: found </body>\n<html><body><p>...</p></body></html>\n"},
		{"GET /?format=yaml", 400, "bad request: unknown format \"yaml\"\n"},
		{"HEAD /", 200, ""},
		{"PUT /", 405, "Method Not Allowed\n"},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("%d_%s", i, tt.url), func(t *testing.T) {
			urlParts := strings.SplitN(tt.url, " ", 2)
			method, target := urlParts[0], urlParts[1]
			req, err := http.NewRequest(method, target, nil)
			require.NoError(t, err)

			rr := httptest.NewRecorder()

			h := &Handler{
				FileSystem: os.DirFS("testdata"),
				OnError:    func(r *http.Request, handlerErr error) { err = handlerErr },
			}

			h.ServeHTTP(rr, req)

			require.NoError(t, err)
			require.Equal(t, tt.wantStatus, rr.Code)
			require.Equal(t, tt.wantBody, rr.Body.String())
		})
	}
}

func TestHandlerRedirectsDirectories(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/docs", nil)
	rr := httptest.NewRecorder()

	h := &Handler{FileSystem: os.DirFS("testdata")}
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusMovedPermanently, rr.Code)
	require.Equal(t, "/docs/", rr.Header().Get("Location"))
}

func TestHandlerWarnings(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/warn.html?format=html", nil)
	rr := httptest.NewRecorder()

	h := &Handler{FileSystem: os.DirFS("testdata")}
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "<p>ab</p>", rr.Body.String())
	require.Equal(t, []string{
		`warn.html:1:4: malformed attribute "title="`,
		`warn.html:1:13: unrecognized unit "<"`,
	}, rr.Header().Values(WarningsHeader))
}

func TestHandlerPost(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/?format=json", strings.NewReader(`<b id="1">x</b>`))
	rr := httptest.NewRecorder()

	h := &Handler{Format: dump.FormatHTML}
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var got dump.JSONNode
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got.Children, 1)
	require.Equal(t, "b", got.Children[0].Tag)
	require.Equal(t, map[string]string{"id": "1"}, got.Children[0].Attrs)

	// Void elements with children are written with the children after them.
	var onErr error
	h.OnError = func(_ *http.Request, err error) { onErr = err }
	req = httptest.NewRequest(http.MethodPost, "/?format=html", strings.NewReader(`<br>x</br>`))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.NoError(t, onErr)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "<br/>x", rr.Body.String())

	// The handler's default format applies without a format parameter.
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`<b id="1">x</b>`))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, `<b id="1">x</b>`, rr.Body.String())
}

func TestHandlerLimits(t *testing.T) {
	h := &Handler{FileSystem: os.DirFS("testdata"), MaxBytes: 16}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 17)))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)

	h = &Handler{FileSystem: os.DirFS("testdata"), MaxDepth: 1}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.Contains(t, rr.Body.String(), "elements nested too deeply <body>")

	var onErr error
	h = &Handler{OnError: func(_ *http.Request, err error) { onErr = err }}
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("<a>", 1<<20)))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.Contains(t, rr.Body.String(), "elements nested too deeply <a>")
	require.NoError(t, onErr)
}

func TestHandlerWebsocket(t *testing.T) {
	srv := httptest.NewServer(&Handler{})
	defer srv.Close()

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer ws.Close()

	tests := []struct {
		msg  Message
		want Reply
	}{
		{
			Message{Source: "<p>x</p>", Format: "html"},
			Reply{Output: "<p>x</p>"},
		},
		{
			Message{Source: "<ul><li>a</li><li>b</li></ul>", Format: "html", Query: `tag == "li"`},
			Reply{Output: "<li>a</li>\n<li>b</li>\n"},
		},
		{
			Message{Source: "<p a=>x</p>", File: "a.html", Format: "html"},
			Reply{Output: "<p>x</p>", Warnings: []string{`a.html:1:4: malformed attribute "a="`}},
		},
		{
			Message{Source: "<div><p>x</div>"},
			Reply{Error: "message:1:6: unclosed element <p>: found </div>", Context: "<div><p>...</p></div>"},
		},
		{
			Message{Source: "x", Query: "1 +"},
			Reply{Error: "bad request: compile query: "},
		},
	}
	for _, tt := range tests {
		require.NoError(t, ws.WriteJSON(tt.msg))

		var got Reply
		require.NoError(t, ws.ReadJSON(&got))

		if strings.HasSuffix(tt.want.Error, ": ") {
			require.True(t, strings.HasPrefix(got.Error, tt.want.Error), got.Error)
			continue
		}
		require.Equal(t, tt.want, got)
	}

	err = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	require.NoError(t, err)
}

func TestHandlerWebsocketInvalidMessage(t *testing.T) {
	srv := httptest.NewServer(&Handler{})
	defer srv.Close()

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer ws.Close()

	for _, msg := range []string{"{not json", ""} {
		require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(msg)))

		var got Reply
		require.NoError(t, ws.ReadJSON(&got))
		require.True(t, strings.HasPrefix(got.Error, "bad request: decode message: "), got.Error)
		require.Empty(t, got.Output)
	}

	require.NoError(t, ws.WriteJSON(Message{Source: "<p>x</p>", Format: "html"}))
	var got Reply
	require.NoError(t, ws.ReadJSON(&got))
	require.Equal(t, Reply{Output: "<p>x</p>"}, got)

	err = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	require.NoError(t, err)
}

func TestHandlerHighlight(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/docs/?format=html&highlight=monokai", nil)
	rr := httptest.NewRecorder()

	h := &Handler{FileSystem: os.DirFS("testdata")}
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	require.Contains(t, rr.Body.String(), "<body")
	require.Contains(t, rr.Body.String(), "&lt;")
}
