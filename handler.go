// Package htmldom serves parse trees of HTML documents over HTTP.
package htmldom

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"sync"

	"github.com/dpotapov/go-htmldom/shtml"
	"github.com/dpotapov/go-htmldom/shtml/dump"

	hlhtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/gorilla/websocket"
)

// indexFile is served for request paths ending with a slash.
const indexFile = "index.html"

// defaultMaxBytes limits the size of a document when Handler.MaxBytes is not set.
const defaultMaxBytes = 10 << 20

// WarningsHeader carries one parse warning per value.
const WarningsHeader = "X-Htmldom-Warnings"

// wsUpgrader is a Gorilla WebSocket instance, used to respond HTTP requests with WebSocket.
var wsUpgrader = websocket.Upgrader{}

// errBadRequest marks errors caused by invalid request parameters.
var errBadRequest = errors.New("bad request")

// errTooLarge is returned when a document exceeds Handler.MaxBytes.
var errTooLarge = errors.New("document too large")

// Handler parses HTML documents and responds with a dump of the parse tree.
//
// GET and HEAD requests parse the document at the request path in FileSystem. A path ending with
// a slash is resolved to its index.html. POST requests parse the request body. The "format" query
// parameter selects the dump format, "q" filters the tree with a shtml query and "highlight"
// answers with a syntax highlighted HTML page in the named chroma style. WebSocket clients
// send Message values and receive a Reply for each of them.
type Handler struct {
	// FileSystem to read documents from. If nil, only POST and WebSocket requests are served.
	FileSystem fs.FS

	// Format is the dump format used when the request does not select one.
	// If not set, dump.FormatTree is used.
	Format dump.Format

	// MaxBytes limits the size of a parsed document. If not set, 10 MiB are allowed.
	MaxBytes int64

	// MaxDepth limits element nesting. If not set, shtml.DefaultMaxDepth is used.
	MaxDepth int

	// OnError is a callback that is called when an error occurs while serving a request.
	// Parse failures of the requested document are responses, not errors.
	OnError func(*http.Request, error)

	// Logger configures logging for internal events.
	Logger *slog.Logger

	// init is used to initialize the handler only once.
	init sync.Once

	// logger is a private logger instance that is used to log internal events.
	logger *slog.Logger
}

// Message is a request received over a WebSocket connection.
type Message struct {
	Source string `json:"source"`
	File   string `json:"file,omitempty"`
	Format string `json:"format,omitempty"`
	Query  string `json:"query,omitempty"`
}

// Reply answers a Message. Error is set when the document could not be parsed or the message
// was invalid; Context then holds the open elements around a parse failure.
type Reply struct {
	Output   string   `json:"output,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Error    string   `json:"error,omitempty"`
	Context  string   `json:"context,omitempty"`
}

// ServeHTTP implements the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.init.Do(func() {
		h.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		if h.Logger != nil {
			h.logger = h.Logger
		}
	})

	if err := h.handleRequest(w, r); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		h.logger.Error("Serve HTTP request", "url", r.URL.Redacted(), "error", err)

		if h.OnError != nil {
			h.OnError(r, err)
		}
	}
}

func (h *Handler) handleRequest(w http.ResponseWriter, r *http.Request) error {
	if websocket.IsWebSocketUpgrade(r) {
		return h.serveWebsocket(w, r)
	}

	var (
		file string
		src  []byte
		err  error
	)
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if h.FileSystem == nil {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return nil
		}
		urlPath := cleanPath(r.URL.Path)
		file, src, err = h.readFile(urlPath)
		var dirErr *dirError
		switch {
		case errors.As(err, &dirErr):
			http.Redirect(w, r, path.Base(urlPath)+"/", http.StatusMovedPermanently)
			return nil
		case errors.Is(err, fs.ErrNotExist):
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return nil
		}
	case http.MethodPost:
		file = "request"
		src, err = io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBytes()))
		var mbErr *http.MaxBytesError
		if errors.As(err, &mbErr) {
			err = errTooLarge
		}
	default:
		w.Header().Set("Allow", "GET, HEAD, POST")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return nil
	}
	if errors.Is(err, errTooLarge) {
		http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
		return nil
	}
	if err != nil {
		return err
	}

	q := r.URL.Query()
	res, err := h.inspect(file, string(src), q.Get("format"), q.Get("q"))
	for _, d := range res.warnings {
		w.Header().Add(WarningsHeader, d.Error())
	}

	var pe *shtml.ParseError
	switch {
	case errors.Is(err, errBadRequest):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	case errors.As(err, &pe):
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprintln(w, pe.Error())
		fmt.Fprintln(w, pe.HTMLContext())
		return nil
	case err != nil:
		return err
	}

	if style := q.Get("highlight"); style != "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if r.Method == http.MethodHead {
			return nil
		}
		return dump.Highlight(w, res.format, string(res.output), hlhtml.New(hlhtml.Standalone(true)), style)
	}

	w.Header().Set("Content-Type", res.format.ContentType())
	if r.Method == http.MethodHead {
		return nil
	}
	_, err = w.Write(res.output)
	return err
}

// serveWebsocket answers every Message read from the connection until the client closes it.
// Messages that are not valid JSON are answered with a Reply carrying the error.
func (h *Handler) serveWebsocket(w http.ResponseWriter, r *http.Request) error {
	ws, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	ws.SetReadLimit(h.maxBytes())

	for {
		_, rd, err := ws.NextReader()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("read websocket message: %w", err)
		}

		var rep Reply
		var m Message
		if err := json.NewDecoder(rd).Decode(&m); err != nil {
			h.logger.Debug("Decode websocket message", "error", err)
			rep.Error = fmt.Errorf("%w: decode message: %w", errBadRequest, err).Error()
		} else {
			rep = h.reply(m)
		}

		wr, err := ws.NextWriter(websocket.TextMessage)
		if err != nil {
			return fmt.Errorf("get websocket writer: %w", err)
		}

		if err := json.NewEncoder(wr).Encode(rep); err != nil {
			return fmt.Errorf("write websocket message: %w", err)
		}

		if err := wr.Close(); err != nil {
			return fmt.Errorf("close websocket writer: %w", err)
		}
	}
}

func (h *Handler) reply(m Message) Reply {
	file := m.File
	if file == "" {
		file = "message"
	}

	res, err := h.inspect(file, m.Source, m.Format, m.Query)

	var rep Reply
	for _, d := range res.warnings {
		rep.Warnings = append(rep.Warnings, d.Error())
	}
	if err != nil {
		rep.Error = err.Error()
		var pe *shtml.ParseError
		if errors.As(err, &pe) {
			rep.Context = pe.HTMLContext()
		}
		return rep
	}
	rep.Output = string(res.output)
	return rep
}

// inspection is the outcome of parsing and rendering one document.
type inspection struct {
	format   dump.Format
	output   []byte
	warnings []shtml.Diagnostic
}

// inspect parses src and renders the tree, or the nodes matching query, in the named format.
func (h *Handler) inspect(file, src, format, query string) (inspection, error) {
	var res inspection

	if format == "" {
		format = string(h.Format)
	}
	f, err := dump.ParseFormat(format)
	if err != nil {
		return res, fmt.Errorf("%w: %w", errBadRequest, err)
	}
	res.format = f

	var q *shtml.Query
	if query != "" {
		if q, err = shtml.CompileQuery(query); err != nil {
			return res, fmt.Errorf("%w: %w", errBadRequest, err)
		}
	}

	var diags shtml.Collector
	root, err := shtml.Parse(src, &shtml.Options{
		File:        file,
		Diagnostics: &diags,
		MaxDepth:    h.MaxDepth,
	})
	res.warnings = diags.Diagnostics()

	h.logger.Debug("Parse document", "file", file, "bytes", len(src), "warnings", len(res.warnings))

	if err != nil {
		return res, err
	}

	var buf bytes.Buffer
	if q == nil {
		err = dump.Write(&buf, f, root)
	} else {
		var nodes []shtml.Node
		if nodes, err = q.FindAll(root); err != nil {
			return res, fmt.Errorf("%w: %w", errBadRequest, err)
		}
		err = dump.WriteAll(&buf, f, nodes)
	}
	if err != nil {
		return res, err
	}
	res.output = buf.Bytes()
	return res, nil
}

// dirError is returned by readFile when the path names a directory.
type dirError struct {
	name string
}

func (e *dirError) Error() string {
	return e.name + " is a directory"
}

// readFile loads the document for urlPath from the FileSystem. Paths with hidden segments are
// reported as not existing.
func (h *Handler) readFile(urlPath string) (string, []byte, error) {
	if strings.HasSuffix(urlPath, "/") {
		urlPath += indexFile
	}
	name := strings.TrimPrefix(urlPath, "/")
	for _, seg := range strings.Split(name, "/") {
		if strings.HasPrefix(seg, ".") {
			return "", nil, fs.ErrNotExist
		}
	}

	f, err := h.FileSystem.Open(name)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return "", nil, err
	}
	if fi.IsDir() {
		return "", nil, &dirError{name: name}
	}

	limit := h.maxBytes()
	src, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return "", nil, fmt.Errorf("read %s: %w", name, err)
	}
	if int64(len(src)) > limit {
		return "", nil, errTooLarge
	}
	return name, src, nil
}

func (h *Handler) maxBytes() int64 {
	if h.MaxBytes > 0 {
		return h.MaxBytes
	}
	return defaultMaxBytes
}

// cleanPath returns the canonical path for p, eliminating . and .. elements.
//
// Copied from net/http/server.go
func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}
	np := path.Clean(p)
	// path.Clean removes trailing slash except for root;
	// put the trailing slash back if necessary.
	if p[len(p)-1] == '/' && np != "/" {
		// Fast path for common case of p being the string we want:
		if len(p) == len(np)+1 && strings.HasPrefix(p, np) {
			np = p
		} else {
			np += "/"
		}
	}
	return np
}
