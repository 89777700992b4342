package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"docrag/internal/contextutil"
	"docrag/internal/service"
)

// DocumentHandler serves a stored document rebuilt from its chunks.
// Markdown documents are rendered to HTML, everything else is shown preformatted.
// Pass ?format=json for the raw DocumentView.
type DocumentHandler struct {
	ragService service.RAGService
	markdown   goldmark.Markdown
	template   *template.Template
	logger     *slog.Logger
}

// documentPageData holds template data for rendered document pages.
type documentPageData struct {
	Title     string
	Path      string
	Chunks    int
	CreatedAt string
	HTML      template.HTML
	Text      string
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(ragService service.RAGService) *DocumentHandler {
	tmpl := template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
      margin: 0 auto;
      padding: 2rem;
      max-width: 900px;
      line-height: 1.7;
    }
    header {
      margin-bottom: 2rem;
      border-bottom: 1px solid #ddd;
    }
    pre {
      white-space: pre-wrap;
      background: #f6f8fa;
      padding: 1rem;
      border-radius: 8px;
    }
    .meta {
      color: #666;
      font-size: 0.95rem;
    }
  </style>
</head>
<body>
  <header>
    <h1>{{.Title}}</h1>
    <p class="meta">Path: {{.Path}} &middot; {{.Chunks}} chunks &middot; ingested {{.CreatedAt}}</p>
  </header>
  <article>{{if .HTML}}{{.HTML}}{{else}}<pre>{{.Text}}</pre>{{end}}</article>
</body>
</html>`))

	return &DocumentHandler{
		ragService: ragService,
		markdown: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Typographer,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
		template: tmpl,
		logger:   slog.Default(),
	}
}

// ServeHTTP handles GET /api/v1/documents/{id}.
func (h *DocumentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx, h.logger)

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	doc, err := h.ragService.Document(ctx, id)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to load document")
		return
	}

	if r.URL.Query().Get("format") == "json" {
		writeJSON(w, http.StatusOK, doc)
		return
	}

	page := documentPageData{
		Title:     filepath.Base(doc.Path),
		Path:      doc.Path,
		Chunks:    doc.Chunks,
		CreatedAt: doc.CreatedAt.Format("2006-01-02 15:04:05 MST"),
		Text:      doc.Text,
	}
	if isMarkdown(doc.Path) {
		rendered, err := h.renderMarkdown([]byte(doc.Text))
		if err != nil {
			logger.ErrorContext(ctx, "failed to render markdown", "doc_id", doc.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to render document")
			return
		}
		page.HTML = template.HTML(rendered)
	}

	var buf bytes.Buffer
	if err := h.template.Execute(&buf, page); err != nil {
		logger.ErrorContext(ctx, "failed to execute document template", "doc_id", doc.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to render document")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (h *DocumentHandler) renderMarkdown(content []byte) (string, error) {
	var buf bytes.Buffer
	if err := h.markdown.Convert(content, &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	default:
		return false
	}
}
