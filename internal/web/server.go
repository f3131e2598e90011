package web

import (
	"context"
	"html/template"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ukaji/marketbrief/internal/collect"
	"github.com/ukaji/marketbrief/internal/model"
	"github.com/ukaji/marketbrief/internal/report"
)

// Briefer produces a briefing for a query. Satisfied by *collect.Collector.
type Briefer interface {
	Collect(ctx context.Context, query string, targets []collect.FeedTarget) *model.Briefing
}

// Server renders briefings on demand over HTTP
type Server struct {
	echo     *echo.Echo
	cfg      *model.Config
	briefer  Briefer
	renderer *report.Renderer
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="utf-8">
<title>市況ブリーフィング: {{.Query}}</title>
<style>
body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; }
pre { background: #f6f6f6; padding: 1rem; white-space: pre-wrap; word-break: break-all; }
li { margin-bottom: .5rem; }
.meta { color: #666; font-size: .85em; }
.error { color: #a00; }
</style>
</head>
<body>
<h1>市況ブリーフィング: {{.Query}}</h1>
<p class="meta">収集日時: {{.CollectedAt}}</p>
<form method="get" action="/">
<input type="text" name="q" value="{{.Query}}" placeholder="検索キーワード">
<button type="submit">更新</button>
</form>
{{if .FeedErrors}}
<h2>取得エラー</h2>
<ul>
{{range .FeedErrors}}<li class="error">{{.}}</li>
{{end}}</ul>
{{end}}
<h2>ニュース一覧</h2>
{{if .Items}}
<ul>
{{range .Items}}<li><a href="{{.Link}}" rel="noopener noreferrer">{{.Title}}</a>
<div class="meta">{{.Source}}{{if .Published}} · {{.Published}}{{end}}</div></li>
{{end}}</ul>
{{else}}
<p>表示できる項目がありません。</p>
{{end}}
<h2>レポート</h2>
<pre>{{.Report}}</pre>
</body>
</html>
`))

type pageData struct {
	Query       string
	CollectedAt string
	Items       []model.NewsItem
	FeedErrors  []string
	Report      string
}

// NewServer creates a web server around a collector
func NewServer(cfg *model.Config, briefer Briefer) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	s := &Server{
		echo:     e,
		cfg:      cfg,
		briefer:  briefer,
		renderer: report.NewRenderer(cfg.Output.IncludeFooter),
	}

	e.GET("/", s.handleIndex)
	e.GET("/healthz", s.handleHealth)

	return s
}

// Start runs the server until it fails or is shut down
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) handleIndex(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		query = s.cfg.Feeds.Query
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), s.cfg.HTTP.Timeout)
	defer cancel()

	briefing := s.briefer.Collect(ctx, query, collect.DefaultTargets(query))

	opts := report.Options{IsolateUnknownSources: s.cfg.Output.IsolateUnknownSources}
	doc, err := s.renderer.MarkdownDocument(briefing, opts)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var b strings.Builder
	if err := pageTemplate.Execute(&b, pageData{
		Query:       briefing.Query,
		CollectedAt: briefing.CollectedAt.UTC().Format("2006-01-02 15:04 UTC"),
		Items:       briefing.Items,
		FeedErrors:  briefing.FeedErrors,
		Report:      doc,
	}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.HTML(http.StatusOK, b.String())
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
