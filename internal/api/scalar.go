package api

import (
	"bytes"
	"encoding/json"
	"html/template"
	"net/http"
)

// DefaultDocsTheme is the Scalar theme used when Config.DocsTheme is empty.
const DefaultDocsTheme = "default"

var docsPage = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html>
<head>
	<title>{{.Title}} - API Reference</title>
	<meta charset="utf-8" />
	<meta name="viewport" content="width=device-width, initial-scale=1" />
	<style>body { margin: 0; }</style>
</head>
<body>
	<script id="api-reference" data-url="{{.SpecURL}}" data-configuration="{{.Configuration}}"></script>
	<script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
</body>
</html>`))

type scalarConfig struct {
	Theme    string         `json:"theme"`
	Layout   string         `json:"layout"`
	MetaData scalarMetaData `json:"metaData"`
}

type scalarMetaData struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// ScalarHandler serves the Scalar reference for the schema at specURL,
// themed and titled from cfg. The page follows the browser's color scheme.
func ScalarHandler(specURL string, cfg *Config) http.Handler {
	theme := cfg.DocsTheme
	if theme == "" {
		theme = DefaultDocsTheme
	}
	conf, err := json.Marshal(scalarConfig{
		Theme:  theme,
		Layout: "modern",
		MetaData: scalarMetaData{
			Title:       cfg.Title,
			Description: cfg.Description,
		},
	})
	if err != nil {
		panic(err)
	}

	var buf bytes.Buffer
	if err := docsPage.Execute(&buf, map[string]string{
		"Title":         cfg.Title,
		"SpecURL":       specURL,
		"Configuration": string(conf),
	}); err != nil {
		panic(err)
	}
	page := buf.Bytes()

	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(page)
	})
}
