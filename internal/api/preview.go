package api

import (
	"bytes"
	"html/template"

	"DailyHaiku/internal/service"
)

var previewTmpl = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
    <meta charset="UTF-8">
    <meta property="og:title" content="{{.View.Title}} - {{.View.Author}}" />
    <meta property="og:description" content="{{.View.Content}}" />
    <meta property="og:image" content="{{.View.ImageURL}}" />
    <meta property="og:url" content="{{.URL}}" />
    <meta property="og:type" content="article" />
    <meta name="twitter:card" content="summary_large_image" />
    <meta http-equiv="refresh" content="0; url={{.SiteURL}}" />
    <title>{{.View.Title}} - {{.View.Author}}</title>
</head>
<body>
    <script>
        window.location.href = {{.SiteURL}};
    </script>
</body>
</html>
`))

// PreviewRenderer 渲染链接预览页
type PreviewRenderer struct {
	publicBaseURL string // og:url 的域名
	siteURL       string // 浏览器跳转目标
}

func NewPreviewRenderer(publicBaseURL, siteURL string) *PreviewRenderer {
	return &PreviewRenderer{publicBaseURL: publicBaseURL, siteURL: siteURL}
}

// Render 生成 date 对应俳句的预览 HTML
func (p *PreviewRenderer) Render(v *service.PoemView, date string) ([]byte, error) {
	var buf bytes.Buffer
	err := previewTmpl.Execute(&buf, struct {
		View    *service.PoemView
		URL     string
		SiteURL string
	}{
		View:    v,
		URL:     p.publicBaseURL + "/haiku/" + date,
		SiteURL: p.siteURL,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
