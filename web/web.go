// Package web содержит встроенные HTML шаблоны и статику справочника.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/url"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// PhotoURLPrefix - путь, по которому раздаются загруженные фото
const PhotoURLPrefix = "/images/"

// Templates разбирает все шаблоны страниц
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"photoURL": PhotoURL,
	}).ParseFS(templateFS, "templates/*.html")
}

// Static возвращает файловую систему со статикой (css)
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// PhotoURL строит ссылку на фото, для пустого имени - заглушка
func PhotoURL(name string) string {
	if name == "" {
		return "/static/noimage.svg"
	}
	return PhotoURLPrefix + url.PathEscape(name)
}
