// Package templates holds the HTML components of the web UI as templ
// components.
package templates

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/JonMunkholm/etiquetas/internal/core"
	"github.com/JonMunkholm/etiquetas/internal/history"
	"github.com/JonMunkholm/etiquetas/internal/productcode"
	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"
)

// IndexData is everything the main page shows.
type IndexData struct {
	Records     []core.Record
	Imports     []history.Entry
	Mapping     productcode.Mapping
	MaxFileSize string
}

// htmlWriter collects the first write error so components can be written
// as a flat sequence of calls.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) rawf(format string, args ...any) {
	h.raw(fmt.Sprintf(format, args...))
}

// ErrorAlert renders an error fragment for HTMX swaps.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div class="alert alert-error" role="alert"><p class="alert-message">`)
		h.text(message)
		h.raw(`</p>`)
		if action != "" {
			h.raw(`<p class="alert-action">`)
			h.text(action)
			h.raw(`</p>`)
		}
		h.raw(`<p class="alert-code">`)
		h.text(code)
		h.raw(`</p></div>`)
		return h.err
	})
}

// Index renders the main page: import forms, print links, the record
// preview, recent imports and the product mapping form.
func Index(d IndexData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!DOCTYPE html><html lang="es"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>Etiquetas de envío</title></head><body><main>`)
		h.raw(`<h1>Etiquetas de envío</h1><div id="alerts"></div>`)

		importForms(h, d.MaxFileSize)
		printLinks(h)
		recordTable(h, d.Records)
		importList(h, d.Imports)
		mappingForm(h, d.Mapping)

		h.raw(`</main></body></html>`)
		return h.err
	})
}

func importForms(h *htmlWriter, maxSize string) {
	h.raw(`<section id="import"><h2>Importar</h2>`)
	h.raw(`<form method="post" action="/import/csv" enctype="multipart/form-data" hx-post="/import/csv" hx-target="#alerts">`)
	h.raw(`<label>Archivo CSV <input type="file" name="file" accept=".csv,text/csv" required></label>`)
	if maxSize != "" {
		h.raw(`<small>Máximo `)
		h.text(maxSize)
		h.raw(`</small>`)
	}
	h.raw(`<button type="submit">Subir</button></form>`)
	h.raw(`<form method="post" action="/import/sheet" hx-post="/import/sheet" hx-target="#alerts">`)
	h.raw(`<label>Hoja de cálculo <input type="url" name="sheet_url" required></label>`)
	h.raw(`<button type="submit">Importar</button></form></section>`)
}

func printLinks(h *htmlWriter) {
	h.raw(`<section id="print"><h2>Imprimir</h2>`)
	h.raw(`<form method="get" action="/etiquetas.pdf">`)
	h.raw(`<label>Desplazamiento X (mm) <input type="number" step="0.1" name="offset_x" value="0"></label>`)
	h.raw(`<label>Desplazamiento Y (mm) <input type="number" step="0.1" name="offset_y" value="0"></label>`)
	h.raw(`<label><input type="checkbox" name="guides" value="true"> Guías</label>`)
	h.raw(`<button type="submit">Etiquetas de dirección</button>`)
	h.raw(`<button type="submit" formaction="/etiquetas_or.pdf">Etiquetas OR</button>`)
	h.raw(`</form></section>`)
}

var recordColumns = []string{"Enviar", "Nombre", "Empresa", "Dirección", "CP", "Ciudad", "Zona", "Producto", "País", "Internacional"}

func recordTable(h *htmlWriter, records []core.Record) {
	h.rawf(`<section id="records"><h2>Datos (%d)</h2>`, len(records))
	if len(records) == 0 {
		h.raw(`<p>No hay datos importados.</p></section>`)
		return
	}

	h.raw(`<table><thead><tr>`)
	for _, c := range recordColumns {
		h.raw(`<th>`)
		h.text(c)
		h.raw(`</th>`)
	}
	h.raw(`</tr></thead><tbody>`)
	for _, r := range records {
		h.raw(`<tr>`)
		for _, v := range []string{
			yesNo(r.Send), r.Name, r.Company, r.Address, r.PostalCode,
			r.City, r.Zone, r.ProductCode, r.Country, yesNo(r.International),
		} {
			h.raw(`<td>`)
			h.text(v)
			h.raw(`</td>`)
		}
		h.raw(`</tr>`)
	}
	h.raw(`</tbody></table></section>`)
}

func importList(h *htmlWriter, entries []history.Entry) {
	h.raw(`<section id="imports"><h2>Importaciones recientes</h2>`)
	if len(entries) == 0 {
		h.raw(`<p>Sin importaciones.</p></section>`)
		return
	}
	h.raw(`<ul>`)
	for _, e := range entries {
		h.raw(`<li>`)
		h.text(e.CreatedAt.Local().Format(time.DateTime))
		h.raw(` · `)
		h.text(string(e.Source))
		h.raw(` · `)
		h.text(e.Label)
		h.rawf(` · %s guardadas, %s descartadas`, humanize.Comma(int64(e.Stored)), humanize.Comma(int64(e.Skipped)))
		h.raw(`</li>`)
	}
	h.raw(`</ul></section>`)
}

func mappingForm(h *htmlWriter, m productcode.Mapping) {
	h.raw(`<section id="mapping"><h2>Productos</h2>`)
	h.raw(`<form method="post" action="/admin/productos"><table>`)
	h.raw(`<thead><tr><th>Producto</th><th>Código</th></tr></thead><tbody>`)

	var combos []productcode.Entry
	for _, e := range m.Entries() {
		if _, ok := e.Codes.(productcode.Combo); ok {
			combos = append(combos, e)
			continue
		}
		h.raw(`<tr><td><input name="product_id" value="`)
		h.text(e.ID)
		h.raw(`"></td><td><input name="product_code" value="`)
		h.text(strings.Join(e.Codes.List(), ""))
		h.raw(`"></td></tr>`)
	}
	h.raw(`<tr><td><input name="product_id"></td><td><input name="product_code"></td></tr>`)
	h.raw(`</tbody></table><table>`)
	h.raw(`<thead><tr><th>Pack</th><th>Contenido</th></tr></thead><tbody>`)
	for _, e := range combos {
		h.raw(`<tr><td><input name="combo_id" value="`)
		h.text(e.ID)
		h.raw(`"></td><td><input name="combo_contents" value="`)
		h.text(strings.Join(e.Codes.List(), ","))
		h.raw(`"></td></tr>`)
	}
	h.raw(`<tr><td><input name="combo_id"></td><td><input name="combo_contents"></td></tr>`)
	h.raw(`</tbody></table><button type="submit">Guardar</button></form></section>`)
}

func yesNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}
