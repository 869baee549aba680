// Package exportpdf renders export Documents to PDF.
//
// TableRenderer draws the document directly with gofpdf. Renderer instead
// fills an HTML template and converts it with a pluggable Engine
// (wkhtmltopdf or headless Chromium); it is gated by Renderer.Enabled.
package exportpdf
