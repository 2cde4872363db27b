// Package feed renders profile price lists into the Drom XML document.
package feed

import (
	"bytes"
	"embed"
	"encoding/xml"
	"fmt"
	"io/fs"
	"text/template"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appsync "github.com/dromsync/backend/internal/application/sync"
	"github.com/dromsync/backend/internal/domain/shared"
)

//go:embed templates/*.xml.tmpl
var templateFS embed.FS

// Renderer renders feed rows through an XML template. Each profile may carry
// its own template file; profiles without one fall back to the shared
// default. A profile with neither is reported as shared.ErrNotFound, which
// the consumer treats as "nothing to sync" rather than a failure.
type Renderer struct {
	fs  fs.FS
	now func() time.Time
}

type renderContext struct {
	ProfileID   uuid.UUID
	GeneratedAt time.Time
	Rows        []appsync.FeedRow
}

// NewRenderer creates a renderer over the embedded template set
func NewRenderer() *Renderer {
	return &Renderer{fs: templateFS, now: time.Now}
}

var _ appsync.FeedRenderer = (*Renderer)(nil)

// Render produces the price-list document for one profile
func (r *Renderer) Render(profileID uuid.UUID, rows []appsync.FeedRow) ([]byte, error) {
	name, err := r.resolveTemplate(profileID)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New(name).Funcs(templateFuncs).ParseFS(r.fs, "templates/"+name)
	if err != nil {
		return nil, fmt.Errorf("parse feed template %s: %w", name, err)
	}

	var buf bytes.Buffer
	ctx := renderContext{ProfileID: profileID, GeneratedAt: r.now().UTC(), Rows: rows}
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return nil, fmt.Errorf("render feed for profile %s: %w", profileID, err)
	}
	return buf.Bytes(), nil
}

// resolveTemplate picks the profile-specific template when present, the
// default otherwise.
func (r *Renderer) resolveTemplate(profileID uuid.UUID) (string, error) {
	candidates := []string{
		fmt.Sprintf("pricelist_%s.xml.tmpl", profileID),
		"pricelist.xml.tmpl",
	}
	for _, name := range candidates {
		if _, err := fs.Stat(r.fs, "templates/"+name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: no feed template for profile %s", shared.ErrNotFound, profileID)
}

var templateFuncs = template.FuncMap{
	"xmlEscape":   xmlEscape,
	"formatPrice": formatPrice,
}

func xmlEscape(s string) string {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return s
	}
	return buf.String()
}

// formatPrice renders a price with two decimal places and no separators,
// which is what the packet endpoint parses.
func formatPrice(d decimal.Decimal) string {
	return d.StringFixed(2)
}
