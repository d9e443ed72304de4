package mailer_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/autoses/pkg/mailer"
)

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"layouts/base.html": {Data: []byte(`<main data-subject="{{.Metadata.Subject}}">{{.Content}}</main>`)},
		"note.md":           {Data: []byte("---\nSubject: Note\n---\nVisit https://example.com now, {{.Name}}.\n")},
		"broken.md":         {Data: []byte("{{.Name")},
	}
	r := mailer.NewRenderer(fsys)

	res, err := r.Render("base.html", "note.md", map[string]string{"Name": "Ann"})
	require.NoError(t, err)
	require.Contains(t, res.HTML, `data-subject="Note"`)
	require.Contains(t, res.HTML, `<a href="https://example.com">`)
	require.Equal(t, "Visit https://example.com now, Ann.\n", res.Text)

	again, err := r.Render("base.html", "note.md", map[string]string{"Name": "Bo"})
	require.NoError(t, err)
	require.Contains(t, again.Text, "Bo.")

	_, err = r.Render("base.html", "missing.md", nil)
	require.ErrorIs(t, err, mailer.ErrTemplateNotFound)

	_, err = r.Render("missing.html", "note.md", nil)
	require.ErrorIs(t, err, mailer.ErrLayoutNotFound)

	_, err = r.Render("base.html", "broken.md", nil)
	require.ErrorIs(t, err, mailer.ErrRenderFailed)
}

func TestRenderer_Buttons(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"layouts/base.html": {Data: []byte(`{{.Content}}`)},
		"cta.md":            {Data: []byte("Done.\n\n[!button|Open <dashboard>]({{.URL}}) or [a link](https://example.com/x)\n\n[!button|broken](no-close\n")},
	}

	res, err := mailer.NewRenderer(fsys).Render("base.html", "cta.md", map[string]string{
		"URL": "https://console.example.com/ses?region=eu-west-1",
	})
	require.NoError(t, err)
	require.Contains(t, res.HTML, `<a class="btn" href="https://console.example.com/ses?region=eu-west-1">Open &lt;dashboard&gt;</a>`)
	require.Contains(t, res.HTML, `<a href="https://example.com/x">a link</a>`)
	require.NotContains(t, res.HTML, `href="no-close`)
}
