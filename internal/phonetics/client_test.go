package phonetics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const tischPage = `<!DOCTYPE html><html><body>
<section><h3>Aussprache</h3>
<dl><dd>IPA: <span class="ipa"> </span><span class="ipa">t<b>ɪ</b>ʃ</span>, Plural: <span class="ipa">ˈtɪʃə</span></dd></dl>
</section></body></html>`

func newWiktionary(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/Tisch":
			_, _ = w.Write([]byte(tischPage))
		case "/Mädchen":
			_, _ = w.Write([]byte(`<html><body><span class="ipa">/ˈmɛːtçən/</span></body></html>`))
		case "/Leer":
			_, _ = w.Write([]byte(`<html><body><p>kein Eintrag</p></body></html>`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Lookup(t *testing.T) {
	srv := newWiktionary(t)
	c := NewClient(srv.URL)

	ipa, err := c.Lookup(context.Background(), "der Tisch, -e")
	require.NoError(t, err)
	assert.Equal(t, "/tɪʃ/", ipa)

	ipa, err = c.Lookup(context.Background(), "das Mädchen, -")
	require.NoError(t, err)
	assert.Equal(t, "/ˈmɛːtçən/", ipa)
}

func TestClient_LookupMissing(t *testing.T) {
	srv := newWiktionary(t)
	c := NewClient(srv.URL + "/")

	_, err := c.Lookup(context.Background(), "das Leer")
	assert.ErrorIs(t, err, ErrNoPhonetic)

	_, err = c.Lookup(context.Background(), "der Unbekannte")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoPhonetic)
	assert.Contains(t, err.Error(), "status 404")

	_, err = c.Lookup(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrNoPhonetic)
}

func TestFirstIPA_Wraps(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<div><i class="ipa">aʊ̯</i></div>`))
	require.NoError(t, err)
	ipa, err := FirstIPA(doc)
	require.NoError(t, err)
	assert.Equal(t, "/aʊ̯/", ipa)
}
