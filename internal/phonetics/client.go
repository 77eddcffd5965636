// Package phonetics fills the phonetic field of lexicon entries from
// Wiktionary pronunciation markup.
package phonetics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/vytor/wortdrill/internal/logger"
	"github.com/vytor/wortdrill/internal/noun"
)

const DefaultBaseURL = "https://de.wiktionary.org/api/rest_v1/page/html/"

// ErrNoPhonetic means the page was fetched but carried no IPA transcription.
var ErrNoPhonetic = errors.New("no phonetic found")

var ipaSelector = cascadia.MustCompile(".ipa")

type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		userAgent:  "wortdrill-phonetics/1.0",
	}
}

// Lookup fetches the IPA transcription of a raw lexicon word. The article and
// plural annotation are stripped before the page is requested.
func (c *Client) Lookup(ctx context.Context, raw string) (string, error) {
	word := noun.CleanWord(raw)
	if word == "" {
		return "", fmt.Errorf("%q: %w", raw, ErrNoPhonetic)
	}

	log := logger.FromContext(ctx).WithPrefix("phonetics").WithField("word", word)
	pageURL := c.baseURL + url.PathEscape(word)

	log.Debug("fetching %s", pageURL)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", word, err)
	}
	defer resp.Body.Close()

	log.Debug("response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return "", fmt.Errorf("fetch %s: status %d: %s", word, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", word, err)
	}
	return FirstIPA(doc)
}

// FirstIPA returns the first non-empty .ipa text in doc, wrapped in slashes.
func FirstIPA(doc *html.Node) (string, error) {
	for _, n := range ipaSelector.MatchAll(doc) {
		if ipa := strings.TrimSpace(textContent(n)); ipa != "" {
			return wrap(ipa), nil
		}
	}
	return "", ErrNoPhonetic
}

func wrap(ipa string) string {
	if !strings.HasPrefix(ipa, "/") {
		ipa = "/" + ipa
	}
	if !strings.HasSuffix(ipa, "/") {
		ipa += "/"
	}
	return ipa
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
