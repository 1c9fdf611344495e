package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sweeezy/backend/internal/model"
)

// fakeArticleRepo is an in-memory ArticleRepository keyed by URL.
type fakeArticleRepo struct {
	byURL     map[string]*model.Article
	createErr error
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{byURL: map[string]*model.Article{}}
}

func (r *fakeArticleRepo) FindByID(ctx context.Context, id string) (*model.Article, error) {
	for _, a := range r.byURL {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (r *fakeArticleRepo) FindByURL(ctx context.Context, url string) (*model.Article, error) {
	return r.byURL[url], nil
}

func (r *fakeArticleRepo) Create(ctx context.Context, article *model.Article) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.byURL[article.URL] = article
	return nil
}

func (r *fakeArticleRepo) Update(ctx context.Context, article *model.Article) error {
	r.byURL[article.URL] = article
	return nil
}

func (r *fakeArticleRepo) Delete(ctx context.Context, id string) error { return nil }

func (r *fakeArticleRepo) List(ctx context.Context, language string, status model.ArticleStatus, includeDrafts bool, limit int) ([]*model.Article, error) {
	return nil, nil
}

// fakeFeedRepo records MarkImported calls.
type fakeFeedRepo struct {
	marked map[string]time.Time
}

func newFakeFeedRepo() *fakeFeedRepo {
	return &fakeFeedRepo{marked: map[string]time.Time{}}
}

func (r *fakeFeedRepo) FindByID(ctx context.Context, id string) (*model.RSSFeed, error) {
	return nil, nil
}
func (r *fakeFeedRepo) FindByURL(ctx context.Context, url string) (*model.RSSFeed, error) {
	return nil, nil
}
func (r *fakeFeedRepo) Create(ctx context.Context, feed *model.RSSFeed) error { return nil }
func (r *fakeFeedRepo) Update(ctx context.Context, feed *model.RSSFeed) error { return nil }
func (r *fakeFeedRepo) Delete(ctx context.Context, id string) error           { return nil }
func (r *fakeFeedRepo) List(ctx context.Context) ([]*model.RSSFeed, error)    { return nil, nil }
func (r *fakeFeedRepo) ListEnabled(ctx context.Context) ([]*model.RSSFeed, error) {
	return nil, nil
}
func (r *fakeFeedRepo) MarkImported(ctx context.Context, id string, at time.Time) error {
	r.marked[id] = at
	return nil
}

// fakeFetcher serves canned documents by URL.
type fakeFetcher struct {
	pages map[string]string
	blobs map[string][]byte
}

func (f *fakeFetcher) Text(url string, timeout time.Duration) string {
	return f.pages[url]
}

func (f *fakeFetcher) Bytes(url string, timeout time.Duration) []byte {
	if f.blobs != nil {
		return f.blobs[url]
	}
	return []byte(f.pages[url])
}

// passSanitizer returns input unchanged.
type passSanitizer struct{}

func (passSanitizer) Sanitize(rawHTML string) string { return rawHTML }

const sampleFeed = `<?xml version="1.0"?>
<rss version="2.0"><channel>
<title>Example News</title>
<item>
  <title>First article</title>
  <link>https://news.example.ch/a1</link>
  <description>Summary one</description>
  <pubDate>Mon, 02 Jan 2023 15:04:05 GMT</pubDate>
</item>
<item>
  <title>Second article</title>
  <link>https://news.example.ch/a2</link>
  <description>&lt;img src="https://img.example.ch/pic.jpg"&gt; Summary two</description>
</item>
</channel></rss>`

func newTestImporter(articles *fakeArticleRepo, feeds *fakeFeedRepo, fetcher *fakeFetcher, uploadDir string) *Importer {
	imp := New(articles, feeds, fetcher, passSanitizer{}, nil, uploadDir)
	imp.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return imp
}

func TestImportFromURL_FeedCreatesArticles(t *testing.T) {
	articles := newFakeArticleRepo()
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://news.example.ch/feed": sampleFeed,
	}}
	imp := newTestImporter(articles, newFakeFeedRepo(), fetcher, t.TempDir())

	result := imp.ImportFromURL(context.Background(), "https://news.example.ch/feed", Options{})

	if result.Created != 2 || result.Updated != 0 || result.Skipped != 0 {
		t.Fatalf("result = %+v, want 2 created", result)
	}

	a1 := articles.byURL["https://news.example.ch/a1"]
	if a1 == nil {
		t.Fatal("first article not stored")
	}
	if a1.Title != "First article" {
		t.Errorf("title = %q", a1.Title)
	}
	if a1.Source != "news.example.ch" {
		t.Errorf("source = %q", a1.Source)
	}
	if a1.Status != model.ArticleStatusPublished {
		t.Errorf("status = %q, want published default", a1.Status)
	}
	if a1.PublishedAt.IsZero() {
		t.Error("published_at should be set")
	}
}

func TestImportFromURL_SecondRunUpdates(t *testing.T) {
	articles := newFakeArticleRepo()
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://news.example.ch/feed": sampleFeed,
	}}
	imp := newTestImporter(articles, newFakeFeedRepo(), fetcher, t.TempDir())

	first := imp.ImportFromURL(context.Background(), "https://news.example.ch/feed", Options{})
	second := imp.ImportFromURL(context.Background(), "https://news.example.ch/feed", Options{})

	if first.Created != 2 {
		t.Fatalf("first run = %+v", first)
	}
	if second.Created != 0 || second.Updated != 2 {
		t.Fatalf("second run = %+v, want 2 updated", second)
	}
	if len(articles.byURL) != 2 {
		t.Errorf("store holds %d articles, want 2", len(articles.byURL))
	}
}

func TestImportFromURL_EntryWithoutLinkSkipped(t *testing.T) {
	feed := `<?xml version="1.0"?>
<rss version="2.0"><channel><title>x</title>
<item><title>No link here</title></item>
<item><title>Good</title><link>https://news.example.ch/ok</link></item>
</channel></rss>`

	articles := newFakeArticleRepo()
	fetcher := &fakeFetcher{pages: map[string]string{"https://news.example.ch/feed": feed}}
	imp := newTestImporter(articles, newFakeFeedRepo(), fetcher, t.TempDir())

	result := imp.ImportFromURL(context.Background(), "https://news.example.ch/feed", Options{})

	if result.Created != 1 || result.Skipped != 1 {
		t.Fatalf("result = %+v, want 1 created 1 skipped", result)
	}
}

func TestImportFromURL_MaxItemsBound(t *testing.T) {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?><rss version="2.0"><channel><title>x</title>`)
	for i := 0; i < 5; i++ {
		fmt.Fprintf(&b, `<item><title>t</title><link>https://news.example.ch/n%d</link></item>`, i)
	}
	b.WriteString(`</channel></rss>`)

	articles := newFakeArticleRepo()
	fetcher := &fakeFetcher{pages: map[string]string{"https://news.example.ch/feed": b.String()}}
	imp := newTestImporter(articles, newFakeFeedRepo(), fetcher, t.TempDir())

	result := imp.ImportFromURL(context.Background(), "https://news.example.ch/feed", Options{MaxItems: 3})

	if result.Created != 3 {
		t.Fatalf("result = %+v, want 3 created", result)
	}
}

func TestImportFromURL_DiscoveryFallback(t *testing.T) {
	page := `<html><head>
<link rel="alternate" type="application/rss+xml" href="/feed.xml">
</head><body>hello</body></html>`

	articles := newFakeArticleRepo()
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://news.example.ch/":         page,
		"https://news.example.ch/feed.xml": sampleFeed,
	}}
	imp := newTestImporter(articles, newFakeFeedRepo(), fetcher, t.TempDir())

	result := imp.ImportFromURL(context.Background(), "https://news.example.ch/", Options{})

	if result.Created != 2 {
		t.Fatalf("result = %+v, want 2 created via discovered feed", result)
	}
}

func TestImportFromURL_SinglePageFallback(t *testing.T) {
	page := `<html><head>
<meta property="og:title" content="Permit renewal explained">
<meta property="og:description" content="What to bring">
<meta property="og:image" content="https://img.example.ch/permit.jpg">
</head><body>text</body></html>`

	articles := newFakeArticleRepo()
	fetcher := &fakeFetcher{pages: map[string]string{"https://blog.example.ch/permit": page}}
	imp := newTestImporter(articles, newFakeFeedRepo(), fetcher, t.TempDir())

	result := imp.ImportFromURL(context.Background(), "https://blog.example.ch/permit", Options{})

	if result.Created != 1 {
		t.Fatalf("result = %+v, want 1 created", result)
	}
	a := articles.byURL["https://blog.example.ch/permit"]
	if a == nil || a.Title != "Permit renewal explained" {
		t.Fatalf("article = %+v", a)
	}
	if a.Summary != "What to bring" {
		t.Errorf("summary = %q", a.Summary)
	}
}

func TestImportFromURL_SinglePageRelativeImageResolved(t *testing.T) {
	page := `<html><head>
<meta property="og:title" content="Kita registration">
<meta property="og:image" content="/assets/kita.jpg">
</head><body>text</body></html>`

	articles := newFakeArticleRepo()
	fetcher := &fakeFetcher{
		pages: map[string]string{"https://blog.example.ch/kita": page},
		blobs: map[string][]byte{"https://blog.example.ch/assets/kita.jpg": []byte("jpegbytes")},
	}
	imp := newTestImporter(articles, newFakeFeedRepo(), fetcher, t.TempDir())

	result := imp.ImportFromURL(context.Background(), "https://blog.example.ch/kita", Options{DownloadImages: true})
	if result.Created != 1 {
		t.Fatalf("result = %+v", result)
	}

	a := articles.byURL["https://blog.example.ch/kita"]
	if a == nil {
		t.Fatal("article missing")
	}
	if !strings.HasPrefix(a.ImageURL, "/media/") {
		t.Errorf("image url = %q, want mirrored /media/ path", a.ImageURL)
	}
}

func TestImportFromURL_SinglePageUntitled(t *testing.T) {
	articles := newFakeArticleRepo()
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://blog.example.ch/empty": `<html><head></head><body></body></html>`,
	}}
	imp := newTestImporter(articles, newFakeFeedRepo(), fetcher, t.TempDir())

	result := imp.ImportFromURL(context.Background(), "https://blog.example.ch/empty", Options{})

	if result.Created != 1 {
		t.Fatalf("result = %+v", result)
	}
	if got := articles.byURL["https://blog.example.ch/empty"].Title; got != "Untitled" {
		t.Errorf("title = %q, want Untitled", got)
	}
}

func TestImportFromURL_ImageMirroring(t *testing.T) {
	uploadDir := t.TempDir()
	articles := newFakeArticleRepo()
	fetcher := &fakeFetcher{
		pages: map[string]string{"https://news.example.ch/feed": sampleFeed},
		blobs: map[string][]byte{"https://img.example.ch/pic.jpg": []byte("jpegbytes")},
	}
	imp := newTestImporter(articles, newFakeFeedRepo(), fetcher, uploadDir)

	result := imp.ImportFromURL(context.Background(), "https://news.example.ch/feed", Options{DownloadImages: true})
	if result.Created != 2 {
		t.Fatalf("result = %+v", result)
	}

	a2 := articles.byURL["https://news.example.ch/a2"]
	if a2 == nil {
		t.Fatal("second article missing")
	}
	if !strings.HasPrefix(a2.ImageURL, "/media/") || !strings.HasSuffix(a2.ImageURL, ".jpg") {
		t.Fatalf("image url = %q, want /media/<name>.jpg", a2.ImageURL)
	}

	name := strings.TrimPrefix(a2.ImageURL, "/media/")
	data, err := os.ReadFile(filepath.Join(uploadDir, name))
	if err != nil {
		t.Fatalf("mirrored file not written: %v", err)
	}
	if string(data) != "jpegbytes" {
		t.Errorf("mirrored bytes = %q", data)
	}
}

func TestImportFromURL_ImageFetchFailureKeepsExternalURL(t *testing.T) {
	articles := newFakeArticleRepo()
	fetcher := &fakeFetcher{
		pages: map[string]string{"https://news.example.ch/feed": sampleFeed},
		blobs: map[string][]byte{},
	}
	imp := newTestImporter(articles, newFakeFeedRepo(), fetcher, t.TempDir())

	imp.ImportFromURL(context.Background(), "https://news.example.ch/feed", Options{DownloadImages: true})

	a2 := articles.byURL["https://news.example.ch/a2"]
	if a2 == nil {
		t.Fatal("second article missing")
	}
	if a2.ImageURL != "https://img.example.ch/pic.jpg" {
		t.Errorf("image url = %q, want original external URL", a2.ImageURL)
	}
}

func TestImportFeed_StampsLastImported(t *testing.T) {
	articles := newFakeArticleRepo()
	feeds := newFakeFeedRepo()
	fetcher := &fakeFetcher{pages: map[string]string{"https://broken.example.ch/feed": ""}}
	imp := newTestImporter(articles, feeds, fetcher, t.TempDir())

	feed := &model.RSSFeed{
		ID:       "feed-1",
		URL:      "https://broken.example.ch/feed",
		Language: "uk",
		Status:   model.ArticleStatusPublished,
		MaxItems: 20,
	}
	imp.ImportFeed(context.Background(), feed)

	if _, ok := feeds.marked["feed-1"]; !ok {
		t.Error("last_imported_at should be stamped even when the run yields nothing")
	}
}
