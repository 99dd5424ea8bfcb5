package imdb

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, markup string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

const searchResultsMarkup = `
<section data-testid="find-results-section-name">
	<ul>
		<li class="ipc-metadata-list-summary-item">
			<a href="/name/nm0000138/?ref_=fn_al_nm_1"><img class="ipc-image" src="https://m.media-amazon.com/leo.jpg"/></a>
			<a href="/name/nm0000138/?ref_=fn_al_nm_1">Leonardo DiCaprio</a>
			<div class="ipc-html-content-inner-div">Inception, Titanic</div>
		</li>
		<li class="ipc-metadata-list-summary-item">
			<a href="/search/?broken=1">Not a person link</a>
		</li>
		<li class="ipc-metadata-list-summary-item">
			<a href="/name/nm0001806/">Leonardo Sbaraglia</a>
		</li>
	</ul>
</section>
`

func TestExtractSearchEntries(t *testing.T) {
	doc := mustDoc(t, searchResultsMarkup)

	var results []SearchResult
	doc.Find(`[data-testid="find-results-section-name"] li.ipc-metadata-list-summary-item`).
		Each(func(_ int, item *goquery.Selection) {
			entry, ok := extractSearchEntry(item)
			if ok {
				results = append(results, entry)
			}
		})

	require.Len(t, results, 2)
	require.Equal(t, SearchResult{
		ID:       "nm0000138",
		Name:     "Leonardo DiCaprio",
		KnownFor: "Inception, Titanic",
		ImageURL: "https://m.media-amazon.com/leo.jpg",
	}, results[0])
	require.Equal(t, "nm0001806", results[1].ID)
	require.Empty(t, results[1].KnownFor)
}

const bioMarkup = `
<div>
	<a href="/title/tt0111161/?ref_=bio_ov">The Shawshank Redemption (1994)</a>
	<a href="/title/tt0111161/?ref_=bio_dup">The Shawshank Redemption (1994)</a>
	<a href="/title/tt1375666/">Inception (2010)</a>
	<a href="/title/tt9999999/">Untitled Project</a>
	<a href="https://pro.imdb.com/title/tt0137523/">Fight Club (1999)</a>
	<a href="/title/tt0468569/">The Dark Knight (2008)</a>
</div>
`

func TestExtractTitles(t *testing.T) {
	doc := mustDoc(t, bioMarkup)
	movies := extractTitles(context.Background(), doc)

	require.Len(t, movies, 3)
	require.Equal(t, "The Shawshank Redemption", movies[0].Title)
	require.Equal(t, 1994, movies[0].Year)
	require.Equal(t, "https://www.imdb.com/title/tt0111161/", movies[0].IMDBURL)
	require.Equal(t, "Inception", movies[1].Title)
	require.Equal(t, "The Dark Knight", movies[2].Title)
}

func TestExtractProfile(t *testing.T) {
	doc := mustDoc(t, `
		<h1><span data-testid="hero__primary-text">Leonardo DiCaprio</span></h1>
		<div data-testid="hero-media__poster"><img src="https://m.media-amazon.com/leo-large.jpg"/></div>
	`)
	name, image := extractProfile(doc)
	require.Equal(t, "Leonardo DiCaprio", name)
	require.Equal(t, "https://m.media-amazon.com/leo-large.jpg", image)

	name, image = extractProfile(mustDoc(t, `<div>nothing useful</div>`))
	require.Equal(t, "Unknown Actor", name)
	require.Empty(t, image)
}

func TestExtractTitlePage(t *testing.T) {
	doc := mustDoc(t, `
		<div data-testid="hero-rating-bar__aggregate-rating__score">
			<span>9.3</span><span>/10</span>
		</div>
		<div data-testid="hero-media__poster"><img src="https://m.media-amazon.com/poster.jpg"/></div>
	`)
	rating, poster := extractTitlePage(doc)
	require.Equal(t, 9.3, rating)
	require.Equal(t, "https://m.media-amazon.com/poster.jpg", poster)

	// fallback selector for the older layout
	doc = mustDoc(t, `<span class="rating-other">7.1</span>`)
	rating, poster = extractTitlePage(doc)
	require.Equal(t, 7.1, rating)
	require.Empty(t, poster)

	rating, _ = extractTitlePage(mustDoc(t, `<div>no rating here</div>`))
	require.Equal(t, 0.0, rating)
}
