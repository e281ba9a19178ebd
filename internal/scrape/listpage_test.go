package scrape

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opcgsearch/cardscraper/internal/card"
)

func docFrom(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestParseFirstMatchingSelectorWins(t *testing.T) {
	// Both li[class*="card"] and article would match; only the
	// higher-priority selector's elements must be returned.
	html := `<html><body>
		<ul>
			<li class="card-item">
				<a href="/sell/opc/card/1001"><img src="/img/1001.jpg"></a>
				<span class="name">モンキー・D・ルフィ</span>
				<span class="price">2,480円</span>
			</li>
			<li class="card-item">
				<a href="/sell/opc/card/1002"><img src="/img/1002.jpg"></a>
				<span class="name">ロロノア・ゾロ</span>
			</li>
		</ul>
		<article>
			<a href="/sell/opc/card/9999"><img src="/img/9999.jpg"></a>
		</article>
	</body></html>`

	parser := &ListParser{BaseURL: "https://example.test"}
	got := parser.Parse(docFrom(t, html))

	require.Len(t, got, 2)
	assert.Equal(t, "モンキー・D・ルフィ", got[0].Name)
	assert.Equal(t, "2,480円", got[0].Price)
	assert.Equal(t, "https://example.test/sell/opc/card/1001", got[0].Link)
	assert.Equal(t, "https://example.test/img/1001.jpg", got[0].Image)
	assert.Equal(t, "ロロノア・ゾロ", got[1].Name)
}

func TestParseDropsInadmissibleLinks(t *testing.T) {
	html := `<html><body>
		<div class="card-box">
			<a href="/sell/opc/card/1001"><img src="/img/1001.jpg"></a>
		</div>
		<div class="card-box">
			<a href="/promo/2024"><img src="/img/promo.jpg"></a>
		</div>
		<div class="card-box">
			<a href="/login"><img src="/img/banner.jpg"></a>
		</div>
	</body></html>`

	parser := &ListParser{BaseURL: "https://example.test"}
	got := parser.Parse(docFrom(t, html))

	require.Len(t, got, 2)
	assert.Contains(t, got[0].Link, "opc/card")
	assert.Contains(t, got[1].Link, "/promo")
}

func TestParseVersModeScoping(t *testing.T) {
	html := `<html><body>
		<div id="newestCardList">
			<div class="card-product">
				<li class="card-item">
					<a href="/sell/opc/card/3000"><img src="/img/3000.jpg"></a>
				</li>
			</div>
		</div>
		<div class="card-product">
			<li class="card-item">
				<a href="/sell/opc/card/3001"><img src="/img/3001.jpg"></a>
			</li>
		</div>
		<li class="card-item">
			<a href="/sell/opc/card/3002"><img src="/img/3002.jpg"></a>
		</li>
	</body></html>`

	parser := &ListParser{
		BaseURL:            "https://example.test",
		ScopeToCardProduct: true,
		ExcludeCarousels:   true,
	}
	got := parser.Parse(docFrom(t, html))

	// Carousel entry and the grid-less entry are both excluded.
	require.Len(t, got, 1)
	assert.Equal(t, "https://example.test/sell/opc/card/3001", got[0].Link)
}

func TestParseInlineNumberAndPrice(t *testing.T) {
	html := `<html><body>
		<li class="card-item">
			<a href="/sell/opc/card/1001">ルフィ OP01-001 1,200円</a>
			<img src="/img/1001.jpg">
		</li>
		<li class="card-item">
			<span class="pote">OP01-002</span>
			<span class="price">980円</span>
			<a href="/sell/opc/card/1002"><img src="/img/1002.jpg"></a>
		</li>
	</body></html>`

	parser := &ListParser{BaseURL: "https://example.test"}
	got := parser.Parse(docFrom(t, html))

	require.Len(t, got, 2)
	// Regex mining over the element text.
	assert.Equal(t, "OP01-001", got[0].CardNumber)
	assert.Equal(t, "1,200円", got[0].Price)
	// Badge and price elements take precedence.
	assert.Equal(t, "OP01-002", got[1].CardNumber)
	assert.Equal(t, "980円", got[1].Price)
}

func TestParseLazyLoadedImages(t *testing.T) {
	html := `<html><body>
		<li class="card-item">
			<a href="/sell/opc/card/1001"><img data-src="/img/lazy.jpg"></a>
			<span class="name">ナミ</span>
		</li>
	</body></html>`

	parser := &ListParser{BaseURL: "https://example.test"}
	got := parser.Parse(docFrom(t, html))

	require.Len(t, got, 1)
	assert.Equal(t, "https://example.test/img/lazy.jpg", got[0].Image)
}

func TestParseImageFallback(t *testing.T) {
	// Nothing in the cascade matches; candidates are rebuilt from
	// images and their nearest ancestor containers.
	html := `<html><body>
		<div class="random-wrapper">
			<a href="/sell/opc/card/2001">サンジ</a>
			<img src="/img/2001.jpg">
		</div>
	</body></html>`

	parser := &ListParser{BaseURL: "https://example.test"}
	got := parser.Parse(docFrom(t, html))

	require.Len(t, got, 1)
	assert.Equal(t, "https://example.test/sell/opc/card/2001", got[0].Link)
	assert.Equal(t, "https://example.test/img/2001.jpg", got[0].Image)
	assert.Equal(t, "サンジ", got[0].Name)
}

func TestParseSkipsEmptyCandidates(t *testing.T) {
	html := `<html><body>
		<li class="card-item"><a href="/sell/opc/card/1001"></a></li>
	</body></html>`

	parser := &ListParser{BaseURL: "https://example.test"}
	assert.Empty(t, parser.Parse(docFrom(t, html)))
}

func TestNormalizeLink(t *testing.T) {
	assert.Equal(t, "https://example.test/sell/opc/card/1", NormalizeLink("  https://Example.test/sell/opc/card/1/ "))
	assert.Equal(t, "", NormalizeLink("   "))
}

func TestDedupKeepsFirstOccurrence(t *testing.T) {
	records := []card.Record{
		{Name: "first", Link: "https://example.test/sell/opc/card/1"},
		{Name: "dup", Link: "https://example.test/sell/opc/card/1/"},
		{Name: "second", Link: "https://example.test/sell/opc/card/2"},
		{Name: "no link"},
	}

	got := Dedup(records)

	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Name)
	assert.Equal(t, "second", got[1].Name)
	assert.Equal(t, "no link", got[2].Name)
}

func TestMergeDetailPrecedence(t *testing.T) {
	candidate := card.Record{
		Name:       "list name",
		CardNumber: "OP01-001",
		Price:      "100円",
		Image:      "https://example.test/img/thumb.jpg",
		Link:       "https://example.test/sell/opc/card/1",
	}
	detail := card.Record{
		Name:       "detail name",
		CardNumber: "OP01-025",
		Price:      "2,480円",
		Image:      "https://example.test/img/full.jpg",
		Color:      "赤",
		Rarity:     "SR",
		Link:       "https://example.test/somewhere/else",
	}

	merged := MergeDetail(candidate, detail)

	assert.Equal(t, "detail name", merged.Name)
	assert.Equal(t, "OP01-025", merged.CardNumber)
	assert.Equal(t, "2,480円", merged.Price)
	assert.Equal(t, "https://example.test/img/full.jpg", merged.Image)
	assert.Equal(t, "赤", merged.Color)
	assert.Equal(t, "SR", merged.Rarity)
	// The link identifies the fetched page and never changes.
	assert.Equal(t, candidate.Link, merged.Link)
}

func TestMergeDetailKeepsListValuesOnEmptyDetail(t *testing.T) {
	candidate := card.Record{
		Name:       "list name",
		CardNumber: "OP01-001",
		Price:      "100円",
		Link:       "https://example.test/sell/opc/card/1",
	}

	merged := MergeDetail(candidate, card.Record{})

	assert.Equal(t, "list name", merged.Name)
	assert.Equal(t, "OP01-001", merged.CardNumber)
	assert.Equal(t, "100円", merged.Price)
}

func TestMergeDetailNumberDegradesToSentinel(t *testing.T) {
	merged := MergeDetail(
		card.Record{CardNumber: "not a number"},
		card.Record{CardNumber: "also junk"},
	)
	assert.Equal(t, card.NoCardNumber, merged.CardNumber)

	merged = MergeDetail(
		card.Record{CardNumber: "OP01-001"},
		card.Record{CardNumber: "junk"},
	)
	assert.Equal(t, "OP01-001", merged.CardNumber)
}

func TestMergeDetailKeepsBareNumbers(t *testing.T) {
	// A bare numeric identifier survives when nothing prefixed exists.
	merged := MergeDetail(card.Record{CardNumber: "09-118"}, card.Record{})
	assert.Equal(t, "09-118", merged.CardNumber)

	merged = MergeDetail(card.Record{}, card.Record{CardNumber: "09-118"})
	assert.Equal(t, "09-118", merged.CardNumber)

	// A prefixed number on either side still outranks it.
	merged = MergeDetail(
		card.Record{CardNumber: "OP09-118"},
		card.Record{CardNumber: "09-118"},
	)
	assert.Equal(t, "OP09-118", merged.CardNumber)
}

func TestFilterBySearchTerm(t *testing.T) {
	records := []card.Record{
		{CardNumber: "OP01-001"},
		{CardNumber: "OP10-001"},
		{CardNumber: "ST01-001"},
		{CardNumber: card.NoCardNumber},
	}

	got := FilterBySearchTerm(records, "OP01")

	require.Len(t, got, 1)
	assert.Equal(t, "OP01-001", got[0].CardNumber)
}

func TestAdmissibleLink(t *testing.T) {
	assert.True(t, AdmissibleLink("https://example.test/sell/opc/card/1"))
	assert.True(t, AdmissibleLink("https://example.test/promo/2024"))
	assert.False(t, AdmissibleLink("https://example.test/login"))
	assert.False(t, AdmissibleLink(""))
}
