package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docFrom(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func newExtractor() *Extractor {
	return &Extractor{
		BaseURL:      "https://yuyu-tei.jp",
		PriceFloor:   10,
		ThumbSegment: "/90_126/",
		FullSegment:  "/front/",
	}
}

func TestExtractFullDetailPage(t *testing.T) {
	html := `<html><head><title>ゆうゆうショップ</title></head><body>
		<div id="power" class="power"><h3>Monkey-D-Luffy モンキー・D・ルフィ(パラレル)</h3></div>
		<img class="card-image" src="/card_image/opc/90_126/op09-118.jpg" alt="OP09-118 P-SR">
		<div class="price">2,480 円</div>
		<span class="pote">OP09-118</span>
		<table><tr><th>色</th><td>赤</td></tr></table>
	</body></html>`

	e := newExtractor()
	rec := e.Extract(docFrom(t, html))

	assert.Equal(t, "Monkey-D-Luffy モンキー・D・ルフィ(パラレル)", rec.Name)
	assert.Equal(t, "OP09-118", rec.CardNumber)
	assert.Equal(t, "2,480円", rec.Price)
	assert.Equal(t, "https://yuyu-tei.jp/card_image/opc/front/op09-118.jpg", rec.Image)
	assert.Equal(t, "赤", rec.Color)
	assert.Equal(t, "P-SR", rec.Rarity)
}

func TestImageLazyLoadFallback(t *testing.T) {
	html := `<html><body>
		<img class="card-image" data-src="/card_image/opc/op01-001.jpg" alt="OP01-001 L">
	</body></html>`

	e := newExtractor()
	assert.Equal(t, "https://yuyu-tei.jp/card_image/opc/op01-001.jpg", e.Image(docFrom(t, html)))
}

func TestImageMissing(t *testing.T) {
	e := newExtractor()
	assert.Empty(t, e.Image(docFrom(t, `<html><body><p>no image</p></body></html>`)))
}

func TestPriceFloorSkipsImplausibleValues(t *testing.T) {
	// The 5円 point notice must never win over the real price
	html := `<html><body>
		<div class="price">5 円</div>
		<div class="cost">1,980 円</div>
	</body></html>`

	e := newExtractor()
	assert.Equal(t, "1,980円", e.Price(docFrom(t, html)))
}

func TestPriceFallsBackToBodyText(t *testing.T) {
	html := `<html><body><p>在庫あり 350 円 (税込)</p></body></html>`

	e := newExtractor()
	assert.Equal(t, "350円", e.Price(docFrom(t, html)))
}

func TestPriceRespectsConfiguredFloor(t *testing.T) {
	html := `<html><body><div class="price">80 円</div><div class="price">150 円</div></body></html>`

	e := newExtractor()
	e.PriceFloor = 100
	assert.Equal(t, "150円", e.Price(docFrom(t, html)))
}

func TestPriceNoMatch(t *testing.T) {
	e := newExtractor()
	assert.Empty(t, e.Price(docFrom(t, `<html><body><p>SOLD OUT</p></body></html>`)))
}

func TestPriceValue(t *testing.T) {
	assert.Equal(t, 2480, PriceValue("2,480円"))
	assert.Equal(t, 100, PriceValue("¥100"))
	assert.Equal(t, -1, PriceValue("なし"))
}

func TestNameHeadingFallbackRequiresJapanese(t *testing.T) {
	html := `<html><body>
		<h2>Search Results</h2>
		<h3>ロロノア・ゾロ</h3>
	</body></html>`

	e := newExtractor()
	assert.Equal(t, "ロロノア・ゾロ", e.Name(docFrom(t, html)))
}

func TestNameMetadataFallback(t *testing.T) {
	html := `<html><head>
		<meta property="og:title" content="ナミ(スーパーパラレル) | ゆうゆう亭">
	</head><body><p>nothing here</p></body></html>`

	e := newExtractor()
	assert.Equal(t, "ナミ(スーパーパラレル) | ゆうゆう亭", e.Name(docFrom(t, html)))
}

func TestNameFromText(t *testing.T) {
	assert.Equal(t, "Luffy ルフィ(パラレル)", NameFromText("code: Luffy ルフィ(パラレル) 2,480円"))
	assert.Equal(t, "- サンジ", NameFromText("OP… - サンジ price"))
	assert.Equal(t, "ニコ・ロビン", NameFromText("code: ニコ・ロビン 350円"))
	assert.Empty(t, NameFromText("latin only text"))

	// A Latin letter inside the Japanese run ends the match.
	assert.Equal(t, "Luffy モンキー・", NameFromText("Luffy モンキー・D・ルフィ 2,480円"))
	// A Latin token directly before the run is taken as part of the name.
	assert.Equal(t, "card ニコ・ロビン", NameFromText("card ニコ・ロビン card"))
}

func TestCleanName(t *testing.T) {
	assert.Equal(t, "ウタ", CleanName("ウタトークンカード"))
	// Competing variant markers keep the more specific one
	assert.Equal(t, "シャンクス(スーパーパラレル)", CleanName("シャンクス(スーパーパラレル)(パラレル)"))
	assert.Equal(t, "シャンクス(パラレル)", CleanName("シャンクス(パラレル)"))
}

func TestCardNumberBadgeValidation(t *testing.T) {
	// Badge text failing validation falls through to regex mining
	html := `<html><body>
		<span class="pote">限定</span>
		<div class="product-detail">ST10-005 L 青</div>
	</body></html>`

	e := newExtractor()
	assert.Equal(t, "ST10-005", e.CardNumber(docFrom(t, html)))
}

func TestCardNumberAbsent(t *testing.T) {
	e := newExtractor()
	assert.Empty(t, e.CardNumber(docFrom(t, `<html><body><p>プレイマット</p></body></html>`)))
}

func TestColorNextCell(t *testing.T) {
	html := `<html><body><table>
		<tr><th>レアリティ</th><td>SR</td></tr>
		<tr><th>色</th><td>紫</td></tr>
	</table></body></html>`

	e := newExtractor()
	assert.Equal(t, "紫", e.Color(docFrom(t, html)))
}

func TestColorInline(t *testing.T) {
	html := `<html><body><table><tr><td>色：緑</td></tr></table></body></html>`

	e := newExtractor()
	assert.Equal(t, "緑", e.Color(docFrom(t, html)))
}

func TestColorRejectsProse(t *testing.T) {
	long := strings.Repeat("この色についての説明", 20)
	html := `<html><body><table><tr><td>` + long + `</td></tr></table></body></html>`

	e := newExtractor()
	assert.Empty(t, e.Color(docFrom(t, html)))
}

func TestRarityDonShortCircuit(t *testing.T) {
	html := `<html><body><img class="card-image" src="/don.jpg" alt="ドン!!カード"></body></html>`

	e := newExtractor()
	assert.Equal(t, "DON", e.Rarity(docFrom(t, html)))
}

func TestAbsoluteURL(t *testing.T) {
	assert.Equal(t, "https://yuyu-tei.jp/sell/opc/card/123", AbsoluteURL("https://yuyu-tei.jp", "/sell/opc/card/123"))
	assert.Equal(t, "https://cdn.example.com/x.jpg", AbsoluteURL("https://yuyu-tei.jp", "https://cdn.example.com/x.jpg"))
	assert.Empty(t, AbsoluteURL("https://yuyu-tei.jp", "  "))
}
