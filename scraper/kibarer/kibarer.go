// Package kibarer parses listing pages of villabalisale.com (Kibarer)
// into observations. Pages are fetched by the crawling collaborator; this
// adapter only consumes the delivered HTML.
package kibarer

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"reid-catalog/extract"
	"reid-catalog/models"
	"reid-catalog/utils"
)

// Source is the registry name of this site.
const Source = "Kibarer"

// ErrNotForSale reports a page whose badge carries no sale contract
// (rentals, teasers). Such pages are skipped, not errors.
var ErrNotForSale = errors.New("kibarer: page is not a sale listing")

var imageDimensionRe = regexp.MustCompile(`-\d{2,4}x\d{2,4}(\.\w+)$`)

type Parser struct {
	logger *utils.Logger
}

func New(logger *utils.Logger) *Parser {
	return &Parser{logger: logger}
}

// Parse extracts an observation from one already-fetched listing page.
func (p *Parser) Parse(pageURL, html string, scrapedAt time.Time) (*models.Observation, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	badge := collapse(doc.Find("div.property-badges div.property-badge").First().Text())
	if !strings.Contains(strings.ToLower(badge), "hold") {
		return nil, ErrNotForSale
	}

	obs := &models.Observation{
		Source:    Source,
		URL:       pageURL,
		RawHTML:   html,
		ScrapedAt: scrapedAt,
		Labels:    []string{models.Available},
	}

	obs.Title = collapse(doc.Find("h1#property-name").First().Text())
	obs.Description = collapse(doc.Find("div.description").Text())
	obs.PropertyID = definitionTerm(doc, "Code")
	obs.Location = definitionTerm(doc, "Location")

	// the site quotes IDR and USD side by side; IDR wins
	priceText := collapse(doc.Find("div#property-price button span").First().Text())
	obs.PriceText = priceText
	if idr, ok := extract.FindIDR(priceText); ok {
		obs.Price = idr
		obs.Currency = "IDR"
	} else if usd, ok := extract.FindUSD(priceText); ok {
		obs.Price = usd
		obs.Currency = "USD"
	} else {
		obs.Price = models.PriceUnknown
		obs.Currency = "USD"
		p.logger.Debug("[kibarer] no parseable price on %s (%q)", pageURL, priceText)
	}

	obs.ContractType = extract.ContractType(badge)
	if obs.ContractType == "Leasehold" {
		if years, ok := extract.LeaseYears(badge, scrapedAt); ok {
			obs.LeaseholdYears = &years
		}
	}

	obs.PropertyType = extract.PropertyType(obs.Title)

	if beds, ok := extract.Number(doc.Find("div.property-badge img[src*=bed] + span").First().Text()); ok {
		obs.Bedrooms = &beds
	}
	if baths, ok := extract.Number(doc.Find("div.property-badge img[src*=bathtub] + span").First().Text()); ok {
		obs.Bathrooms = &baths
	}

	landText := doc.Find("img[src*=scale-frame-enlarge] + div").First().Text()
	if land, ok := extract.AreToSQM(landText); ok {
		obs.LandSize = &land
	} else if land, ok := extract.Number(landText); ok {
		obs.LandSize = &land
	}
	if build, ok := extract.Number(doc.Find("img[src*=scale-frame-reduce] + div").First().Text()); ok {
		obs.BuildSize = &build
	}

	if src, ok := doc.Find("figure img.object-cover").First().Attr("src"); ok {
		obs.ImageURL = imageDimensionRe.ReplaceAllString(src, "$1")
	}
	if lon, ok := floatAttr(doc, "div[data-longitude]", "data-longitude"); ok {
		obs.Longitude = &lon
	}
	if lat, ok := floatAttr(doc, "div[data-latitude]", "data-latitude"); ok {
		obs.Latitude = &lat
	}

	return obs, nil
}

// definitionTerm finds the dt value of the definition block whose text
// mentions the label, e.g. "Code" or "Location".
func definitionTerm(doc *goquery.Document, label string) string {
	var value string
	doc.Find("div").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if sel.ChildrenFiltered("dd").Length() == 0 {
			return true
		}
		if !strings.Contains(sel.Text(), label) {
			return true
		}
		value = collapse(sel.Find("dt").First().Text())
		return false
	})
	return value
}

// floatAttr parses a plain decimal attribute. Coordinates must not go
// through the listing number cleaner, which reads long fractions as
// thousand groups.
func floatAttr(doc *goquery.Document, selector, attr string) (float64, bool) {
	val, ok := doc.Find(selector).First().Attr(attr)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func collapse(s string) string {
	return extract.CollapseWhitespace(s)
}
