// Package vendorwatch tracks a vendor's published PFAS product table over
// time: scrape the table, persist the rows, and chart the trend.
package vendorwatch

import (
	"context"
	"strconv"
	"strings"

	"github.com/gocolly/colly/v2"
	"github.com/rs/zerolog/log"
)

// DefaultProductURL is the vendor page carrying the product table.
const DefaultProductURL = "https://www.haycarb.com/activated-carbon-solutions/water/drinking-water-treatment/pfas-removal/"

// Product is one row of the vendor's table.
type Product struct {
	Name           string
	RemovalPercent float64
	TenderPrice    float64
}

// Scraper pulls the product table off the vendor page.
type Scraper struct {
	URL       string
	UserAgent string
}

// Scrape visits the vendor page and parses the first product table. Rows
// with fewer than three cells are skipped; an unparsable price becomes 0.
func (s *Scraper) Scrape(ctx context.Context) ([]Product, error) {
	target := s.URL
	if target == "" {
		target = DefaultProductURL
	}

	opts := []colly.CollectorOption{}
	if s.UserAgent != "" {
		opts = append(opts, colly.UserAgent(s.UserAgent))
	}
	c := colly.NewCollector(opts...)

	var products []Product
	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})
	c.OnHTML("table tr", func(e *colly.HTMLElement) {
		cols := e.ChildTexts("td")
		if len(cols) < 3 {
			// header rows use th cells and fall out here
			return
		}
		name := strings.TrimSpace(cols[0])
		if name == "" {
			return
		}
		removal, err := parseNumber(cols[1], "%")
		if err != nil {
			log.Warn().Str("product", name).Str("cell", cols[1]).Msg("unparsable removal cell; skipping row")
			return
		}
		price, err := parseNumber(cols[2], "$")
		if err != nil {
			price = 0
		}
		products = append(products, Product{Name: name, RemovalPercent: removal, TenderPrice: price})
	})

	if err := c.Visit(target); err != nil {
		return nil, err
	}
	c.Wait()
	log.Info().Int("rows", len(products)).Str("url", target).Msg("scraped vendor table")
	return products, nil
}

func parseNumber(cell, symbol string) (float64, error) {
	v := strings.TrimSpace(strings.ReplaceAll(cell, symbol, ""))
	v = strings.ReplaceAll(v, ",", "")
	return strconv.ParseFloat(v, 64)
}
