package bcb

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// extractPattern matches monthly SCR.data extract file names in portal links.
var extractPattern = regexp.MustCompile(`planilha_(\d{4})(\d{2})\.csv`)

// CatalogEntry is one monthly extract published on the open-data portal.
type CatalogEntry struct {
	Month time.Time
	URL   string
}

// FetchCatalog scrapes the SCR.data portal page for published monthly
// extracts, sorted by month. Meses duplicados ficam com o último link visto.
func (c *Client) FetchCatalog(ctx context.Context) ([]CatalogEntry, error) {
	body, err := c.fetchPortal(ctx, c.cfg.SCRPortalURL)
	if err != nil {
		return nil, fmt.Errorf("fetch scr portal: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse scr portal: %w", err)
	}

	byMonth := make(map[time.Time]string)
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		m := extractPattern.FindStringSubmatch(href)
		if m == nil {
			return
		}
		month, err := time.Parse("200601", m[1]+m[2])
		if err != nil {
			return
		}
		byMonth[month] = href
	})

	entries := make([]CatalogEntry, 0, len(byMonth))
	for month, url := range byMonth {
		entries = append(entries, CatalogEntry{Month: month, URL: url})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Month.Before(entries[j].Month)
	})

	c.logger.WithField("months", len(entries)).Info("SCR portal catalog fetched")
	return entries, nil
}
