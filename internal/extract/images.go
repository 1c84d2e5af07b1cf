package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/findablescore/auditor/pkg/audit"
)

func extractImages(sel *goquery.Selection) []audit.ImageMeta {
	var images []audit.ImageMeta
	sel.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		src = strings.TrimSpace(src)
		if src == "" {
			return
		}
		alt, _ := s.Attr("alt")
		images = append(images, audit.ImageMeta{Src: src, Alt: strings.TrimSpace(alt)})
	})
	return images
}
