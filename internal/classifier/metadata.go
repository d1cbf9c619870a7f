package classifier

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jrpboutique/loom/internal/model"
)

var (
	pricePattern = regexp.MustCompile(`(\d+)k?_?(?:price|cost|rs)`)
	tierPattern  = regexp.MustCompile(`(designer|premium|luxury|budget|economy)`)
)

// ExtractMetadata derives lightweight hints from a filename: colors from
// the registry vocabulary, an estimated price, a size bucket and a tier
// label. Hints are informational only and do not enter the confidence
// formula.
func (c *Classifier) ExtractMetadata(filename string) model.Metadata {
	name := strings.ToLower(filename)

	meta := model.Metadata{
		Colors: c.registry.ExtractColors(name),
	}

	if m := pricePattern.FindStringSubmatch(name); m != nil {
		price, err := strconv.Atoi(m[1])
		if err == nil {
			if strings.Contains(name, "k") {
				price *= 1000
			}
			meta.EstimatedPrice = price
		}
	}

	// Priority order matters: xl before small before medium, first hit wins.
	switch {
	case strings.Contains(name, "xl") || strings.Contains(name, "large"):
		meta.Size = "XL"
	case strings.Contains(name, "small") || strings.Contains(name, "sm"):
		meta.Size = "S"
	case strings.Contains(name, "medium") || strings.Contains(name, "med"):
		meta.Size = "M"
	}

	if m := tierPattern.FindStringSubmatch(name); m != nil {
		meta.Tier = m[1]
	}

	return meta
}
