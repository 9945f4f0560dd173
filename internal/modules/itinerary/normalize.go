package itinerary

import (
	"regexp"
	"strings"

	"github.com/samber/lo"

	"voyager/internal/types"
)

// DefaultImageURL is the cover used when the model supplies none.
const DefaultImageURL = "https://images.unsplash.com/photo-1469854523086-cc02fe5d8800?auto=format&fit=crop&w=1200&q=80"

var fencedJSON = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// ExtractJSON locates the JSON payload in a model reply: a ```json fenced
// block wins, otherwise the span from the first '{' to the last '}'.
func ExtractJSON(reply string) (string, bool) {
	if m := fencedJSON.FindStringSubmatch(reply); m != nil {
		return m[1], true
	}
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return reply[start : end+1], true
}

// Normalize turns a raw generation reply into a new Trip with a fresh ID,
// empty sources and a zero edit count. Failures are GenerationErrors of kind ErrParse.
func Normalize(reply string) (*Trip, error) {
	payload, ok := ExtractJSON(reply)
	if !ok {
		return nil, parseError(nil)
	}
	t, err := DecodeTrip([]byte(payload))
	if err != nil {
		return nil, parseError(err)
	}
	applyImageDefaults(t)
	t.ID = types.NewID()
	t.Sources = []GroundingLink{}
	t.EditCount = 0
	return t, nil
}

// NormalizePatch extracts and decodes an edit reply.
func NormalizePatch(reply string) (*Patch, error) {
	payload, ok := ExtractJSON(reply)
	if !ok {
		return nil, parseError(nil)
	}
	p, err := DecodePatch([]byte(payload))
	if err != nil {
		return nil, parseError(err)
	}
	return p, nil
}

func applyImageDefaults(t *Trip) {
	if strings.TrimSpace(t.ImageURL) == "" {
		t.ImageURL = DefaultImageURL
	}
	images := lo.Filter(t.DestinationImages, func(img string, _ int) bool {
		img = strings.TrimSpace(img)
		return img != "" && strings.HasPrefix(img, "http")
	})
	if len(images) == 0 {
		images = []string{t.ImageURL}
	}
	t.DestinationImages = images
}
