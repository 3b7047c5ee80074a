package models

import (
	"regexp"
	"strconv"
	"strings"
)

// Chunk is a unit of previously ingested document text. Content is written
// once at ingestion and never modified afterwards, so it can be searched and
// highlighted verbatim.
type Chunk struct {
	ID       int64         `bson:"_id" json:"id"`
	Content  string        `bson:"content" json:"content"`
	Metadata ChunkMetadata `bson:"metadata" json:"metadata"`
}

// ChunkMetadata carries the loader-assigned document metadata. Page may be a
// string, a number or missing ("N/A") depending on which loader produced the
// chunk, so it stays untyped until compared.
type ChunkMetadata struct {
	Source string      `bson:"source,omitempty" json:"source,omitempty"`
	Page   interface{} `bson:"page,omitempty" json:"page,omitempty"`
	OrgURL string      `bson:"orgUrl,omitempty" json:"orgUrl,omitempty"`
	Loc    *ChunkLoc   `bson:"loc,omitempty" json:"loc,omitempty"`
}

// ChunkLoc is the nested location object some loaders emit instead of a flat
// page field.
type ChunkLoc struct {
	PageNumber interface{} `bson:"pageNumber,omitempty" json:"pageNumber,omitempty"`
}

var digitsPattern = regexp.MustCompile(`\d+`)

// PageValueString renders a page value of any supported type as the canonical
// string used for comparisons. Returns "" when no usable value is present.
func PageValueString(v interface{}) string {
	switch p := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(p)
	case int:
		return strconv.Itoa(p)
	case int32:
		return strconv.FormatInt(int64(p), 10)
	case int64:
		return strconv.FormatInt(p, 10)
	case float64:
		return strconv.FormatFloat(p, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(p), 'f', -1, 32)
	default:
		return ""
	}
}

// PageDigits extracts the first digit run from a page value, e.g. "Page 5"
// yields "5". Returns "" when the value carries no digits.
func PageDigits(v interface{}) string {
	return digitsPattern.FindString(PageValueString(v))
}

// PageNumber resolves the 1-based page number of the chunk, preferring the
// flat page field and falling back to loc.pageNumber.
func (c *Chunk) PageNumber() *int {
	for _, v := range []interface{}{c.Metadata.Page, locPage(c.Metadata.Loc)} {
		if digits := PageDigits(v); digits != "" {
			if n, err := strconv.Atoi(digits); err == nil {
				return &n
			}
		}
	}
	return nil
}

func locPage(loc *ChunkLoc) interface{} {
	if loc == nil {
		return nil
	}
	return loc.PageNumber
}
