package model

import (
	"net/url"
	"strconv"
	"strings"
)

type Endpoint string

const (
	EndpointEverything   Endpoint = "everything"
	EndpointTopHeadlines Endpoint = "top-headlines"
)

type Mode string

const (
	ModeHeadlines Mode = "headlines"
	ModeSearch    Mode = "search"
)

// ParseMode maps form input to a Mode, defaulting to top headlines.
func ParseMode(raw string) Mode {
	if Mode(strings.ToLower(strings.TrimSpace(raw))) == ModeSearch {
		return ModeSearch
	}
	return ModeHeadlines
}

type Category string

const DefaultCategory Category = "general"

// Categories lists the top-headlines categories in the order they are offered.
var Categories = []Category{
	"business",
	"entertainment",
	"general",
	"health",
	"science",
	"sports",
	"technology",
}

// ParseCategory returns the matching category or DefaultCategory.
func ParseCategory(raw string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Categories {
		if c == known {
			return c
		}
	}
	return DefaultCategory
}

const (
	MinSentences     = 1
	MaxSentences     = 10
	DefaultSentences = 3
)

// ParseSentences reads the slider value. Anything unparsable gives the
// default, out-of-range values are clamped.
func ParseSentences(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DefaultSentences
	}
	return ClampSentences(n)
}

func ClampSentences(n int) int {
	if n < MinSentences {
		return MinSentences
	}
	if n > MaxSentences {
		return MaxSentences
	}
	return n
}

// SearchRequest is the parameter set for a single News API call. It is built
// fresh for every interaction.
type SearchRequest struct {
	Endpoint Endpoint
	APIKey   string
	SortBy   string
	Category Category
	Country  string
	Query    string
	Language string
	PageSize int
}

// Values renders the request as a query string. Parameters that do not apply
// to the endpoint or are empty are left out.
func (r SearchRequest) Values() url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}

	set("apiKey", r.APIKey)
	set("sortBy", r.SortBy)
	switch r.Endpoint {
	case EndpointTopHeadlines:
		set("category", string(r.Category))
		set("country", r.Country)
		set("q", r.Query)
	default:
		set("q", r.Query)
		set("language", r.Language)
	}
	if r.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(r.PageSize))
	}
	return v
}
