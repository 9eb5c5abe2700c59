package spoonacular

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"mealplanner/internal/shared"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	findByIngredientsPath = "/recipes/findByIngredients"
	complexSearchPath     = "/recipes/complexSearch"

	DefaultNumber   = 10
	DefaultMealType = "main course"
	MaxNumber       = 100
)

// SearchRequest holds recipe search parameters. When Next is set the other
// fields are ignored and derived from the cursor.
type SearchRequest struct {
	Query              string
	Cuisine            string
	Diet               string
	IncludeIngredients string
	ExcludeIngredients string
	Type               string
	Number             int
	Offset             int
	Next               string
}

// NewSearchRequest returns a request populated with the default page size
// and meal type.
func NewSearchRequest() SearchRequest {
	return SearchRequest{Number: DefaultNumber, Type: DefaultMealType}
}

type IngredientRef struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Original string  `json:"original,omitempty"`
	Image    string  `json:"image,omitempty"`
	Amount   float64 `json:"amount"`
	Unit     string  `json:"unit"`
}

type RecipeSummary struct {
	ID                    int64           `json:"id"`
	Title                 string          `json:"title"`
	Image                 string          `json:"image,omitempty"`
	ImageType             string          `json:"imageType,omitempty"`
	UsedIngredientCount   int             `json:"usedIngredientCount"`
	MissedIngredientCount int             `json:"missedIngredientCount"`
	UsedIngredients       []IngredientRef `json:"usedIngredients"`
	MissedIngredients     []IngredientRef `json:"missedIngredients"`
	UnusedIngredients     []IngredientRef `json:"unusedIngredients"`
	Likes                 int             `json:"likes"`
}

type SearchResult struct {
	Results      []RecipeSummary `json:"results"`
	Offset       int             `json:"offset"`
	Number       int             `json:"number"`
	TotalResults *int            `json:"totalResults,omitempty"`
	Next         string          `json:"next,omitempty"`
}

// NextPage returns the offset of the page after the current one and whether
// such a page exists. With a known total the next page exists while the offset
// stays below it; without one, a full page suggests there may be more.
func NextPage(offset, pageSize, returned int, total *int) (int, bool) {
	next := offset + pageSize
	if total != nil {
		return next, next < *total
	}
	return next, returned == pageSize
}

// Search runs a recipe search. A request naming ingredients goes to the
// by-ingredients endpoint, everything else to complex search.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	var (
		target        *url.URL
		byIngredients bool
		err           error
	)
	if strings.TrimSpace(req.Next) != "" {
		req, byIngredients, err = c.parseCursor(req.Next)
		if err != nil {
			return nil, err
		}
	} else {
		byIngredients = strings.TrimSpace(req.IncludeIngredients) != ""
	}
	if req.Number < 1 || req.Number > MaxNumber {
		return nil, shared.Validation("number must be between 1 and %d", MaxNumber)
	}
	if req.Offset < 0 {
		return nil, shared.Validation("offset must not be negative")
	}

	path, endpoint := complexSearchPath, "complex_search"
	if byIngredients {
		path, endpoint = findByIngredientsPath, "find_by_ingredients"
	}
	target = c.endpointURL(path, searchParams(req, byIngredients))

	empty := &SearchResult{Results: []RecipeSummary{}, Offset: req.Offset, Number: req.Number}

	body, ok, err := c.get(ctx, endpoint, target)
	if err != nil {
		return nil, err
	}
	if !ok {
		return empty, nil
	}
	if !gjson.ValidBytes(body) {
		c.logger.Error("recipe api returned malformed json", zap.String("endpoint", endpoint))
		return nil, shared.UpstreamFormat("recipe api returned malformed json", nil)
	}
	doc := gjson.ParseBytes(body)

	var (
		items gjson.Result
		total *int
	)
	if byIngredients {
		items = doc
	} else {
		if doc.IsObject() {
			items = field(doc, "results")
			if t := field(doc, "totalResults"); t.Exists() {
				n := int(t.Int())
				total = &n
			}
		}
	}
	if !items.IsArray() {
		c.logger.Warn("recipe api returned unexpected shape", zap.String("endpoint", endpoint))
		return empty, nil
	}

	result := &SearchResult{
		Results:      make([]RecipeSummary, 0, len(items.Array())),
		Offset:       req.Offset,
		Number:       req.Number,
		TotalResults: total,
	}
	for _, item := range items.Array() {
		if !item.IsObject() {
			continue
		}
		result.Results = append(result.Results, parseSummary(item))
	}

	if next, more := NextPage(req.Offset, req.Number, len(result.Results), total); more {
		nextReq := req
		nextReq.Offset = next
		result.Next = c.endpointURL(path, searchParams(nextReq, byIngredients)).String()
	}
	return result, nil
}

func searchParams(req SearchRequest, byIngredients bool) url.Values {
	q := url.Values{}
	set := func(key, value string) {
		if v := strings.TrimSpace(value); v != "" {
			q.Set(key, v)
		}
	}
	if byIngredients {
		set("ingredients", req.IncludeIngredients)
		q.Set("ignorePantry", "true")
		q.Set("ranking", "1")
	} else {
		set("query", req.Query)
		set("cuisine", req.Cuisine)
		set("diet", req.Diet)
		set("type", req.Type)
	}
	set("excludeIngredients", req.ExcludeIngredients)
	q.Set("number", strconv.Itoa(req.Number))
	q.Set("offset", strconv.Itoa(req.Offset))
	return q
}

// parseCursor turns a next cursor back into a request. Cursors must point at
// one of the two search endpoints of the configured service.
func (c *Client) parseCursor(next string) (SearchRequest, bool, error) {
	u, err := url.Parse(strings.TrimSpace(next))
	if err != nil {
		return SearchRequest{}, false, shared.Validation("next cursor is not a valid url")
	}
	if !strings.EqualFold(u.Scheme, c.baseURL.Scheme) || !strings.EqualFold(u.Host, c.baseURL.Host) {
		return SearchRequest{}, false, shared.Validation("next cursor does not point at the recipe service")
	}

	basePath := strings.TrimRight(c.baseURL.Path, "/")
	var byIngredients bool
	switch u.Path {
	case basePath + findByIngredientsPath:
		byIngredients = true
	case basePath + complexSearchPath:
	default:
		return SearchRequest{}, false, shared.Validation("next cursor does not point at a search endpoint")
	}

	q := u.Query()
	req := SearchRequest{
		Query:              q.Get("query"),
		Cuisine:            q.Get("cuisine"),
		Diet:               q.Get("diet"),
		IncludeIngredients: q.Get("ingredients"),
		ExcludeIngredients: q.Get("excludeIngredients"),
		Type:               q.Get("type"),
	}
	if byIngredients && strings.TrimSpace(req.IncludeIngredients) == "" {
		return SearchRequest{}, false, shared.Validation("next cursor is missing ingredients")
	}
	if req.Number, err = strconv.Atoi(q.Get("number")); err != nil {
		return SearchRequest{}, false, shared.Validation("next cursor has an invalid number")
	}
	if req.Offset, err = strconv.Atoi(q.Get("offset")); err != nil {
		return SearchRequest{}, false, shared.Validation("next cursor has an invalid offset")
	}
	return req, byIngredients, nil
}

func parseSummary(item gjson.Result) RecipeSummary {
	return RecipeSummary{
		ID:                    field(item, "id").Int(),
		Title:                 field(item, "title").String(),
		Image:                 field(item, "image").String(),
		ImageType:             field(item, "imageType").String(),
		UsedIngredientCount:   int(field(item, "usedIngredientCount").Int()),
		MissedIngredientCount: int(field(item, "missedIngredientCount").Int()),
		UsedIngredients:       parseIngredients(field(item, "usedIngredients")),
		MissedIngredients:     parseIngredients(field(item, "missedIngredients")),
		UnusedIngredients:     parseIngredients(field(item, "unusedIngredients")),
		Likes:                 int(field(item, "likes").Int()),
	}
}

func parseIngredients(list gjson.Result) []IngredientRef {
	refs := []IngredientRef{}
	for _, item := range list.Array() {
		if !item.IsObject() {
			continue
		}
		refs = append(refs, IngredientRef{
			ID:       field(item, "id").Int(),
			Name:     field(item, "name").String(),
			Original: field(item, "original").String(),
			Image:    field(item, "image").String(),
			Amount:   field(item, "amount").Float(),
			Unit:     field(item, "unit").String(),
		})
	}
	return refs
}

// field looks name up in obj, falling back to a case-insensitive match.
func field(obj gjson.Result, name string) gjson.Result {
	if r := obj.Get(name); r.Exists() {
		return r
	}
	var found gjson.Result
	obj.ForEach(func(key, value gjson.Result) bool {
		if strings.EqualFold(key.String(), name) {
			found = value
			return false
		}
		return true
	})
	return found
}
