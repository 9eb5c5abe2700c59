package spoonacular

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"mealplanner/internal/shared"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

type RecipeDetails struct {
	ID             int64           `json:"id"`
	Title          string          `json:"title"`
	Image          string          `json:"image,omitempty"`
	Servings       int             `json:"servings"`
	ReadyInMinutes int             `json:"readyInMinutes"`
	SourceURL      string          `json:"sourceUrl,omitempty"`
	Summary        string          `json:"summary"`
	Instructions   string          `json:"instructions"`
	Steps          []string        `json:"steps"`
	Ingredients    []IngredientRef `json:"ingredients"`
	Cuisines       []string        `json:"cuisines"`
	Diets          []string        `json:"diets"`
	Vegetarian     bool            `json:"vegetarian"`
	Vegan          bool            `json:"vegan"`
	GlutenFree     bool            `json:"glutenFree"`
	DairyFree      bool            `json:"dairyFree"`
}

// Details fetches a single remote recipe. It returns nil when the remote
// service does not know the id.
func (c *Client) Details(ctx context.Context, id int64) (*RecipeDetails, error) {
	if id <= 0 {
		return nil, shared.Validation("recipe id must be positive")
	}

	target := c.endpointURL(fmt.Sprintf("/recipes/%d/information", id), url.Values{"includeNutrition": {"false"}})
	body, ok, err := c.get(ctx, "information", target)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	if !gjson.ValidBytes(body) {
		c.logger.Error("recipe api returned malformed json", zap.String("endpoint", "information"))
		return nil, shared.UpstreamFormat("recipe api returned malformed json", nil)
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		c.logger.Warn("recipe api returned unexpected shape", zap.String("endpoint", "information"))
		return nil, nil
	}

	d := &RecipeDetails{
		ID:             field(doc, "id").Int(),
		Title:          field(doc, "title").String(),
		Image:          field(doc, "image").String(),
		Servings:       int(field(doc, "servings").Int()),
		ReadyInMinutes: int(field(doc, "readyInMinutes").Int()),
		SourceURL:      field(doc, "sourceUrl").String(),
		Summary:        htmlText(field(doc, "summary").String()),
		Instructions:   htmlText(field(doc, "instructions").String()),
		Steps:          []string{},
		Ingredients:    parseIngredients(field(doc, "extendedIngredients")),
		Cuisines:       stringList(field(doc, "cuisines")),
		Diets:          stringList(field(doc, "diets")),
		Vegetarian:     field(doc, "vegetarian").Bool(),
		Vegan:          field(doc, "vegan").Bool(),
		GlutenFree:     field(doc, "glutenFree").Bool(),
		DairyFree:      field(doc, "dairyFree").Bool(),
	}
	for _, block := range field(doc, "analyzedInstructions").Array() {
		for _, step := range field(block, "steps").Array() {
			if s := strings.TrimSpace(field(step, "step").String()); s != "" {
				d.Steps = append(d.Steps, s)
			}
		}
	}
	return d, nil
}

func stringList(r gjson.Result) []string {
	out := []string{}
	for _, v := range r.Array() {
		out = append(out, v.String())
	}
	return out
}

// htmlText flattens an HTML fragment into single-spaced plain text.
func htmlText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}
	doc.Find("script, style").Remove()
	doc.Find("li, p, br").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})
	return strings.Join(strings.Fields(doc.Text()), " ")
}
