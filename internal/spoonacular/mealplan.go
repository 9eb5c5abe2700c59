package spoonacular

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"mealplanner/internal/shared"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const imageBaseURL = "https://spoonacular.com/recipeImages"

type GenerateRequest struct {
	TimeFrame      string
	TargetCalories int
	Diet           string
	Exclude        string
}

type GeneratedMeal struct {
	SpoonacularID  int64  `json:"spoonacularId"`
	Title          string `json:"title"`
	Image          string `json:"image,omitempty"`
	ImageType      string `json:"imageType,omitempty"`
	SourceURL      string `json:"sourceUrl,omitempty"`
	ReadyInMinutes int    `json:"readyInMinutes"`
	Servings       int    `json:"servings"`
}

type GeneratedDay struct {
	Meals         []GeneratedMeal `json:"meals"`
	Calories      float64         `json:"calories"`
	Protein       float64         `json:"protein"`
	Fat           float64         `json:"fat"`
	Carbohydrates float64         `json:"carbohydrates"`
}

// GeneratedPlan is keyed by lower-case day name, or "day" for a single day.
type GeneratedPlan struct {
	TimeFrame string                  `json:"timeFrame"`
	Week      map[string]GeneratedDay `json:"week"`
}

// GenerateMealPlan asks the remote service for a plan and reshapes it into
// the structure accepted when saving a meal plan.
func (c *Client) GenerateMealPlan(ctx context.Context, req GenerateRequest) (*GeneratedPlan, error) {
	timeFrame := strings.ToLower(strings.TrimSpace(req.TimeFrame))
	if timeFrame == "" {
		timeFrame = "week"
	}
	if timeFrame != "day" && timeFrame != "week" {
		return nil, shared.Validation("timeFrame must be day or week")
	}
	if req.TargetCalories < 0 {
		return nil, shared.Validation("targetCalories must not be negative")
	}

	q := url.Values{"timeFrame": {timeFrame}}
	if req.TargetCalories > 0 {
		q.Set("targetCalories", strconv.Itoa(req.TargetCalories))
	}
	if v := strings.TrimSpace(req.Diet); v != "" {
		q.Set("diet", v)
	}
	if v := strings.TrimSpace(req.Exclude); v != "" {
		q.Set("exclude", v)
	}

	plan := &GeneratedPlan{TimeFrame: timeFrame, Week: map[string]GeneratedDay{}}

	body, ok, err := c.get(ctx, "generate_meal_plan", c.endpointURL("/mealplanner/generate", q))
	if err != nil {
		return nil, err
	}
	if !ok {
		return plan, nil
	}
	if !gjson.ValidBytes(body) {
		c.logger.Error("recipe api returned malformed json", zap.String("endpoint", "generate_meal_plan"))
		return nil, shared.UpstreamFormat("recipe api returned malformed json", nil)
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		c.logger.Warn("recipe api returned unexpected shape", zap.String("endpoint", "generate_meal_plan"))
		return plan, nil
	}

	if week := field(doc, "week"); week.IsObject() {
		week.ForEach(func(key, value gjson.Result) bool {
			plan.Week[strings.ToLower(key.String())] = parseDay(value)
			return true
		})
	} else if field(doc, "meals").IsArray() {
		plan.Week["day"] = parseDay(doc)
	}
	return plan, nil
}

func parseDay(day gjson.Result) GeneratedDay {
	nutrients := field(day, "nutrients")
	out := GeneratedDay{
		Meals:         []GeneratedMeal{},
		Calories:      field(nutrients, "calories").Float(),
		Protein:       field(nutrients, "protein").Float(),
		Fat:           field(nutrients, "fat").Float(),
		Carbohydrates: field(nutrients, "carbohydrates").Float(),
	}
	for _, m := range field(day, "meals").Array() {
		id := field(m, "id").Int()
		imageType := field(m, "imageType").String()
		meal := GeneratedMeal{
			SpoonacularID:  id,
			Title:          field(m, "title").String(),
			ImageType:      imageType,
			SourceURL:      field(m, "sourceUrl").String(),
			ReadyInMinutes: int(field(m, "readyInMinutes").Int()),
			Servings:       int(field(m, "servings").Int()),
		}
		if id > 0 && imageType != "" {
			meal.Image = fmt.Sprintf("%s/%d-556x370.%s", imageBaseURL, id, imageType)
		}
		out.Meals = append(out.Meals, meal)
	}
	return out
}
