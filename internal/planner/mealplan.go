package planner

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MealPlan is a saved plan owned by one user.
type MealPlan struct {
	ID             uuid.UUID `db:"id"`
	UserID         uuid.UUID `db:"user_id"`
	TargetCalories *int      `db:"target_calories"`
	Diet           *string   `db:"diet"`
	Exclude        *string   `db:"exclude_ingredients"`
	CreatedAt      time.Time `db:"created_at"`

	Days []Day `db:"-"`
}

// Day is one day of a plan with its nutrient totals.
type Day struct {
	ID            uuid.UUID `db:"id"`
	MealPlanID    uuid.UUID `db:"meal_plan_id"`
	SortOrder     int       `db:"sort_order"`
	DayOfWeek     string    `db:"day_of_week"`
	Calories      float64   `db:"calories"`
	Protein       float64   `db:"protein"`
	Fat           float64   `db:"fat"`
	Carbohydrates float64   `db:"carbohydrates"`

	Meals []Meal `db:"-"`
}

// Meal references a recipe from the remote recipe API.
type Meal struct {
	ID             uuid.UUID `db:"id"`
	DayID          uuid.UUID `db:"meal_plan_day_id"`
	SortOrder      int       `db:"sort_order"`
	SourceRecipeID int64     `db:"source_recipe_id"`
	Title          string    `db:"title"`
	Image          *string   `db:"image"`
	ImageType      *string   `db:"image_type"`
	SourceURL      *string   `db:"source_url"`
	ReadyInMinutes int       `db:"ready_in_minutes"`
	Servings       int       `db:"servings"`
}

// CreateInput is a plan to save, keyed by day label.
type CreateInput struct {
	TargetCalories *int                `json:"targetCalories,omitempty"`
	Diet           *string             `json:"diet,omitempty"`
	Exclude        *string             `json:"exclude,omitempty"`
	Week           map[string]DayInput `json:"week"`
}

// DayInput is one day of a CreateInput.
type DayInput struct {
	Meals         []MealInput `json:"meals"`
	Calories      float64     `json:"calories"`
	Protein       float64     `json:"protein"`
	Fat           float64     `json:"fat"`
	Carbohydrates float64     `json:"carbohydrates"`
}

// MealInput is one meal of a DayInput.
type MealInput struct {
	SpoonacularID  int64   `json:"spoonacularId"`
	Title          string  `json:"title"`
	Image          *string `json:"image,omitempty"`
	ImageType      *string `json:"imageType,omitempty"`
	SourceURL      *string `json:"sourceUrl,omitempty"`
	ReadyInMinutes int     `json:"readyInMinutes"`
	Servings       int     `json:"servings"`
}

// Response is the caller-facing projection of a MealPlan.
type Response struct {
	ID             uuid.UUID     `json:"id"`
	TargetCalories *int          `json:"targetCalories,omitempty"`
	Diet           *string       `json:"diet,omitempty"`
	Exclude        *string       `json:"exclude,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	Days           []DayResponse `json:"days"`
}

// DayResponse is one day of a Response.
type DayResponse struct {
	DayOfWeek     string         `json:"dayOfWeek"`
	Calories      float64        `json:"calories"`
	Protein       float64        `json:"protein"`
	Fat           float64        `json:"fat"`
	Carbohydrates float64        `json:"carbohydrates"`
	Meals         []MealResponse `json:"meals"`
}

// MealResponse is one meal of a DayResponse.
type MealResponse struct {
	SpoonacularID  int64   `json:"spoonacularId"`
	Title          string  `json:"title"`
	Image          *string `json:"image,omitempty"`
	ImageType      *string `json:"imageType,omitempty"`
	SourceURL      *string `json:"sourceUrl,omitempty"`
	ReadyInMinutes int     `json:"readyInMinutes"`
	Servings       int     `json:"servings"`
}

// ToResponse maps a stored plan to its response projection.
func ToResponse(p MealPlan) Response {
	days := make([]DayResponse, 0, len(p.Days))
	for _, d := range p.Days {
		meals := make([]MealResponse, 0, len(d.Meals))
		for _, m := range d.Meals {
			meals = append(meals, MealResponse{
				SpoonacularID:  m.SourceRecipeID,
				Title:          m.Title,
				Image:          m.Image,
				ImageType:      m.ImageType,
				SourceURL:      m.SourceURL,
				ReadyInMinutes: m.ReadyInMinutes,
				Servings:       m.Servings,
			})
		}
		days = append(days, DayResponse{
			DayOfWeek:     d.DayOfWeek,
			Calories:      d.Calories,
			Protein:       d.Protein,
			Fat:           d.Fat,
			Carbohydrates: d.Carbohydrates,
			Meals:         meals,
		})
	}
	return Response{
		ID:             p.ID,
		TargetCalories: p.TargetCalories,
		Diet:           p.Diet,
		Exclude:        p.Exclude,
		CreatedAt:      p.CreatedAt,
		Days:           days,
	}
}

var weekdays = map[string]int{
	"monday":    0,
	"tuesday":   1,
	"wednesday": 2,
	"thursday":  3,
	"friday":    4,
	"saturday":  5,
	"sunday":    6,
}

// orderedDays returns the labels of week in calendar order; unknown labels sort last alphabetically.
func orderedDays(week map[string]DayInput) []string {
	labels := make([]string, 0, len(week))
	for label := range week {
		labels = append(labels, label)
	}
	rank := func(label string) int {
		if r, ok := weekdays[strings.ToLower(strings.TrimSpace(label))]; ok {
			return r
		}
		return len(weekdays)
	}
	sort.Slice(labels, func(i, j int) bool {
		ri, rj := rank(labels[i]), rank(labels[j])
		if ri != rj {
			return ri < rj
		}
		return labels[i] < labels[j]
	})
	return labels
}
