package app

import (
	"context"
	"net/http"
	"time"

	"mealplanner/internal/auth"
	"mealplanner/internal/config"
	"mealplanner/internal/database"
	"mealplanner/internal/fridge"
	"mealplanner/internal/ingredient"
	"mealplanner/internal/metrics"
	"mealplanner/internal/planner"
	"mealplanner/internal/recipe"
	"mealplanner/internal/shopping"
	"mealplanner/internal/spoonacular"
	"mealplanner/internal/user"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// IdentityVerifier turns a login credential into a verified identity.
type IdentityVerifier interface {
	Verify(ctx context.Context, credential string) (auth.Identity, error)
}

// Services groups the domain services behind the HTTP surface.
type Services struct {
	Users       *user.Service
	Ingredients *ingredient.Service
	Fridge      *fridge.Service
	Recipes     *recipe.Service
	MealPlans   *planner.Service
	Shopping    *shopping.Service
	RecipeAPI   *spoonacular.Client
}

// NewServices wires repositories and services over db.
func NewServices(cfg *config.Config, db *database.DB, logger *zap.Logger, recorder *metrics.Recorder) (*Services, error) {
	users := user.NewRepository(db.SQL)
	ingredientRepo := ingredient.NewRepository(db.SQL)
	ingredients := ingredient.NewService(ingredientRepo, logger.Named("ingredient"))

	fridgeSvc := fridge.NewService(fridge.NewRepository(db.SQL), ingredients, users, logger.Named("fridge"))
	recipeSvc := recipe.NewService(db.SQL, recipe.NewRepository(db.SQL), ingredientRepo, users, logger.Named("recipe"))
	planSvc := planner.NewService(db.SQL, planner.NewPlanRepository(db.SQL), users, logger.Named("planner"))
	shoppingSvc := shopping.NewService(shopping.NewRepository(db.SQL), users)

	recipeAPI, err := spoonacular.NewClient(cfg, logger.Named("spoonacular"), recorder)
	if err != nil {
		return nil, err
	}

	return &Services{
		Users:       user.NewService(users, fridgeSvc, recipeSvc, planSvc, shoppingSvc, logger.Named("user")),
		Ingredients: ingredients,
		Fridge:      fridgeSvc,
		Recipes:     recipeSvc,
		MealPlans:   planSvc,
		Shopping:    shoppingSvc,
		RecipeAPI:   recipeAPI,
	}, nil
}

// App holds the application's dependencies and serves the HTTP API.
type App struct {
	cfg      *config.Config
	logger   *zap.Logger
	db       *database.DB
	recorder *metrics.Recorder
	tokens   *auth.Tokens
	verifier IdentityVerifier
	svc      *Services
}

// NewApp creates and initializes a new App instance.
func NewApp(
	cfg *config.Config,
	logger *zap.Logger,
	db *database.DB,
	recorder *metrics.Recorder,
	svc *Services,
	tokens *auth.Tokens,
	verifier IdentityVerifier,
) *App {
	return &App{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		recorder: recorder,
		tokens:   tokens,
		verifier: verifier,
		svc:      svc,
	}
}

// Routes builds the router.
func (a *App) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(a.observe)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.cfg.AllowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", a.health)
	r.Method(http.MethodGet, "/metrics", a.recorder.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/dbcheck", a.dbCheck)
		r.Post("/user/login", a.login)
		r.Post("/user/logout", a.logout)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(a.tokens, a.logger))

			r.Get("/user/me", a.me)
			r.Get("/ingredients", a.listIngredients)

			r.Route("/fridgeitems", func(r chi.Router) {
				r.Get("/", a.listFridgeItems)
				r.Post("/", a.createFridgeItem)
				r.Get("/{id}", a.getFridgeItem)
				r.Put("/{id}", a.updateFridgeItem)
				r.Delete("/{id}", a.deleteFridgeItem)
			})

			r.Route("/recipes", func(r chi.Router) {
				r.Get("/", a.listRecipes)
				r.Post("/", a.createRecipe)
				r.Get("/saved", a.listSavedRecipes)
				r.Get("/{id}", a.getRecipe)
				r.Put("/{id}", a.updateRecipe)
				r.Delete("/{id}", a.deleteRecipe)
			})

			r.Route("/mealplan", func(r chi.Router) {
				r.Get("/", a.listMealPlans)
				r.Post("/", a.saveMealPlan)
				r.Delete("/{id}", a.deleteMealPlan)
			})

			r.Route("/shoppinglist", func(r chi.Router) {
				r.Get("/", a.listShoppingItems)
				r.Post("/", a.addShoppingItem)
				r.Put("/{id}", a.updateShoppingItem)
				r.Delete("/{id}", a.deleteShoppingItem)
			})

			r.Route("/spoonacular", func(r chi.Router) {
				r.Get("/recipes", a.searchRecipes)
				r.Get("/recipes/{id}", a.recipeDetails)
				r.Get("/mealplan", a.generateMealPlan)
			})
		})
	})

	return r
}

// Server returns an http.Server for the router on the configured port.
func (a *App) Server() *http.Server {
	return &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           a.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
