package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	api "github.com/seraj-edu/seraj/internal/api/http"
	auth "github.com/seraj-edu/seraj/internal/auth/middleware"
	"github.com/seraj-edu/seraj/internal/chat"
	"github.com/seraj-edu/seraj/internal/chat/gemini"
	"github.com/seraj-edu/seraj/internal/config"
	"github.com/seraj-edu/seraj/internal/db"
	"github.com/seraj-edu/seraj/internal/lesson"
	"github.com/seraj-edu/seraj/internal/quiz"
	rbac "github.com/seraj-edu/seraj/internal/rbac"
	storage "github.com/seraj-edu/seraj/internal/storage"
	syncx "github.com/seraj-edu/seraj/internal/sync"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	if cfg.SeedLessons {
		if err := db.SeedLessons(ctx, dbh); err != nil {
			log.Fatalf("lesson seed failed: %v", err)
		}
	}

	events := syncx.NewEventRepo(dbh)
	quizStore := quiz.NewSQLStore(dbh, cfg.QuizAttemptLimit, events)
	lessonStore := lesson.NewSQLStore(dbh)
	chatStore := chat.NewSQLStore(dbh, events)
	chatSvc := chat.NewService(chatStore, gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel))

	authSvc := auth.NewAuthService(cfg.AuthSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second)) // chat turns can run several generations

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, dbh))
	r.Post("/auth/register", auth.RegisterHandler(authSvc, dbh))

	bs, err := storage.NewFSStore(cfg.AssetBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Use(auth.AttachRoleFromDB(dbh, true))
		pr.Route("/assets", func(ar chi.Router) {
			api.MountAssets(ar, bs)
		})
	})

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Use(auth.AttachRoleFromDB(dbh, true))

		pr.With(rbac.Require("lesson:view")).
			Get("/lessons", api.ListLessonsHandler(lessonStore))
		pr.With(rbac.Require("lesson:view")).
			Get("/lessons/{lessonID}", api.GetLessonHandler(lessonStore))

		pr.With(rbac.Require("quiz:take")).
			Post("/quiz/attempts", api.StartQuizHandler(quizStore, lessonStore, cfg.QuizDefaultQuestions))
		pr.With(rbac.Require("quiz:submit")).
			Post("/quiz/attempts/{attemptID}/submit", api.SubmitQuizHandler(quizStore))

		pr.With(rbac.RequireAny("results:view-own", "results:view-all")).
			Get("/quiz/results", api.ListResultsHandler(quizStore))
		pr.With(rbac.Require("results:view-own")).
			Get("/dashboard/stats", api.DashboardHandler(quizStore, lessonStore))

		pr.With(rbac.Require("chat:send")).
			Post("/chat", api.ChatHandler(chatSvc))
		pr.With(rbac.Require("chat:history")).
			Get("/chat/history", api.ChatHistoryHandler(chatStore))
		pr.With(rbac.Require("chat:history")).
			Get("/chat/latest", api.ChatLatestHandler(chatStore))
		pr.With(rbac.Require("chat:history")).
			Delete("/chat/history", api.ChatClearHandler(chatStore))
		pr.With(rbac.Require("chat:send")).
			Post("/chat/threads", api.CreateThreadHandler(chatStore))
		pr.With(rbac.Require("chat:history")).
			Get("/chat/threads", api.ListThreadsHandler(chatStore))

		pr.With(rbac.Require("user:change_password")).
			Post("/users/change-password", api.ChangePasswordHandler(dbh))

		// Admin surface
		pr.With(rbac.Require("admin:overview")).
			Get("/admin/users", api.AdminOverviewHandler(quizStore))
		pr.With(rbac.Require("admin:overview")).
			Get("/admin/users/{userID}/results", api.AdminUserResultsHandler(quizStore))
		pr.With(rbac.Require("admin:activity")).
			Get("/admin/activity", api.AdminActivityHandler(events))
		pr.With(rbac.Require("users:bulk_upsert")).
			Post("/users/bulk", api.ImportRosterHandler(dbh))
		pr.With(rbac.Require("users:list")).
			Get("/users", api.ListUsersHandler(dbh))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbh.PingContext(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
	})

	log.Printf("listening on %s (db=%s, model=%s)", cfg.HTTPAddr, cfg.DBDriver, cfg.GeminiModel)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
