package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/Codding0001/bond-chat-verse-sub000/internal/api/handler"
	"github.com/Codding0001/bond-chat-verse-sub000/internal/config"
	"github.com/Codding0001/bond-chat-verse-sub000/internal/models"
	"github.com/Codding0001/bond-chat-verse-sub000/internal/realtime"
	"github.com/Codding0001/bond-chat-verse-sub000/internal/session"
	"github.com/Codding0001/bond-chat-verse-sub000/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	err = db.AutoMigrate(
		&models.Profile{},
		&models.Message{},
		&models.ChatMember{},
		&models.Reaction{},
		&models.TypingIndicator{},
		&models.Transaction{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting BondChat Backend...")

	cfg := config.Load()

	db, rdb := setupDependencies(cfg)
	s := storage.NewService(db, rdb)
	if err := s.Ping(context.Background()); err != nil {
		log.Fatalf("Failed to reach backing stores: %v", err)
	}
	sessions := session.NewStore()

	hub := realtime.NewHub(s)
	go hub.Run(context.Background())

	r := gin.Default()
	h := handler.NewHandler(s, hub, sessions, cfg.JWTSecret)

	r.POST("/token", h.Token)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authed := r.Group("/", h.AuthRequired())
	{
		authed.GET("/chats", h.ListChats)
		authed.GET("/chats/:id", h.GetChat)
		authed.POST("/chats/:id/messages", h.SendMessage)
		authed.POST("/chats/:id/read", h.MarkRead)
		authed.GET("/chats/:id/members", h.GetMembers)
		authed.PUT("/chats/:id/pin", h.SetPinned)
		authed.GET("/chats/:id/typing", h.GetTyping)
		authed.POST("/chats/:id/tip", h.Tip)
		authed.DELETE("/messages/:id", h.DeleteMessage)
		authed.POST("/messages/:id/reactions", h.ToggleReaction)
		authed.GET("/ws", h.ServeWebSocket)
	}

	server := &http.Server{
		Addr:           cfg.ListenAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
