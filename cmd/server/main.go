package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/box-tea/api/internal/cart"
	"github.com/box-tea/api/internal/config"
	"github.com/box-tea/api/internal/database"
	"github.com/box-tea/api/internal/router"
	"github.com/box-tea/api/internal/ws"
)

func main() {
	cfg := config.Load()

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()
	log.Println("Connected to database")

	queries := database.New(pool)
	carts := cart.NewStore()

	hub := ws.NewHub()
	go hub.Run()

	r := router.New(cfg, queries, carts, hub)

	log.Printf("Starting server on :%s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatal(err)
	}
}
