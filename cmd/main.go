package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/armada-game/armada-backend/api"
	"github.com/armada-game/armada-backend/db"
	"github.com/armada-game/armada-backend/db/sqlc"
	mc "github.com/armada-game/armada-backend/models/connection"
	mg "github.com/armada-game/armada-backend/models/game"
)

func main() {
	if os.Getenv("STAGE") != "prod" {
		if err := godotenv.Load(".env"); err != nil {
			panic(err)
		}
	}
	stage := os.Getenv("STAGE")
	if stage != "dev" && stage != "prod" {
		panic("stage must be either dev or prod")
	}

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		panic(err)
	}

	// Game state itself never touches the database; DATABASE_URL
	// only feeds the per-server analytics counters and the server
	// runs fine without it.
	var querier sqlc.Querier
	if psqlUrl := os.Getenv("DATABASE_URL"); psqlUrl != "" {
		querier = sqlc.New(db.MustConnectToDb(psqlUrl))
	}

	sessionManager := mc.NewSessionManager()
	go sessionManager.CleanupPeriodically()

	roomManager := mg.NewRoomManager()

	rp := api.NewRequestProcessor(sessionManager, roomManager, querier)

	mux := http.NewServeMux()
	mux.Handle("GET /battleship", rp)

	log.Printf("Listening to port %d\n", port)
	log.Fatalln(http.ListenAndServe("0.0.0.0:"+fmt.Sprintf("%d", port), mux))
}
