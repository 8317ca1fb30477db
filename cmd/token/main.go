// Command token は /v1 用の運用トークンを JWT_SECRET で署名して出力します。
//
//	go run ./cmd/token -sub dashboard -ttl 720h
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	jwtmw "xauusd_backend/internal/platform/jwt"
	"xauusd_backend/internal/platform/logging"
)

func main() {
	_ = godotenv.Load()
	logging.Setup(os.Stderr, os.Getenv("LOG_LEVEL"))

	sub := flag.String("sub", "operator", "token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	token, err := jwtmw.NewGenerator(os.Getenv(jwtmw.EnvKeyJWTSecret), *ttl).GenerateToken(*sub)
	if err != nil {
		slog.Error("failed to generate token", "error", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
