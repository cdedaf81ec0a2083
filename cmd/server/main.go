package main

import (
	"fmt"
	"os"

	"github.com/mrelokusa/PopQuiz/internal/cli"
)

// @title           PopQuiz API
// @version         1.0
// @description     Personality quiz platform: build quizzes, play them, see how you compare to the crowd
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
