// Command patrontoken mints a patron bearer token for local testing.
//
//	patrontoken -id p-1 -name "Ada Lovelace" -email ada@example.org
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/iliyamo/room-booking-grid/internal/config"
	"github.com/iliyamo/room-booking-grid/internal/model"
	"github.com/iliyamo/room-booking-grid/internal/utils"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	id := flag.String("id", "", "patron id")
	name := flag.String("name", "", "patron display name")
	email := flag.String("email", "", "patron email")
	ttl := flag.Duration("ttl", cfg.TokenTTL, "token lifetime")
	flag.Parse()

	tok, err := utils.NewPatronToken(cfg.JWTSecret, model.Patron{ID: *id, Name: *name, Email: *email}, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(tok.Token)
	fmt.Fprintf(os.Stderr, "expires %s\n", tok.Exp.Format("2006-01-02 15:04:05 MST"))
}
