package main // prints the bcrypt hash to put in AGENT_PASSWORD_HASH

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/iliyamo/cabin-seat-reservation/internal/config"
	"github.com/iliyamo/cabin-seat-reservation/internal/utils"
)

func main() {
	plain := ""
	if len(os.Args) > 1 {
		plain = os.Args[1]
	} else {
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		plain = strings.TrimRight(line, "\r\n")
	}
	if plain == "" {
		log.Fatal("usage: hashpass <password>  (or pipe it on stdin)")
	}
	hash, err := utils.HashPassword(plain, config.BcryptCost())
	if err != nil {
		log.Fatalf("hash: %v", err)
	}
	fmt.Println(hash)
}
