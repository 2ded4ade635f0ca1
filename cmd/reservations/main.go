package main // interactive console of the cabin reservation system

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/cabin-seat-reservation/internal/config"
	"github.com/iliyamo/cabin-seat-reservation/internal/console"
	"github.com/iliyamo/cabin-seat-reservation/internal/repository"
	"github.com/iliyamo/cabin-seat-reservation/internal/service"
)

func main() {
	_ = godotenv.Load()
	ctx := context.Background()

	in := bufio.NewReader(os.Stdin)
	path := ""
	if len(os.Args) > 1 {
		path = os.Args[1]
	} else {
		fmt.Println("Please enter a file name for saving data:")
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			log.Fatalf("no file name: %v", err)
		}
		path = strings.TrimSpace(line)
	}
	if path == "" {
		log.Fatal("no file name given")
	}

	var pub service.Publisher
	if ev := config.LoadEvents(); ev.Enabled {
		pub = service.NewRabbitPublisher(ev.AMQPURL)
	}
	mgr := service.NewManager(pub)
	store := repository.NewFileStore(path)
	if err := mgr.Load(ctx, store); err != nil {
		log.Fatalf("restore %s: %v", path, err)
	}

	runErr := console.New(mgr, store, in, os.Stdout).Run(ctx)
	flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := mgr.Close(flushCtx); err != nil {
		log.Printf("event flush: %v", err)
	}
	cancel()
	if runErr != nil {
		log.Fatalf("save %s: %v", path, runErr)
	}
}
