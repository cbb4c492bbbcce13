package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/tailored-agentic-units/bucket/contract"
	"github.com/tailored-agentic-units/bucket/ingress"
)

const usage = `Usage: bucketctl [-addr URL] <command> [args]

Commands:
  insert <key> <value>          store value under key
  read <key>                    print the value stored under key
  send <action> <key> <value>   deliver a tuple under any action
  recycle                       empty the bucket`

func main() {
	var (
		addr    = flag.String("addr", "http://localhost:8080", "Ingress base URL")
		timeout = flag.Duration("timeout", 10*time.Second, "Request timeout")
	)
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	client := ingress.NewClient(http.DefaultClient, *addr)

	if err := run(ctx, client, args[0], args[1:]); err != nil {
		log.Fatalf("%s failed: %v", args[0], err)
	}
}

func run(ctx context.Context, client *ingress.Client, command string, args []string) error {
	switch command {
	case "insert":
		if len(args) != 2 {
			return fmt.Errorf("insert takes <key> <value>")
		}
		text, err := client.Insert(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Println(text)

	case "read":
		if len(args) != 1 {
			return fmt.Errorf("read takes <key>")
		}
		value, err := client.Read(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Println(value)

	case "send":
		if len(args) != 3 {
			return fmt.Errorf("send takes <action> <key> <value>")
		}
		reply, err := client.Send(ctx, args[0], args[1], args[2])
		if err != nil {
			return err
		}
		printReply(reply)

	case "recycle":
		if err := client.Recycle(ctx); err != nil {
			return err
		}
		fmt.Println("recycled")

	default:
		return fmt.Errorf("unknown command %q", command)
	}
	return nil
}

func printReply(reply ingress.Reply) {
	fmt.Printf("action: %q\n", reply.Action)

	if text, err := reply.Text(); err == nil {
		fmt.Printf("text: %q\n", text)
		return
	}
	if tuple, err := contract.DecodeTuple(reply.Payload); err == nil {
		fmt.Printf("tuple: first=%q second=%q\n", tuple.First, tuple.Second)
		return
	}
	fmt.Printf("payload: %s\n", strings.TrimSpace(reply.Payload.String()))
}
