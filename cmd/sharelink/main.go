// Command sharelink encodes a task list into a share token and decodes
// tokens back into JSON. It is the command-line counterpart of the web
// client's share tab and involves no server or authentication.
//
//	sharelink encode tasks.json    # prints a /shared/<token> path
//	sharelink decode <token>       # prints the snapshot as JSON
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"planify/internal/share"
)

func main() {
	if len(os.Args) < 3 {
		usage()
	}

	switch os.Args[1] {
	case "encode":
		encode(os.Args[2])
	case "decode":
		decode(os.Args[2])
	default:
		usage()
	}
}

func encode(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read %s: %v", path, err)
	}

	var tasks []share.TaskProjection
	if err := json.Unmarshal(data, &tasks); err != nil {
		log.Fatalf("parse %s: %v", path, err)
	}

	token, err := share.Encode(tasks)
	if err != nil {
		log.Fatalf("encode: %v", err)
	}
	fmt.Printf("/shared/%s\n", token)
}

func decode(token string) {
	snap, err := share.Decode(token)
	if err != nil {
		log.Fatalf("decode: %v", err)
	}

	out, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		log.Fatalf("marshal: %v", err)
	}
	fmt.Println(string(out))
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: sharelink encode <tasks.json> | decode <token>")
	os.Exit(2)
}
