// Command stackctl is the command-line client for a running stackd instance.
//
// Exit codes: 0 success, 1 generic failure, 2 configuration error, 3 I/O
// error, 4 malformed input, 5 device not present.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	exitConfigError  = 2
	exitIOError      = 3
	exitFormatError  = 4
	exitNotPresent   = 5
	defaultServerURL = "http://localhost:8000"
)

type client struct {
	rest *resty.Client
}

func main() {
	server := flag.String("server", serverFromEnv(), "stackd base URL")
	timeout := flag.Duration("timeout", 10*time.Second, "Request timeout")
	flag.Usage = showHelp
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		showHelp()
		os.Exit(1)
	}

	c := &client{
		rest: resty.New().
			SetBaseURL(*server).
			SetTimeout(*timeout).
			SetHeader("User-Agent", "stackctl/1.0"),
	}

	var status int
	switch cmd := args[0]; cmd {
	case "set-size":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "Error: The set-size command requires a size argument")
			os.Exit(1)
		}
		status = c.setSize(args[1])
	case "push":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "Error: The push command requires a value argument")
			os.Exit(1)
		}
		status = c.push(args[1])
	case "pop":
		status = c.pop()
	case "unwind":
		status = c.unwind()
	case "size":
		status = c.query("/stack/capacity", "capacity")
	case "usage":
		status = c.query("/stack/usage", "usage")
	case "clear":
		status = c.clear()
	case "stats":
		status = c.stats()
	default:
		fmt.Fprintf(os.Stderr, "Error: Unknown command: %s\n", cmd)
		showHelp()
		status = 1
	}

	os.Exit(status)
}

func serverFromEnv() string {
	if addr := os.Getenv("STACKD_ADDR"); addr != "" {
		return addr
	}
	return defaultServerURL
}

func showHelp() {
	fmt.Printf("Usage: %s [flags] <command> [arguments]\n\n", os.Args[0])
	fmt.Println("Available commands:")
	fmt.Println("  set-size <size>  Configure the maximum stack capacity")
	fmt.Println("  push <value>     Add an integer to the stack")
	fmt.Println("  pop              Remove and display the top stack element")
	fmt.Println("  unwind           Remove and display all stack elements")
	fmt.Println("  size             Display the current capacity")
	fmt.Println("  usage            Display the current occupied count")
	fmt.Println("  clear            Discard all stack elements")
	fmt.Println("  stats            Display the operation counters")
	fmt.Println("\nFlags:")
	flag.PrintDefaults()
}

func (c *client) setSize(sizeStr string) int {
	size, err := strconv.ParseInt(sizeStr, 10, 64)
	if err != nil || size <= 0 {
		fmt.Fprintln(os.Stderr, "Error: Stack size must be a positive number")
		return exitFormatError
	}

	resp, err := c.rest.R().
		SetBody(map[string]int64{"capacity": size}).
		Put("/stack/capacity")
	if err != nil {
		return ioError(err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return 0
	case http.StatusServiceUnavailable:
		return notPresent()
	case http.StatusBadRequest:
		fmt.Fprintln(os.Stderr, "Error: Specified size value is invalid")
		return exitConfigError
	default:
		fmt.Fprintf(os.Stderr, "Error: Failed to configure stack size: %s\n", resp.Status())
		return exitConfigError
	}
}

func (c *client) push(valueStr string) int {
	value, err := strconv.ParseInt(valueStr, 10, 32)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: Input must be a valid integer")
		return exitFormatError
	}

	resp, err := c.rest.R().
		SetBody(map[string]int64{"value": value}).
		Post("/stack/push")
	if err != nil {
		return ioError(err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return 0
	case http.StatusServiceUnavailable:
		return notPresent()
	case http.StatusConflict, http.StatusInsufficientStorage:
		fmt.Fprintln(os.Stderr, "Error: Stack is full")
		return exitIOError
	default:
		fmt.Fprintf(os.Stderr, "Error: Failed to write to stack: %s\n", resp.Status())
		return exitIOError
	}
}

func (c *client) pop() int {
	value, empty, status := c.popOne()
	if status != 0 {
		return status
	}
	if empty {
		fmt.Println("Stack is empty")
		return 0
	}
	fmt.Println(value)
	return 0
}

func (c *client) unwind() int {
	count := 0
	for {
		value, empty, status := c.popOne()
		if status != 0 {
			return status
		}
		if empty {
			if count == 0 {
				fmt.Println("Stack is empty")
			}
			return 0
		}
		fmt.Println(value)
		count++
	}
}

// popOne performs a single pop. empty reports the end-of-data signal.
func (c *client) popOne() (value int64, empty bool, status int) {
	var body struct {
		Value int64 `json:"value"`
	}
	resp, err := c.rest.R().SetResult(&body).Post("/stack/pop")
	if err != nil {
		return 0, false, ioError(err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return body.Value, false, 0
	case http.StatusNoContent:
		return 0, true, 0
	case http.StatusServiceUnavailable:
		return 0, false, notPresent()
	default:
		fmt.Fprintf(os.Stderr, "Error: Failed to read from stack: %s\n", resp.Status())
		return 0, false, exitIOError
	}
}

func (c *client) query(path, field string) int {
	var body map[string]int64
	resp, err := c.rest.R().SetResult(&body).Get(path)
	if err != nil {
		return ioError(err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		fmt.Println(body[field])
		return 0
	case http.StatusServiceUnavailable:
		return notPresent()
	default:
		fmt.Fprintf(os.Stderr, "Error: Failed to read from stack: %s\n", resp.Status())
		return exitIOError
	}
}

func (c *client) clear() int {
	resp, err := c.rest.R().Post("/stack/clear")
	if err != nil {
		return ioError(err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return 0
	case http.StatusServiceUnavailable:
		return notPresent()
	default:
		fmt.Fprintf(os.Stderr, "Error: Failed to clear stack: %s\n", resp.Status())
		return exitIOError
	}
}

func (c *client) stats() int {
	var body map[string]uint64
	resp, err := c.rest.R().SetResult(&body).Get("/stack/stats")
	if err != nil {
		return ioError(err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		fmt.Printf("pushes: %d\n", body["pushes"])
		fmt.Printf("pops: %d\n", body["pops"])
		fmt.Printf("overflows: %d\n", body["overflows"])
		fmt.Printf("underflows: %d\n", body["underflows"])
		return 0
	case http.StatusServiceUnavailable:
		return notPresent()
	default:
		fmt.Fprintf(os.Stderr, "Error: Failed to read from stack: %s\n", resp.Status())
		return exitIOError
	}
}

func ioError(err error) int {
	fmt.Fprintf(os.Stderr, "Error: Failed to reach stack device: %v\n", err)
	return exitIOError
}

func notPresent() int {
	fmt.Fprintln(os.Stderr, "Error: Device key not present")
	return exitNotPresent
}
