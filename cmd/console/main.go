// Console is an interactive client for the home-automation command
// protocol. It connects over TCP, prints the server banner and forwards
// each input line as a command, printing the response.
//
// Usage:
//
//	console [--host localhost] [--port 5000]
package main

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const responseTimeout = 10 * time.Second

var (
	host string
	port int
)

var rootCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive console for the home-automation server",
	Long: `Connects to the TCP command port of the home-automation server and
runs an interactive session. Type protocol commands (LOGIN, LIST, STATUS,
SET, ...) and see the raw responses. EXIT ends the session.`,
	RunE: runConsole,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.Flags().StringVar(&host, "host", "localhost", "Server host")
	rootCmd.Flags().IntVar(&port, "port", 5000, "Server TCP port")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runConsole(cmd *cobra.Command, args []string) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	conn, err := net.DialTimeout("tcp", addr, responseTimeout)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", addr, err)
	}
	defer conn.Close()

	server := bufio.NewScanner(conn)

	// The banner is two lines: title and command summary.
	for i := 0; i < 2; i++ {
		if !server.Scan() {
			return fmt.Errorf("connection closed before banner")
		}
		fmt.Println(server.Text())
	}
	fmt.Println()

	stdin := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !stdin.Scan() {
			fmt.Println()
			return nil
		}
		line := strings.TrimSpace(stdin.Text())
		if line == "" {
			continue
		}

		if _, err := fmt.Fprintf(conn, "%s\n", line); err != nil {
			return fmt.Errorf("send command: %w", err)
		}
		_ = conn.SetReadDeadline(time.Now().Add(responseTimeout))
		if !server.Scan() {
			if err := server.Err(); err != nil {
				return fmt.Errorf("read response: %w", err)
			}
			fmt.Println("connection closed by server")
			return nil
		}
		fmt.Println(server.Text())

		if strings.EqualFold(line, "EXIT") {
			return nil
		}
	}
}
