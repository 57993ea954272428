package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"quickquiz/internal/cli"
	"quickquiz/internal/config"
	"quickquiz/internal/database"
	"quickquiz/internal/logger"
	"quickquiz/internal/quiz"
	"quickquiz/internal/session"
	"quickquiz/internal/userclient"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	server := flag.String("server", cfg.Client.ServerURL, "quiz service base URL")
	timeout := flag.Duration("timeout", cfg.Client.HTTPTimeout, "HTTP timeout")
	local := flag.Bool("local", false, "read questions straight from the configured store instead of the service")
	flag.Parse()

	// Only warnings and errors, on stderr, so the quiz screen stays clean.
	log := logger.New(os.Stderr, "warn", cfg.Log.Format)

	api, closeAPI, err := buildAPI(cfg, *local, *server, *timeout, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer closeAPI()

	var out io.Writer = os.Stdout
	clearScreen := false
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		defer func() { _ = term.Restore(fd, state) }()
		out = cli.NewCRLFWriter(os.Stdout)
		clearScreen = true
	}

	opts := cli.Options{
		ClearScreen: clearScreen,
		Log:         log,
	}
	if client, ok := api.(*userclient.HTTPClient); ok {
		opts.DescribeError = func(err error) error {
			return userclient.DescribeError(err, client.BaseURL())
		}
	}

	controller := session.NewController(api)
	err = cli.Run(context.Background(), os.Stdin, out, controller, opts)
	if err != nil {
		log.Error().Err(err).Msg("quiz-cli failed")
	}
}

func buildAPI(cfg *config.Config, local bool, serverURL string, timeout time.Duration, log zerolog.Logger) (session.API, func(), error) {
	if !local {
		client := userclient.NewHTTPClient(serverURL, &http.Client{Timeout: timeout})
		return client, func() {}, nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	open, err := database.OpenerFor(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	store := database.NewHandle(open, log)
	service := quiz.NewService(store, store, log)
	return session.Local{Service: service}, func() { _ = store.Close() }, nil
}
