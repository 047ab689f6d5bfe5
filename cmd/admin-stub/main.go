package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"github.com/jobsetu/admin-tui/internal/stub"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:5000", "Listen address")
	secret := flag.String("secret", "dev-secret-change-me", "JWT signing secret")
	devOTP := flag.Bool("dev-otp", false, "Accept any six-digit OTP")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	store := stub.NewStore()
	auth := stub.NewAuth(store, *secret, log)
	auth.SetDevOTP(*devOTP)
	broadcaster := stub.NewBroadcaster(log)
	server := stub.NewServer(store, auth, broadcaster, log)

	log.Info().Str("addr", *addr).Msg("stub backend listening")
	log.Info().Msg("seeded admin mobile: 9999999999 (OTP is printed to this log)")
	if err := http.ListenAndServe(*addr, server.Router()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
