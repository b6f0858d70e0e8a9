package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/hryvna/ibanledger"
	"gopkg.in/yaml.v3"

	"github.com/rs/zerolog"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	var cfg ibanledger.Config
	cfp := flag.String("config", "config.yml", "path to configuration file")
	flag.Parse()
	cfgfl, err := os.Open(*cfp)
	if err != nil {
		logger.Fatal().Err(err).Msg("error opening config file")
	}
	if err = yaml.NewDecoder(cfgfl).Decode(&cfg); err != nil {
		logger.Fatal().Err(err).Msg("error decoding config file")
	}

	pgendpt, err := ibanledger.NewPostgresEndpoint(cfg.Database.ConnectionString, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("error starting database")
	}
	defer pgendpt.Close()

	limits, err := ibanledger.NewStaticLimits(cfg.Limits)
	if err != nil {
		logger.Fatal().Err(err).Msg("error parsing limits config")
	}
	gen := ibanledger.NewIbanGenerator()

	svc, err := ibanledger.NewService(pgendpt, gen, limits, cfg.Iban.Country, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("error starting service")
	}

	var wrapped ibanledger.Service = svc
	for _, mw := range []ibanledger.Middleware{
		ibanledger.NewCircuitBreakMiddleware(ibanledger.NewServiceBreaker()),
		ibanledger.NewLimitMiddleware(ibanledger.NewServiceLimits(cfg.Concurrency), ibanledger.DefaultAcquireTimeout),
		ibanledger.NewValidationMiddleware(gen, limits),
	} {
		wrapped = mw(wrapped)
	}
	hndlr := ibanledger.NewHTTPHandler(wrapped, &logger)

	logger.Info().Str("addr", cfg.Server.Addr).Msg("listening")
	if err := http.ListenAndServe(cfg.Server.Addr, hndlr); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}
