package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"skoll/internal/config"
	"skoll/internal/report"
	"skoll/internal/sim"
)

func main() {
	envPath := flag.String("env", "", "path to a .env parameter file")
	outPath := flag.String("out", "", "write the trade log as CSV to this file (default stdout)")
	seedList := flag.String("seeds", "", "comma-separated seeds for a parallel batch; empty runs a single simulation")
	workers := flag.Int("workers", 0, "worker count for batch runs")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	params := config.LoadFromEnv(*envPath)
	if err := params.Validate(); err != nil {
		log.Fatal().Err(err).Msg("bad configuration")
	}

	if *seedList != "" {
		runBatch(ctx, params, *seedList, *workers)
		return
	}

	simulator, err := sim.New(params)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to build simulation")
	}
	results, err := simulator.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("simulation aborted")
	}
	results.Log(log.Logger)

	if err := writeTrades(results, *outPath); err != nil {
		log.Fatal().Err(err).Msg("unable to write trade log")
	}
}

func runBatch(ctx context.Context, params config.Params, seedList string, workers int) {
	var seeds []int64
	for _, raw := range strings.Split(seedList, ",") {
		seed, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			log.Fatal().Str("seed", raw).Msg("seeds must be integers")
		}
		seeds = append(seeds, seed)
	}

	runner := sim.NewRunner(workers)
	batch, err := runner.RunSeeds(ctx, params, seeds)
	if err != nil {
		log.Fatal().Err(err).Msg("batch aborted")
	}
	for _, results := range batch {
		results.Log(log.Logger)
	}
}

func writeTrades(results *report.Results, outPath string) error {
	tradeLog := report.NewTradeLog()
	for _, t := range results.Trades {
		tradeLog.RecordTrade(t)
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return tradeLog.WriteCSV(out)
}
