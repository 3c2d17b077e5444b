package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/memberclub/memberclub-core/internal/config"
	"github.com/memberclub/memberclub-core/internal/domain/backend"
	"github.com/memberclub/memberclub-core/internal/domain/card"
	"github.com/memberclub/memberclub-core/internal/domain/ledger"
	"github.com/memberclub/memberclub-core/internal/domain/member"
	"github.com/memberclub/memberclub-core/internal/pkg/clock"
	"github.com/memberclub/memberclub-core/internal/pkg/kvstore"
	"github.com/memberclub/memberclub-core/internal/pkg/logger"
	"github.com/memberclub/memberclub-core/internal/pkg/randsrc"
	"github.com/memberclub/memberclub-core/internal/pkg/usermsg"
)

func main() {
	var (
		register  = flag.Bool("register", false, "register a new member card")
		name      = flag.String("name", "", "member name (with -register)")
		email     = flag.String("email", "", "member email (with -register)")
		phone     = flag.String("phone", "", "member phone (with -register)")
		birthdate = flag.String("birthdate", "", "member birthdate (with -register)")
		add       = flag.Int("add", 0, "points to add")
		use       = flag.Int("use", 0, "points to spend")
		desc      = flag.String("desc", "", "transaction description")
		history   = flag.Bool("history", false, "print the transaction history")
		reset     = flag.Bool("reset", false, "remove the stored card")
	)
	flag.Parse()

	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	log.Info().
		Str("env", cfg.Env).
		Str("store", cfg.StorePath).
		Dur("base_delay", cfg.BaseDelay).
		Float64("failure_rate", cfg.FailureRate).
		Msg("Starting MemberClub session")

	store, err := kvstore.NewFile(cfg.StorePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open local store")
	}

	seed := cfg.RandomSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	clk := clock.System{}
	src := randsrc.New(seed)

	api := backend.NewService(backend.Config{
		BaseDelay:     cfg.BaseDelay,
		FailureRate:   cfg.FailureRate,
		ValidityYears: cfg.ValidityYears,
	}, clk, src)

	session := member.NewSession(member.Config{
		WelcomeBonus: cfg.WelcomeBonus,
		OpTimeout:    cfg.OpTimeout,
	}, api, card.NewRepository(store), store, clk, src)

	ctx := context.Background()

	if *reset {
		if err := session.Reset(); err != nil {
			fail(err)
		}
		fmt.Println("Card removed.")
		return
	}

	if err := session.Load(ctx); err != nil && !errors.Is(err, member.ErrNoCard) {
		fail(err)
	}

	if *register {
		details, err := session.Register(ctx, card.Profile{
			Name:      *name,
			Email:     *email,
			Phone:     *phone,
			Birthdate: *birthdate,
		})
		if err != nil {
			fail(err)
		}
		fmt.Printf("Welcome, %s! Your card: %s\n", details.Name, details.CardNumber)
	}

	if *add > 0 {
		op, err := session.AddPoints(ctx, *add, *desc)
		if err != nil {
			fail(err)
		}
		fmt.Printf("Added %d points (%d -> %d)\n", op.AddedPoints, op.PreviousBalance, op.NewBalance)
	}

	if *use > 0 {
		op, err := session.UsePoints(ctx, *use, *desc)
		if err != nil {
			fail(err)
		}
		fmt.Printf("Used %d points (%d -> %d)\n", op.UsedPoints, op.PreviousBalance, op.NewBalance)
	}

	details, err := session.Details()
	if err != nil {
		fail(err)
	}
	fmt.Printf("\n%s\n", details.Name)
	fmt.Printf("%s\n", details.CardNumber)
	fmt.Printf("Points: %d  (state: %s)\n", details.Points, session.State())
	fmt.Printf("Valid until: %s\n", details.ValidUntil.Format("02/01/2006"))

	if *history {
		entries, err := session.History(ctx)
		if err != nil {
			fail(err)
		}
		fmt.Println("\nHistory:")
		if len(entries) == 0 {
			fmt.Println("  (no transactions)")
		}
		for _, tx := range entries {
			sign := "+"
			if tx.Type == ledger.TypeUse {
				sign = "-"
			}
			fmt.Printf("  %s  %s%d  %s\n", ledger.FormatTimestamp(tx), sign, tx.Points, tx.Description)
		}
	}
}

func fail(err error) {
	msg := usermsg.FromError(err)
	log.Error().Err(err).Str("code", msg.Code).Msg("operation failed")
	fmt.Fprintln(os.Stderr, msg.Text)
	os.Exit(1)
}
