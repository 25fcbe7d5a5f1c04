package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/anti-elegant/Delphi-sub001/internal/config"
	"github.com/anti-elegant/Delphi-sub001/internal/database"
	"github.com/anti-elegant/Delphi-sub001/internal/prediction"
	"github.com/anti-elegant/Delphi-sub001/internal/tracker"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// 2. Configure logging
	setupLogging(cfg.LogLevel)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	// 3. Connect storage and build the tracker
	db, err := database.New(database.ConnectionParams{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	clock := prediction.SystemClock{}
	tr := tracker.New(db, clock, cfg.Limits())
	ctx := context.Background()

	var cmdErr error
	switch os.Args[1] {
	case "create":
		cmdErr = runCreate(ctx, tr, os.Args[2:])
	case "list":
		cmdErr = runList(ctx, tr, clock, os.Args[2:])
	case "show":
		cmdErr = runShow(ctx, tr, clock, os.Args[2:])
	case "resolve":
		cmdErr = runResolve(ctx, tr, os.Args[2:])
	case "refresh":
		cmdErr = runRefresh(ctx, tr)
	case "delete":
		cmdErr = runDelete(ctx, tr, os.Args[2:])
	default:
		printUsage()
		os.Exit(2)
	}

	if cmdErr != nil {
		log.Fatal().Err(cmdErr).Str("command", os.Args[1]).Msg("Command failed")
	}
}

// setupLogging configures the logger
func setupLogging(logLevel string) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(output)

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

func runCreate(ctx context.Context, tr *tracker.Tracker, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	name := fs.String("name", "", "event name")
	description := fs.String("description", "", "event description")
	confidence := fs.Float64("confidence", 50, "confidence level, 0-100")
	kind := fs.String("type", "Boolean", "prediction type: Boolean or Numeric")
	value := fs.String("value", "", "predicted outcome (boolean answer or numeric estimate)")
	evidence := fs.String("evidence", "", "semicolon-separated evidence notes")
	due := fs.String("due", "", "due date, RFC3339 or YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dueDate, err := parseDueDate(*due)
	if err != nil {
		return err
	}

	params := prediction.NewRecordParams{
		EventName:        *name,
		EventDescription: *description,
		ConfidenceLevel:  *confidence,
		SelectedType:     prediction.Type(*kind),
		DueDate:          dueDate,
	}
	switch params.SelectedType {
	case prediction.TypeNumeric:
		params.EstimatedValue = *value
	default:
		params.BooleanValue = *value
	}
	if *evidence != "" {
		params.Evidence = strings.Split(*evidence, ";")
	}

	r, err := tr.Create(ctx, params)
	if err != nil {
		return err
	}
	fmt.Printf("created %s (%s), due %s\n", r.ID, r.EventName, r.DueDate.Format(time.RFC3339))
	return nil
}

func runList(ctx context.Context, tr *tracker.Tracker, clock prediction.Clock, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	overdueOnly := fs.Bool("overdue", false, "show only overdue predictions")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		records []*prediction.Record
		err     error
	)
	if *overdueOnly {
		records, err = tr.ListOverdue(ctx)
	} else {
		records, err = tr.List(ctx)
	}
	if err != nil {
		return err
	}

	now := clock.Now()
	for _, r := range records {
		fmt.Printf("%s  %-8s  %4.0f%%  %-8s  %s\n",
			r.ID, r.StatusDescription(now), r.ConfidenceLevel, r.SelectedType, r.EventName)
	}
	fmt.Printf("%d prediction(s)\n", len(records))
	return nil
}

func runShow(ctx context.Context, tr *tracker.Tracker, clock prediction.Clock, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	id := fs.String("id", "", "prediction id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	r, err := tr.Get(ctx, *id)
	if err != nil {
		return err
	}

	now := clock.Now()
	fmt.Printf("%s\n", r.EventName)
	fmt.Printf("  %s\n", r.EventDescription)
	fmt.Printf("  status:     %s\n", r.StatusDescription(now))
	fmt.Printf("  confidence: %.0f%%\n", r.ConfidenceLevel)
	fmt.Printf("  due:        %s (%d day(s))\n", r.DueDate.Format(time.RFC3339), r.DaysToDue(now))
	switch r.SelectedType {
	case prediction.TypeNumeric:
		fmt.Printf("  predicted:  %s\n", r.EstimatedValue)
	default:
		fmt.Printf("  predicted:  %s\n", r.BooleanValue)
	}
	for _, item := range r.Evidence() {
		fmt.Printf("  evidence:   %s\n", item)
	}
	if r.IsResolved {
		fmt.Printf("  outcome:    %s (%s)\n", *r.ActualOutcome, r.ResolutionDate.Format(time.RFC3339))
		if correct, ok := r.WasCorrect(); ok {
			fmt.Printf("  correct:    %v\n", correct)
		}
	}
	return nil
}

func runResolve(ctx context.Context, tr *tracker.Tracker, args []string) error {
	fs := flag.NewFlagSet("resolve", flag.ExitOnError)
	id := fs.String("id", "", "prediction id")
	outcome := fs.String("outcome", "", "actual outcome")
	if err := fs.Parse(args); err != nil {
		return err
	}

	r, err := tr.Resolve(ctx, *id, *outcome)
	if err != nil {
		return err
	}
	correct, _ := r.WasCorrect()
	fmt.Printf("resolved %s: outcome %q, correct=%v\n", r.ID, *r.ActualOutcome, correct)
	return nil
}

func runRefresh(ctx context.Context, tr *tracker.Tracker) error {
	changed, err := tr.RefreshPendingStatuses(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%d prediction(s) changed phase\n", changed)
	return nil
}

func runDelete(ctx context.Context, tr *tracker.Tracker, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.String("id", "", "prediction id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return tr.Delete(ctx, *id)
}

func parseDueDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("due date is required")
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unparseable due date %q", value)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: delphi <command> [flags]

commands:
  create   record a new prediction
  list     list predictions (-overdue for overdue only)
  show     show one prediction
  resolve  record the actual outcome of a prediction
  refresh  recompute pending status for unresolved predictions
  delete   remove a prediction`)
}
