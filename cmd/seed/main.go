package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"nostressia/database"
	"nostressia/internal/artifact"
	"nostressia/internal/config"
	"nostressia/internal/logger"
	"nostressia/internal/models"
	"nostressia/internal/repository"
	"nostressia/internal/services"

	"gorm.io/gorm"
)

func main() {
	demoCmd := flag.NewFlagSet("demo", flag.ExitOnError)
	demoConfig := demoCmd.String("config", "", "Path to config.yaml (optional)")
	email := demoCmd.String("email", "demo@nostressia.local", "Email of the demo user")
	days := demoCmd.Int("days", 8, "Number of consecutive days of entries ending today")
	seed := demoCmd.Int64("seed", 1, "Random seed for stress levels")
	demoArtifact := demoCmd.String("artifact", "", "Where to write the demo model (default: forecast.default_artifact)")

	artifactCmd := flag.NewFlagSet("artifact", flag.ExitOnError)
	artifactPath := artifactCmd.String("out", "./models_ml/global_forecast.json", "Output path")
	window := artifactCmd.Int("window", 3, "Rolling window recorded in the artifact meta")

	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "demo":
		_ = demoCmd.Parse(os.Args[2:])
		if err := runDemo(*demoConfig, *email, *days, *seed, *demoArtifact); err != nil {
			fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
			os.Exit(1)
		}
	case "artifact":
		_ = artifactCmd.Parse(os.Args[2:])
		if err := writeDemoArtifact(*artifactPath, *window); err != nil {
			fmt.Fprintf(os.Stderr, "write artifact failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Demo artifact written to %s\n", *artifactPath)
	case "help", "-h", "--help":
		printHelp()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("Usage:")
	fmt.Println("  seed demo [--email E] [--days N] [--seed S] [--artifact PATH] [--config FILE]")
	fmt.Println("      Create a demo user with N consecutive daily entries, write a demo")
	fmt.Println("      markov artifact and register it as the active global model.")
	fmt.Println("  seed artifact [--out PATH] [--window W]")
	fmt.Println("      Only write the demo markov artifact.")
}

func runDemo(configPath, email string, days int, seed int64, artifactPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		return err
	}
	if err := database.MigrateDatabase(db); err != nil {
		return err
	}
	ctx := context.Background()
	store := repository.NewStore(db)

	if artifactPath == "" {
		artifactPath = cfg.Forecast.DefaultArtifact
	}
	if err := writeDemoArtifact(artifactPath, 3); err != nil {
		return err
	}
	abs, err := filepath.Abs(artifactPath)
	if err != nil {
		return err
	}

	modelService := services.NewModelService(store, log)
	record, err := modelService.Register(ctx, models.RegisterModelRequest{
		Scope:       models.ScopeGlobal,
		ArtifactURL: "file://" + abs,
		Metadata:    map[string]interface{}{"source": "seed"},
	})
	if err != nil {
		return fmt.Errorf("register demo model: %w", err)
	}

	user, err := store.Users.GetUserByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = &models.User{Name: "Demo Student", Email: email, Verified: true}
		err = store.Users.CreateUser(ctx, user)
	}
	if err != nil {
		return fmt.Errorf("demo user: %w", err)
	}

	cache := artifact.NewCache(artifact.FileStore{}, cfg.Forecast.ArtifactTimeout, log)
	resolver := artifact.NewResolver(cache, store.Models, cfg.Forecast.DefaultArtifact, log)
	trainingService := services.NewTrainingService(store, services.TrainingSettings{
		MilestoneInterval:  cfg.Training.MilestoneInterval,
		GlobalIntervalDays: cfg.Training.GlobalIntervalDays,
	}, log)
	stressService := services.NewStressService(store, resolver, trainingService, services.StressSettings{
		RequiredStreak: cfg.Streak.RequiredStreak,
		RestoreLimit:   cfg.Streak.RestoreLimit,
	}, log)

	rng := rand.New(rand.NewSource(seed))
	today := time.Now().UTC()
	created := 0
	for i := days - 1; i >= 0; i-- {
		level := rng.Intn(4)
		gpa := 2.5 + rng.Float64()*1.5
		sleep := 5 + rng.Float64()*4
		input := models.StressEntryInput{
			Date:            today.AddDate(0, 0, -i).Format(services.DateLayout),
			StressLevel:     &level,
			GPA:             &gpa,
			SleepHourPerDay: &sleep,
		}
		if _, err := stressService.RecordEntry(ctx, user.ID, input, false); err != nil {
			if errors.Is(err, services.ErrDuplicateDate) {
				continue
			}
			return fmt.Errorf("record %s: %w", input.Date, err)
		}
		created++
	}

	eligibility, err := stressService.GetEligibility(ctx, user.ID)
	if err != nil {
		return err
	}
	log.Info("Demo data seeded",
		"user_id", user.ID,
		"email", email,
		"entries_created", created,
		"streak", eligibility.Streak,
		"eligible", eligibility.Eligible,
		"model_id", record.ID,
	)
	return nil
}

// writeDemoArtifact writes a markov table where a high-stress yesterday makes
// a high-stress tomorrow more likely, slightly more so on weekdays.
func writeDemoArtifact(path string, window int) error {
	var probs [2][7][2]float64
	for dow := 0; dow < 7; dow++ {
		weekday := dow < 5
		lowHigh, highHigh := 0.2, 0.6
		if weekday {
			lowHigh, highHigh = 0.25, 0.7
		}
		probs[0][dow] = [2]float64{1 - lowHigh, lowHigh}
		probs[1][dow] = [2]float64{1 - highHigh, highHigh}
	}

	doc := map[string]interface{}{
		"type": "global_markov",
		"meta": map[string]interface{}{
			"window":         window,
			"high_threshold": 1,
			"date_col":       "date",
			"target_col":     "stress_level",
			"trained_at":     time.Now().UTC().Format(time.RFC3339),
		},
		"thr":   0.5,
		"probs": probs,
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, raw, 0o644)
}
