package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alecgard/brofit/internal/catalog"
	"github.com/alecgard/brofit/internal/config"
	"github.com/alecgard/brofit/internal/user"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed demo classes, plans, and a test account",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

var demoClasses = []catalog.CreateClassInput{
	{
		Name: "Morning Yoga", Type: "yoga", Instructor: "Sarah Chen",
		Day: "Monday", Time: "07:00", Duration: 60, Capacity: 20, Level: "beginner",
		Description: "Start your week grounded. Breath-led vinyasa flow for all levels.",
	},
	{
		Name: "HIIT Blast", Type: "hiit", Instructor: "Marcus Reed",
		Day: "Tuesday", Time: "18:00", Duration: 45, Capacity: 16, Level: "advanced",
		Description: "Full-body high intensity intervals. Bring a towel.",
	},
	{
		Name: "Spin Express", Type: "cycling", Instructor: "Ana Lopez",
		Day: "Wednesday", Time: "12:15", Duration: 30, Capacity: 24, Level: "intermediate",
		Description: "Lunchtime ride: sprints, climbs, and a fast cooldown.",
	},
	{
		Name: "Power Lifting Basics", Type: "strength", Instructor: "Derek Hall",
		Day: "Thursday", Time: "19:00", Duration: 60, Capacity: 10, Level: "beginner",
		Description: "Squat, bench, deadlift. Technique first, load second.",
	},
	{
		Name: "Pilates Core", Type: "pilates", Instructor: "Mia Novak",
		Day: "Friday", Time: "08:30", Duration: 50, Capacity: 14, Level: "intermediate",
		Description: "Mat pilates focused on core stability and posture.",
	},
	{
		Name: "Zumba Party", Type: "zumba", Instructor: "Carla Diaz",
		Day: "Saturday", Time: "10:00", Duration: 55, Capacity: 30, Level: "beginner",
		Description: "Latin rhythms, zero judgment, maximum sweat.",
	},
	{
		Name: "Sunset Flow", Type: "yoga", Instructor: "Sarah Chen",
		Day: "Sunday", Time: "17:30", Duration: 75, Capacity: 18, Level: "intermediate",
		Description: "Slow deep stretches to close out the week.",
	},
}

var demoPlans = []catalog.CreatePlanInput{
	{
		ID: "basic", Name: "Basic", DurationMonths: 1, Price: 29.99, PricePerMonth: 29.99,
		Features: []string{"Unlimited class bookings", "Gym floor access", "Locker room"},
	},
	{
		ID: "quarter", Name: "Quarterly", DurationMonths: 3, Price: 79.99, PricePerMonth: 26.66,
		Features: []string{"Unlimited class bookings", "Gym floor access", "Locker room", "One guest pass per month"},
	},
	{
		ID: "annual", Name: "Annual", DurationMonths: 12, Price: 249.99, PricePerMonth: 20.83,
		Features: []string{"Unlimited class bookings", "Gym floor access", "Locker room", "Two guest passes per month", "Free towel service"},
	},
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	catalogStore := catalog.NewStore(pool)
	userStore := user.NewStore(pool, cfg.Session.TTL)

	// Check if seed has already run.
	existing, _, err := catalogStore.ListClasses(ctx, catalog.ClassListParams{Limit: 1})
	if err != nil {
		return fmt.Errorf("checking existing classes: %w", err)
	}
	if len(existing) > 0 {
		slog.Info("demo data already exists, skipping seed")
		return nil
	}

	for _, input := range demoClasses {
		c, err := catalogStore.CreateClass(ctx, input)
		if err != nil {
			return fmt.Errorf("creating class %q: %w", input.Name, err)
		}
		slog.Info("created class", "name", c.Name, "id", c.ID)
	}

	for _, input := range demoPlans {
		p, err := catalogStore.CreatePlan(ctx, input)
		if err != nil {
			return fmt.Errorf("creating plan %q: %w", input.Name, err)
		}
		slog.Info("created plan", "name", p.Name, "id", p.ID)
	}

	demo, err := userStore.Create(ctx, user.CreateUserInput{
		Name:     "Demo Member",
		Email:    "demo@brofit.local",
		Password: "demo-password",
	})
	if err != nil {
		return fmt.Errorf("creating demo account: %w", err)
	}

	slog.Info("created demo account", "id", demo.ID, "email", demo.Email)
	fmt.Printf("\n=== Demo Data Seeded ===\n")
	fmt.Printf("Classes:   %d registered\n", len(demoClasses))
	fmt.Printf("Plans:     %d registered\n", len(demoPlans))
	fmt.Printf("Account:   %s / demo-password\n", demo.Email)
	fmt.Printf("\nTry it:\n")
	fmt.Printf("  curl http://localhost:8080/api/v1/classes?day=Monday\n")
	fmt.Printf("  curl -X POST http://localhost:8080/api/v1/auth/login -d '{\"email\":\"%s\",\"password\":\"demo-password\"}'\n", demo.Email)

	return nil
}
