package cli

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/greenbasket/greenbasket/internal/assistant"
	"github.com/greenbasket/greenbasket/internal/config"
	"github.com/greenbasket/greenbasket/internal/domain"
	"github.com/greenbasket/greenbasket/internal/repo"
)

func newAskCmd() *cobra.Command {
	var (
		userID       string
		restaurantID string
		role         string
		model        string
		demo         bool
	)

	cmd := &cobra.Command{
		Use:   "ask [message]",
		Short: "Send one message to the assistant and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")

			cfg, err := config.Load(paths.Config)
			if err != nil {
				cfg = config.Defaults()
			}
			if model != "" {
				cfg.Completion.Model = model
			}

			var repos repo.Repos
			if demo {
				repos = demoRepos()
			} else {
				if err := paths.EnsureDirs(); err != nil {
					return err
				}
				db, err := repo.Open(paths.DatabasePath(&cfg), log)
				if err != nil {
					return fmt.Errorf("opening database: %w", err)
				}
				defer db.Close()
				repos = repo.NewSQLite(db)
			}

			engine, err := buildEngine(cfg, repos, log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			reply, err := engine.GenerateResponse(ctx, assistant.Request{
				Message:      message,
				UserID:       userID,
				RestaurantID: restaurantID,
				Role:         domain.Role(role),
			})
			if err != nil {
				return err
			}

			fmt.Println(reply)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "act as this user ID")
	cmd.Flags().StringVar(&restaurantID, "restaurant", "", "act as this restaurant ID")
	cmd.Flags().StringVar(&role, "role", "", "user role (customer, organizer, recycleMan)")
	cmd.Flags().StringVar(&model, "model", "", "completion model to use")
	cmd.Flags().BoolVar(&demo, "demo", false, "use seeded in-memory data instead of the database")

	return cmd
}

// demoRepos seeds an in-memory dataset so the assistant can be tried
// without a populated database.
func demoRepos() repo.Repos {
	m := repo.NewMemory()

	m.PutRestaurant(domain.Restaurant{ID: "r-verde", Name: "Casa Verde", Cuisine: "mediterranean", Rating: 4.7})
	m.PutRestaurant(domain.Restaurant{ID: "r-sprout", Name: "Sprout Kitchen", Cuisine: "vegan", Rating: 4.4})

	m.PutProduct(domain.Product{ID: "p-bowl", RestaurantID: "r-verde", Name: "Harvest Grain Bowl", Category: "bowls", PriceCents: 1150, Sustainability: 88})
	m.PutProduct(domain.Product{ID: "p-soup", RestaurantID: "r-verde", Name: "Roasted Tomato Soup", Category: "soups", PriceCents: 650, Sustainability: 92})
	m.PutProduct(domain.Product{ID: "p-wrap", RestaurantID: "r-sprout", Name: "Falafel Wrap", Category: "wraps", PriceCents: 900, Sustainability: 85})

	m.PutUser(domain.User{ID: "demo", Name: "Demo User", Email: "demo@example.com", Role: domain.RoleCustomer, Points: 140})

	m.PutEvent(domain.Event{
		ID:          "e-cleanup",
		OrganizerID: "demo",
		Title:       "River Cleanup Day",
		Location:    "North Pier",
		StartsAt:    time.Now().Add(72 * time.Hour),
	})

	return m.Repos()
}
