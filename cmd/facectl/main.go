// facectl is the operator's console for a running deployment: inspect
// accounts and enrollment sets, re-audit stored sample quality against the
// active policy, and score embedding pairs offline.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/lanternsec/facegate/internal/config"
	"github.com/lanternsec/facegate/internal/database"
	"github.com/lanternsec/facegate/internal/embedding"
	"github.com/lanternsec/facegate/internal/policy"
	"github.com/lanternsec/facegate/internal/repository"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "facectl",
		Short:         "Operations console for the Facegate service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newUsersCmd())
	root.AddCommand(newEnrollmentCmd())
	root.AddCommand(newMatchCmd())

	return root
}

// repos opens the database and returns the repositories the commands use.
func repos(ctx context.Context) (*repository.UserRepository, *repository.FaceRepository, func(), error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	pool, err := database.NewPgxPool(ctx, database.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect: %w", err)
	}

	return repository.NewUserRepository(pool), repository.NewFaceRepository(pool), pool.Close, nil
}

func newUsersCmd() *cobra.Command {
	var limit, offset int

	users := &cobra.Command{
		Use:   "users",
		Short: "Inspect accounts",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			userRepo, faceRepo, closePool, err := repos(ctx)
			if err != nil {
				return err
			}
			defer closePool()

			accounts, err := userRepo.List(ctx, limit, offset)
			if err != nil {
				return err
			}

			fmt.Printf("%-36s  %-20s  %-8s  %-6s  %s\n", "ID", "USERNAME", "ROLE", "FACES", "ACTIVE")
			for _, u := range accounts {
				count, err := faceRepo.CountByUser(ctx, u.ID)
				if err != nil {
					return err
				}
				fmt.Printf("%-36s  %-20s  %-8s  %-6d  %v\n", u.ID, u.Username, u.Role, count, u.Active)
			}

			return nil
		},
	}
	list.Flags().IntVar(&limit, "limit", 50, "maximum accounts to list")
	list.Flags().IntVar(&offset, "offset", 0, "pagination offset")

	users.AddCommand(list)
	return users
}

func newEnrollmentCmd() *cobra.Command {
	enrollment := &cobra.Command{
		Use:   "enrollment",
		Short: "Inspect and audit enrollment sets",
	}

	show := &cobra.Command{
		Use:   "show <user-id>",
		Short: "Show a user's enrolled samples",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id %q: %w", args[0], err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			_, faceRepo, closePool, err := repos(ctx)
			if err != nil {
				return err
			}
			defer closePool()

			faces, err := faceRepo.ListByUser(ctx, userID)
			if err != nil {
				return err
			}
			if len(faces) == 0 {
				fmt.Println("no faces enrolled")
				return nil
			}

			fmt.Printf("%-36s  %-10s  %-7s  %s\n", "FACE", "CAPTURE", "QUALITY", "ENROLLED")
			for _, f := range faces {
				fmt.Printf("%-36s  %-10s  %-7.3f  %s\n",
					f.ID, f.CaptureType, f.Quality, f.CreatedAt.Format(time.RFC3339))
			}

			return nil
		},
	}

	audit := &cobra.Command{
		Use:   "audit",
		Short: "Re-score every stored sample against the active policy",
		Long: `Recomputes the intrinsic quality of every stored sample with the
active policy and reports the ones that would no longer pass enrollment.
Useful after tightening the policy: flagged users should re-enroll.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			pol, err := policy.Load()
			if err != nil {
				return err
			}

			_, faceRepo, closePool, err := repos(ctx)
			if err != nil {
				return err
			}
			defer closePool()

			faces, err := faceRepo.ListAll(ctx)
			if err != nil {
				return err
			}

			profile := pol.StoredProfile()
			scorer := embedding.NewQualityScorer(pol.QualityConfig())

			bar := progressbar.Default(int64(len(faces)), "auditing")
			var flagged int
			for _, f := range faces {
				_ = bar.Add(1)

				if assessment := profile.Validate(f.Embedding); !assessment.Valid {
					flagged++
					fmt.Printf("\nface %s (user %s): invalid: %s\n", f.ID, f.UserID, assessment.Reason)
					continue
				}

				if score := scorer.Score(f.Embedding); score < pol.Enroll.MinQuality {
					flagged++
					fmt.Printf("\nface %s (user %s): quality %.3f below %.3f\n",
						f.ID, f.UserID, score, pol.Enroll.MinQuality)
				}
			}

			fmt.Printf("\naudited %d samples, %d flagged\n", len(faces), flagged)
			return nil
		},
	}

	enrollment.AddCommand(show)
	enrollment.AddCommand(audit)
	return enrollment
}

func newMatchCmd() *cobra.Command {
	matchCmd := &cobra.Command{
		Use:   "match",
		Short: "Offline similarity scoring",
	}

	score := &cobra.Command{
		Use:   "score <a.json> <b.json>",
		Short: "Score two embedding files against each other",
		Long: `Reads two JSON files each holding a 128-dimension embedding (either a
bare array or {"embedding": [...]}) and prints the full metric breakdown
with the active policy weights. No database access.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := readEmbeddingFile(args[0])
			if err != nil {
				return err
			}
			b, err := readEmbeddingFile(args[1])
			if err != nil {
				return err
			}

			pol, err := policy.Load()
			if err != nil {
				return err
			}

			engine := embedding.NewEngine(pol.Match.Weights)
			scores := engine.Score(a, b)

			fmt.Printf("cosine:     %.4f\n", scores.Cosine)
			fmt.Printf("euclidean:  %.4f\n", scores.Euclidean)
			fmt.Printf("pearson:    %.4f\n", scores.Pearson)
			fmt.Printf("composite:  %.4f\n", scores.Composite)

			verdict := "no match"
			switch {
			case scores.Composite >= pol.Match.HighTierThreshold:
				verdict = "match (high)"
			case scores.Composite >= pol.Match.SimilarityThreshold:
				verdict = "match (medium)"
			}
			fmt.Printf("verdict:    %s (threshold %.2f)\n", verdict, pol.Match.SimilarityThreshold)

			return nil
		},
	}

	matchCmd.AddCommand(score)
	return matchCmd
}

func readEmbeddingFile(path string) ([]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var bare []float64
	if err := json.Unmarshal(data, &bare); err == nil {
		return bare, nil
	}

	var wrapped struct {
		Embedding []float64 `json:"embedding"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil || len(wrapped.Embedding) == 0 {
		return nil, fmt.Errorf("%s: expected a JSON array or {\"embedding\": [...]}", path)
	}

	return wrapped.Embedding, nil
}
