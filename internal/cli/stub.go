package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/existflow/taskboard/internal/logger"
	"github.com/existflow/taskboard/internal/stub"
)

var stubCmd = &cobra.Command{
	Use:   "stub",
	Short: "Run the in-memory backend for local use",
	Long: `Serve the auth, task and notification APIs from memory on one port.

Point the client at it with:
  taskboard --auth-url http://localhost:8080/api/v1 \
            --task-url http://localhost:8080/api/v1 \
            --notification-url http://localhost:8080/api/v1`,
	Args: cobra.NoArgs,
	RunE: runStub,
}

var (
	stubAddr string
	stubSeed string
	stubAuth bool
)

func init() {
	stubCmd.Flags().StringVar(&stubAddr, "addr", ":8080", "Listen address")
	stubCmd.Flags().StringVar(&stubSeed, "seed", "", "Create an account up front, as email:password")
	stubCmd.Flags().BoolVar(&stubAuth, "require-auth", true, "Reject task and notification calls without a token")
}

func runStub(cmd *cobra.Command, args []string) error {
	return ServeStub(cmd.Context(), stubAddr, stubSeed, stubAuth)
}

// ServeStub runs the stub backend until ctx is cancelled
func ServeStub(ctx context.Context, addr, seed string, requireAuth bool) error {
	log := logger.Default()
	s := stub.New(stub.Options{Logger: log, RequireAuth: requireAuth})

	if seed != "" {
		email, password, ok := strings.Cut(seed, ":")
		if !ok || email == "" || password == "" {
			return fmt.Errorf("--seed must be email:password, got %q", seed)
		}
		u, err := s.SeedUser("Demo", "User", email, password)
		if err != nil {
			return err
		}
		log.Info("seeded account", logger.F("email", u.Email), logger.F("user_id", u.ID))
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("stub failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info("stub shutting down")
	return s.Shutdown(shutdownCtx)
}
