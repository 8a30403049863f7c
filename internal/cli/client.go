package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/existflow/taskboard/internal/app"
	"github.com/existflow/taskboard/internal/db"
	"github.com/existflow/taskboard/internal/gateway"
	"github.com/existflow/taskboard/internal/logger"
	"github.com/existflow/taskboard/internal/model"
	"github.com/existflow/taskboard/internal/session"
)

// client bundles what one-shot commands need: the persisted session and
// a gateway that sends its token
type client struct {
	db       *db.DB
	sessions *session.Store
	gw       *gateway.Gateway
}

func openClient(ctx context.Context) (*client, error) {
	log := logger.Default()

	database, err := db.Open(cfg.StatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}

	c := &client{db: database, sessions: session.NewStore(database, log)}
	c.sessions.Restore(ctx)
	c.gw = gateway.New(app.Endpoints(cfg),
		gateway.WithTimeout(cfg.RequestTimeout()),
		gateway.WithTokenSource(c.sessions.Token),
		gateway.WithLogger(log),
	)
	return c, nil
}

func (c *client) Close() error {
	return c.db.Close()
}

// requireSession returns the stored session or a hint to log in
func (c *client) requireSession() (model.Session, error) {
	sess, err := c.sessions.Require()
	if errors.Is(err, session.ErrNoSession) {
		return model.Session{}, errors.New("not logged in, run 'taskboard auth login' first")
	}
	if err != nil {
		return model.Session{}, err
	}
	return sess, nil
}

// explain turns a gateway failure into a one-line message
func explain(action string, err error) error {
	if gateway.IsUnauthorized(err) {
		return fmt.Errorf("%s: %w (session expired? run 'taskboard auth login')", action, err)
	}
	return fmt.Errorf("%s: %w", action, err)
}
