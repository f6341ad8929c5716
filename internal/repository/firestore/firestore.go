// Package firestore implements the repository interfaces on Cloud
// Firestore, the document store shared with the companion web app.
package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"courtledger-backend/internal/domain"
)

const (
	colUsers        = "users"
	colTransactions = "transactions"
	colReports      = "reports"
	colSettlement   = "settlement"
	docState        = "state"

	defaultOpTimeout = 10 * time.Second
)

// Config holds Firestore connection settings.
type Config struct {
	ProjectID       string
	CredentialsFile string
	OpTimeout       time.Duration
}

// Store bundles the repository implementations sharing one client.
type Store struct {
	client    *firestore.Client
	opTimeout time.Duration

	UserRepository       *userRepository
	LedgerRepository     *ledgerRepository
	SettlementRepository *settlementRepository
}

// NewStore connects to Firestore and wires the repositories.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	opTimeout := cfg.OpTimeout
	if opTimeout <= 0 {
		opTimeout = defaultOpTimeout
	}

	s := &Store{client: client, opTimeout: opTimeout}
	s.UserRepository = &userRepository{store: s}
	s.LedgerRepository = &ledgerRepository{store: s}
	s.SettlementRepository = &settlementRepository{store: s}
	return s, nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// opContext bounds a single store operation so a dead backend fails with
// ErrStoreUnavailable instead of hanging on the transport default.
func (s *Store) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opTimeout)
}

// classify maps a Firestore RPC error onto the domain error kinds.
func classify(err error) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	case codes.InvalidArgument, codes.AlreadyExists:
		return fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled, codes.ResourceExhausted:
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	default:
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
}

func classifyCorrupt(id string, err error) error {
	return fmt.Errorf("%w: document %s: %v", domain.ErrCorrupt, id, err)
}
