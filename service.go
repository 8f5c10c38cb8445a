package authzkit

import (
	"log/slog"

	"github.com/fernandezvara/dbkit"
)

// Service is the authorization authority. It resolves permission checks,
// mutates the user/role/permission relations, and serves paginated listings.
// It integrates with the database through dbkit with enhanced error handling.
//
// Every exposed operation runs within a single transactional boundary:
// read, validate, mutate, commit. Validation failures abort before any
// mutation; store failures during a multi-step mutation roll the store back
// to its pre-operation state.
//
// Example error handling:
//
//	err := service.AppendUserRoles(ctx, userID, roleIDs)
//	if err != nil {
//	    if authzkit.IsHaveNotExist(err) {
//	        missing := authzkit.MissingIDs(err)
//	        // report the unresolved role ids
//	    }
//	}
type Service struct {
	db        dbkit.IDB
	cfg       Config
	mirror    Mirror
	log       *slog.Logger
	txMonitor *transactionMonitor
}

// NewService creates a new authzkit service.
//
// Example:
//
//	cfg := authzkit.DefaultConfig()
//	db, _ := dbkit.New(dbkit.Config{URL: "postgres://..."})
//	service := authzkit.NewService(cfg, db)
func NewService(cfg Config, db dbkit.IDB, opts ...Option) *Service {
	s := &Service{
		db:        db,
		cfg:       cfg.withDefaults(),
		log:       slog.Default(),
		txMonitor: newTransactionMonitor(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the immutable service configuration.
func (s *Service) Config() Config {
	return s.cfg
}

// withDB returns a shallow copy of the service bound to a different
// database handle. Used to run operations against an open transaction;
// mirror, logger and monitor are shared.
func (s *Service) withDB(db dbkit.IDB) *Service {
	clone := *s
	clone.db = db
	return &clone
}
