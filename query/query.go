// Package query runs the aggregation workflow: authenticate against the
// organization directory, resolve the subject's account there, resolve the
// department account and its group memberships, and merge the three result
// sets into one Profile.
package query

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"csequery/config"
	"csequery/directory"
)

// dialFunc establishes one session against one directory. Tests swap it out;
// everything else uses directory.Connect.
type dialFunc func(dir config.Directory, user, password string, log *zap.Logger) (directory.Searcher, error)

// Service resolves profiles against a fixed pair of directories. Each query
// owns its connections exclusively and discards them when it returns; nothing
// is shared or cached between calls.
type Service struct {
	cfg  *config.Config
	log  *zap.Logger
	dial dialFunc
}

// New builds a Service over the given directory configuration.
func New(cfg *config.Config, log *zap.Logger) *Service {
	return &Service{
		cfg: cfg,
		log: log.Named("query"),
		dial: func(dir config.Directory, user, password string, log *zap.Logger) (directory.Searcher, error) {
			return directory.Connect(dir, user, password, log)
		},
	}
}

// Query resolves zid's profile using zid's own credentials.
func (s *Service) Query(ctx context.Context, zid, password string) (*Profile, error) {
	return s.QueryOther(ctx, zid, password, zid)
}

// first runs one search and decodes the first matching record. The search
// context is cancelled on return: the stream is read lazily and any entries
// beyond the first are abandoned, which would otherwise strand the producer
// goroutine behind a full buffer.
func first[R any](ctx context.Context, dir directory.Searcher, filter string, schema directory.Schema[R]) (R, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	entries, err := dir.Search(ctx, filter, schema.Attrs)
	if err != nil {
		var zero R
		return zero, err
	}
	return directory.Decode(entries, schema).First()
}

// QueryOther resolves subject's profile, authenticating against the
// organization directory as auth. The steps run strictly in sequence; the
// first failure aborts the lookup and no partial profile is ever returned.
func (s *Service) QueryOther(ctx context.Context, auth, password, subject string) (*Profile, error) {
	log := s.log.With(
		zap.String("query_id", uuid.NewString()),
		zap.String("subject", subject))

	creds := func(dir config.Directory) (string, string) {
		if dir.RequireAuth {
			return auth, password
		}
		return "", ""
	}

	orgUser, orgPass := creds(s.cfg.Organization)
	org, err := s.dial(s.cfg.Organization, orgUser, orgPass, log.Named("org"))
	if err != nil {
		return nil, err
	}
	defer org.Close()

	orgAccount, err := first(ctx, org,
		directory.AccountFilter(directory.ClassUser, subject),
		directory.OrgAccountSchema)
	if err != nil {
		return nil, err
	}

	deptUser, deptPass := creds(s.cfg.Department)
	dept, err := s.dial(s.cfg.Department, deptUser, deptPass, log.Named("dept"))
	if err != nil {
		return nil, err
	}
	defer dept.Close()

	account, err := first(ctx, dept,
		directory.AccountFilter(directory.ClassAccount, subject),
		directory.AccountSchema)
	if err != nil {
		return nil, err
	}

	gctx, cancel := context.WithCancel(ctx)
	defer cancel()

	entries, err := dept.Search(gctx,
		directory.MemberFilter(directory.ClassGroup, account.DN),
		directory.GroupSchema.Attrs)
	if err != nil {
		return nil, err
	}
	groups := directory.Decode(entries, directory.GroupSchema)

	var names []string
	for groups.Next() {
		group, err := groups.Record()
		if err != nil {
			// Malformed group entries are dropped; account decode
			// failures above stay fatal.
			log.Warn("skipping undecodable group entry", zap.Error(err))
			continue
		}
		names = append(names, group.CN)
	}
	if err := groups.Err(); err != nil {
		return nil, err
	}

	log.Debug("profile assembled",
		zap.Int("aliases", len(account.Aliases)),
		zap.Int("groups", len(names)))

	return &Profile{
		ZID:        orgAccount.Name,
		Name:       orgAccount.DisplayName,
		Email:      orgAccount.Mail,
		Aliases:    account.Aliases,
		Company:    orgAccount.Company,
		Department: orgAccount.Department,
		CSEGroups:  names,
	}, nil
}
