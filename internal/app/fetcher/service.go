package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/preston-bernstein/sportsdb-sync/internal/domain/leagues"
	"github.com/preston-bernstein/sportsdb-sync/internal/domain/payload"
	"github.com/preston-bernstein/sportsdb-sync/internal/logging"
	"github.com/preston-bernstein/sportsdb-sync/internal/metrics"
	"github.com/preston-bernstein/sportsdb-sync/internal/providers"
	"github.com/preston-bernstein/sportsdb-sync/internal/publish"
	"github.com/preston-bernstein/sportsdb-sync/internal/snapshots"
)

var errNoWriter = errors.New("fetcher: writer not configured")

// Writer persists the documents a run produces.
type Writer interface {
	BasePath() string
	WriteLeagues(entries []any) (snapshots.WriteResult, error)
	WriteFixtures(id leagues.ID, doc payload.Document) (snapshots.WriteResult, error)
	WriteAllLeagues(doc payload.Document) (snapshots.WriteResult, error)
	WriteManifest(m snapshots.Manifest) (snapshots.WriteResult, error)
}

// Options describe a run for logging and the manifest.
type Options struct {
	ProviderName string
	Source       string
	AllLeagues   bool
}

// Service fetches league details and fixtures for a set of IDs and writes them to disk.
type Service struct {
	provider  providers.LeagueProvider
	writer    Writer
	publisher publish.Publisher
	logger    *slog.Logger
	metrics   *metrics.Recorder
	opts      Options
	now       func() time.Time
}

// New constructs a Service. publisher, logger and recorder may be nil.
func New(provider providers.LeagueProvider, writer Writer, publisher publish.Publisher, logger *slog.Logger, recorder *metrics.Recorder, opts Options) *Service {
	return &Service{
		provider:  provider,
		writer:    writer,
		publisher: publisher,
		logger:    logger,
		metrics:   recorder,
		opts:      opts,
		now:       time.Now,
	}
}

// Result is the outcome of one upstream call.
type Result struct {
	ID       leagues.ID
	Endpoint string
	Doc      payload.Document
	Err      error
}

// Report summarises a run.
type Report struct {
	Requested       []leagues.ID
	LeagueEntries   int
	FixturesWritten int
	Files           []snapshots.FileEntry
	Failures        []snapshots.Failure
	Published       int
	PublishFailures int
	Duration        time.Duration
}

// Run fetches every unique ID sequentially. Per-league fetch and write
// failures are logged, recorded in the report, and skipped. A failure to
// write the consolidated leagues file is returned, as is a cancelled
// context; once ctx is done nothing further is written.
func (s *Service) Run(ctx context.Context, ids []leagues.ID) (Report, error) {
	start := s.now()
	report := Report{Requested: leagues.Dedupe(ids)}
	if s.writer == nil {
		return report, errNoWriter
	}
	if s.provider == nil {
		return report, providers.ErrProviderUnavailable
	}
	logging.Info(s.logger, "sync started",
		logging.FieldProvider, s.opts.ProviderName,
		logging.FieldCount, len(report.Requested),
	)

	if err := s.sync(ctx, &report, start); err != nil {
		report.Duration = s.now().Sub(start)
		s.metrics.RecordRun(report.Duration, len(report.Failures)+1)
		logging.Error(s.logger, "sync aborted", err, logging.FieldDurationMS, report.Duration.Milliseconds())
		return report, err
	}

	report.Duration = s.now().Sub(start)
	s.metrics.RecordRun(report.Duration, len(report.Failures))
	logging.Info(s.logger, "sync finished",
		"leagues", report.LeagueEntries,
		"fixtures", report.FixturesWritten,
		"failures", len(report.Failures),
		"published", report.Published,
		logging.FieldDurationMS, report.Duration.Milliseconds(),
	)
	return report, nil
}

func (s *Service) sync(ctx context.Context, report *Report, start time.Time) error {
	if s.opts.AllLeagues {
		if err := s.syncAllLeagues(ctx, report); err != nil {
			return err
		}
	}
	if err := s.syncLeagues(ctx, report); err != nil {
		return err
	}
	if err := s.syncFixtures(ctx, report); err != nil {
		return err
	}
	if err := interrupted(ctx); err != nil {
		return err
	}
	s.writeManifest(report, start)
	s.publishAll(ctx, report)
	return nil
}

// interrupted wraps the context error once ctx is done.
func interrupted(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("sync interrupted: %w", err)
	}
	return nil
}

func (s *Service) syncAllLeagues(ctx context.Context, report *Report) error {
	res := s.fetch(ctx, "", providers.EndpointAllLeagues, func(ctx context.Context) (payload.Document, error) {
		return s.provider.AllLeagues(ctx)
	})
	if err := interrupted(ctx); err != nil {
		return err
	}
	if res.Err != nil {
		report.fail(res)
		return nil
	}
	if res.Doc.Empty() {
		return nil
	}
	wr, err := s.writer.WriteAllLeagues(res.Doc)
	s.recordWrite(report, snapshots.KindAllLeagues, "", wr, err)
	return nil
}

func (s *Service) syncLeagues(ctx context.Context, report *Report) error {
	entries := []any{}
	for _, id := range report.Requested {
		res := s.fetch(ctx, id, providers.EndpointLookupLeague, func(ctx context.Context) (payload.Document, error) {
			return s.provider.LookupLeague(ctx, id)
		})
		if res.Err != nil {
			report.fail(res)
			continue
		}
		found := res.Doc.Leagues()
		if len(found) == 0 {
			logging.Warn(s.logger, "league lookup returned no entries", logging.FieldLeagueID, id.String())
			continue
		}
		entries = append(entries, found...)
	}
	report.LeagueEntries = len(entries)
	if err := interrupted(ctx); err != nil {
		return err
	}

	wr, err := s.writer.WriteLeagues(entries)
	s.recordWrite(report, snapshots.KindLeagues, "", wr, err)
	if err != nil {
		return fmt.Errorf("write leagues: %w", err)
	}
	return nil
}

func (s *Service) syncFixtures(ctx context.Context, report *Report) error {
	for _, id := range report.Requested {
		res := s.fetch(ctx, id, providers.EndpointNextEvents, func(ctx context.Context) (payload.Document, error) {
			return s.provider.NextEvents(ctx, id)
		})
		if err := interrupted(ctx); err != nil {
			return err
		}
		if res.Err != nil {
			report.fail(res)
			continue
		}
		if res.Doc.Empty() {
			logging.Warn(s.logger, "fixtures response empty", logging.FieldLeagueID, id.String())
			continue
		}
		wr, err := s.writer.WriteFixtures(id, res.Doc)
		if s.recordWrite(report, snapshots.KindFixtures, id, wr, err) {
			report.FixturesWritten++
		}
	}
	return nil
}

func (s *Service) fetch(ctx context.Context, id leagues.ID, endpoint string, call func(context.Context) (payload.Document, error)) Result {
	res := Result{ID: id, Endpoint: endpoint}
	if id != "" && s.logger != nil {
		ctx = logging.WithLogger(ctx, s.logger.With(logging.FieldLeagueID, id.String()))
	}
	res.Doc, res.Err = call(ctx)
	if res.Err != nil {
		args := []any{logging.FieldEndpoint, endpoint}
		if id != "" {
			args = append(args, logging.FieldLeagueID, id.String())
		}
		logging.Error(s.logger, "fetch failed, skipping", res.Err, args...)
	}
	return res
}

// recordWrite logs and counts a write, reporting whether it succeeded.
func (s *Service) recordWrite(report *Report, kind string, id leagues.ID, wr snapshots.WriteResult, err error) bool {
	s.metrics.RecordFileWrite(kind, wr.Bytes, err)
	if err != nil {
		logging.Error(s.logger, "write failed", err, logging.FieldPath, wr.Path)
		report.Failures = append(report.Failures, snapshots.Failure{
			LeagueID: id.String(),
			Endpoint: kind,
			Error:    err.Error(),
		})
		return false
	}
	report.Files = append(report.Files, snapshots.FileEntry{
		Path:     s.relative(wr.Path),
		Kind:     kind,
		LeagueID: id.String(),
		Bytes:    wr.Bytes,
	})
	logging.Info(s.logger, "wrote file",
		logging.FieldPath, wr.Path,
		"bytes", wr.Bytes,
		"unchanged", wr.Unchanged,
	)
	return true
}

func (s *Service) writeManifest(report *Report, start time.Time) {
	requested := make([]string, 0, len(report.Requested))
	for _, id := range report.Requested {
		requested = append(requested, id.String())
	}
	m := snapshots.Manifest{
		GeneratedAt: start.UTC(),
		Provider:    s.opts.ProviderName,
		Source:      s.opts.Source,
		Requested:   requested,
		Files:       report.Files,
		Failures:    report.Failures,
	}
	wr, err := s.writer.WriteManifest(m)
	s.metrics.RecordFileWrite(snapshots.KindManifest, wr.Bytes, err)
	if err != nil {
		logging.Error(s.logger, "manifest write failed", err)
		return
	}
	report.Files = append(report.Files, snapshots.FileEntry{
		Path:  s.relative(wr.Path),
		Kind:  snapshots.KindManifest,
		Bytes: wr.Bytes,
	})
}

func (s *Service) publishAll(ctx context.Context, report *Report) {
	if s.publisher == nil {
		return
	}
	for _, f := range report.Files {
		err := s.publisher.Publish(ctx, filepath.Join(s.writer.BasePath(), filepath.FromSlash(f.Path)))
		s.metrics.RecordPublish(err)
		if err != nil {
			report.PublishFailures++
			logging.Warn(s.logger, "publish failed", logging.FieldPath, f.Path, "error", err)
			continue
		}
		report.Published++
	}
}

func (s *Service) relative(path string) string {
	rel, err := filepath.Rel(s.writer.BasePath(), path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func (r *Report) fail(res Result) {
	r.Failures = append(r.Failures, snapshots.Failure{
		LeagueID: res.ID.String(),
		Endpoint: res.Endpoint,
		Error:    res.Err.Error(),
	})
}
