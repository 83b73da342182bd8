package fetcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preston-bernstein/sportsdb-sync/internal/domain/leagues"
	"github.com/preston-bernstein/sportsdb-sync/internal/domain/payload"
	"github.com/preston-bernstein/sportsdb-sync/internal/metrics"
	"github.com/preston-bernstein/sportsdb-sync/internal/providers"
	"github.com/preston-bernstein/sportsdb-sync/internal/snapshots"
	"github.com/preston-bernstein/sportsdb-sync/internal/teststubs"
	"github.com/preston-bernstein/sportsdb-sync/internal/testutil"
)

func newStub(ids ...leagues.ID) *teststubs.StubProvider {
	stub := &teststubs.StubProvider{
		Lookups: map[leagues.ID]payload.Document{},
		Events:  map[leagues.ID]payload.Document{},
	}
	for _, id := range ids {
		stub.Lookups[id] = testutil.SampleLookup(id)
		stub.Events[id] = testutil.SampleEvents(id, 2)
	}
	return stub
}

func newService(t *testing.T, provider providers.LeagueProvider, opts Options) (*Service, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "data")
	logger, _ := testutil.NewBufferLogger()
	return New(provider, snapshots.NewWriter(dir), nil, logger, metrics.NewRecorder(), opts), dir
}

func TestRunWritesConsolidatedLeaguesInOrder(t *testing.T) {
	stub := newStub("4328", "4335")
	svc, dir := newService(t, stub, Options{ProviderName: "stub"})

	report, err := svc.Run(context.Background(), []leagues.ID{"4328", "4335"})
	require.NoError(t, err)
	assert.Equal(t, 2, report.LeagueEntries)

	var got struct {
		Leagues []map[string]string `json:"leagues"`
	}
	testutil.DecodeFile(t, snapshots.LeaguesPath(dir), &got)
	require.Len(t, got.Leagues, 2)
	assert.Equal(t, "4328", got.Leagues[0]["idLeague"])
	assert.Equal(t, "4335", got.Leagues[1]["idLeague"])
}

func TestRunRequestsEachUniqueIDOnce(t *testing.T) {
	stub := newStub("1", "2")
	svc, _ := newService(t, stub, Options{})

	report, err := svc.Run(context.Background(), []leagues.ID{"1", "2", "1", "2", "1"})
	require.NoError(t, err)
	assert.Equal(t, []leagues.ID{"1", "2"}, report.Requested)
	assert.Equal(t, []string{"lookup:1", "lookup:2", "events:1", "events:2"}, stub.Requests())
}

func TestRunSkipsFailedFixtures(t *testing.T) {
	stub := newStub("1", "2", "3")
	stub.Errs = map[string]error{"events:3": errors.New("timeout")}
	svc, dir := newService(t, stub, Options{})

	report, err := svc.Run(context.Background(), []leagues.ID{"1", "2", "3"})
	require.NoError(t, err)
	assert.Equal(t, 2, report.FixturesWritten)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, snapshots.Failure{LeagueID: "3", Endpoint: providers.EndpointNextEvents, Error: "timeout"}, report.Failures[0])

	assert.FileExists(t, snapshots.FixturesPath(dir, "1"))
	assert.FileExists(t, snapshots.FixturesPath(dir, "2"))
	assert.NoFileExists(t, snapshots.FixturesPath(dir, "3"))
	assert.FileExists(t, snapshots.LeaguesPath(dir))
}

func TestRunSkipsFailedLookups(t *testing.T) {
	stub := newStub("1", "2")
	stub.Errs = map[string]error{"lookup:1": errors.New("503")}
	svc, dir := newService(t, stub, Options{})

	report, err := svc.Run(context.Background(), []leagues.ID{"1", "2"})
	require.NoError(t, err)
	assert.Equal(t, 1, report.LeagueEntries)

	var got struct {
		Leagues []map[string]string `json:"leagues"`
	}
	testutil.DecodeFile(t, snapshots.LeaguesPath(dir), &got)
	require.Len(t, got.Leagues, 1)
	assert.Equal(t, "2", got.Leagues[0]["idLeague"])
	// Fixtures for a failed lookup are still attempted.
	assert.FileExists(t, snapshots.FixturesPath(dir, "1"))
}

func TestRunWritesEmptyLeaguesWhenNothingFound(t *testing.T) {
	stub := newStub()
	stub.Lookups["9"] = payload.Document{"leagues": nil}
	stub.Events["9"] = payload.Document{}
	svc, dir := newService(t, stub, Options{})

	report, err := svc.Run(context.Background(), []leagues.ID{"9"})
	require.NoError(t, err)
	assert.Zero(t, report.LeagueEntries)
	assert.Zero(t, report.FixturesWritten)

	data, err := os.ReadFile(snapshots.LeaguesPath(dir))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"leagues": []`)
	assert.NoFileExists(t, snapshots.FixturesPath(dir, "9"))
}

func TestRunWithNoIDsWritesEmptyLeagues(t *testing.T) {
	svc, dir := newService(t, newStub(), Options{})

	report, err := svc.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, report.Failures)
	assert.FileExists(t, snapshots.LeaguesPath(dir))
}

func TestRunIsIdempotent(t *testing.T) {
	stub := newStub("1", "2")
	svc, dir := newService(t, stub, Options{})
	ids := []leagues.ID{"1", "2"}

	_, err := svc.Run(context.Background(), ids)
	require.NoError(t, err)
	first := readOutputs(t, dir)

	_, err = svc.Run(context.Background(), ids)
	require.NoError(t, err)
	second := readOutputs(t, dir)

	assert.Equal(t, first, second)
}

func TestRunFetchesAllLeaguesWhenEnabled(t *testing.T) {
	stub := newStub("1")
	stub.All = payload.Document{"leagues": []any{testutil.SampleLeague("1"), testutil.SampleLeague("2")}}
	svc, dir := newService(t, stub, Options{AllLeagues: true})

	_, err := svc.Run(context.Background(), []leagues.ID{"1"})
	require.NoError(t, err)
	assert.Equal(t, "all", stub.Requests()[0])
	assert.FileExists(t, snapshots.AllLeaguesPath(dir))
}

func TestRunSkipsAllLeaguesFailure(t *testing.T) {
	stub := newStub("1")
	stub.Errs = map[string]error{"all": errors.New("down")}
	svc, dir := newService(t, stub, Options{AllLeagues: true})

	report, err := svc.Run(context.Background(), []leagues.ID{"1"})
	require.NoError(t, err)
	assert.NoFileExists(t, snapshots.AllLeaguesPath(dir))
	require.Len(t, report.Failures, 1)
	assert.Equal(t, providers.EndpointAllLeagues, report.Failures[0].Endpoint)
	assert.Empty(t, report.Failures[0].LeagueID)
}

func TestRunWritesManifest(t *testing.T) {
	stub := newStub("1", "2")
	stub.Errs = map[string]error{"events:2": errors.New("boom")}
	dir := filepath.Join(t.TempDir(), "data")
	svc := New(stub, snapshots.NewWriter(dir), nil, nil, nil, Options{ProviderName: "stub", Source: "config"})
	fixed := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	svc.now = testutil.NowAt(fixed)

	_, err := svc.Run(context.Background(), []leagues.ID{"1", "2"})
	require.NoError(t, err)

	m, err := snapshots.ReadManifest(dir)
	require.NoError(t, err)
	assert.True(t, m.GeneratedAt.Equal(fixed))
	assert.Equal(t, "stub", m.Provider)
	assert.Equal(t, "config", m.Source)
	assert.Equal(t, []string{"1", "2"}, m.Requested)
	require.Len(t, m.Files, 2)
	assert.Equal(t, snapshots.FileEntry{Path: "leagues.json", Kind: snapshots.KindLeagues, Bytes: m.Files[0].Bytes}, m.Files[0])
	assert.Equal(t, "fixtures_1.json", m.Files[1].Path)
	assert.Equal(t, "1", m.Files[1].LeagueID)
	require.Len(t, m.Failures, 1)
	assert.Equal(t, "2", m.Failures[0].LeagueID)
}

func TestRunLeaguesWriteFailureIsFatal(t *testing.T) {
	stub := newStub("1")
	boom := errors.New("disk full")
	w := &failingWriter{Writer: snapshots.NewWriter(t.TempDir()), leaguesErr: boom}
	svc := New(stub, w, nil, nil, nil, Options{})

	_, err := svc.Run(context.Background(), []leagues.ID{"1"})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"lookup:1"}, stub.Requests())
}

func TestRunFixturesWriteFailureIsSkipped(t *testing.T) {
	stub := newStub("1", "2")
	dir := t.TempDir()
	w := &failingWriter{Writer: snapshots.NewWriter(dir), fixturesErr: map[leagues.ID]error{"1": errors.New("denied")}}
	svc := New(stub, w, nil, nil, nil, Options{})

	report, err := svc.Run(context.Background(), []leagues.ID{"1", "2"})
	require.NoError(t, err)
	assert.Equal(t, 1, report.FixturesWritten)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, snapshots.KindFixtures, report.Failures[0].Endpoint)
	assert.FileExists(t, snapshots.FixturesPath(dir, "2"))
}

func TestRunManifestFailureIsNotFatal(t *testing.T) {
	w := &failingWriter{Writer: snapshots.NewWriter(t.TempDir()), manifestErr: errors.New("nope")}
	svc := New(newStub("1"), w, nil, nil, nil, Options{})

	report, err := svc.Run(context.Background(), []leagues.ID{"1"})
	require.NoError(t, err)
	for _, f := range report.Files {
		assert.NotEqual(t, snapshots.KindManifest, f.Kind)
	}
}

func TestRunPublishesWrittenFiles(t *testing.T) {
	stub := newStub("1")
	dir := t.TempDir()
	pub := &teststubs.StubPublisher{}
	svc := New(stub, snapshots.NewWriter(dir), pub, nil, nil, Options{})

	report, err := svc.Run(context.Background(), []leagues.ID{"1"})
	require.NoError(t, err)
	assert.Equal(t, 3, report.Published)
	assert.Equal(t, []string{
		snapshots.LeaguesPath(dir),
		snapshots.FixturesPath(dir, "1"),
		snapshots.ManifestPath(dir),
	}, pub.Published)
}

func TestRunPublishFailuresDoNotAbort(t *testing.T) {
	pub := &teststubs.StubPublisher{Err: errors.New("unreachable")}
	svc := New(newStub("1"), snapshots.NewWriter(t.TempDir()), pub, nil, nil, Options{})

	report, err := svc.Run(context.Background(), []leagues.ID{"1"})
	require.NoError(t, err)
	assert.Zero(t, report.Published)
	assert.Equal(t, 3, report.PublishFailures)
}

func TestRunRecordsMetrics(t *testing.T) {
	rec := metrics.NewRecorder()
	svc := New(newStub("1", "2"), snapshots.NewWriter(t.TempDir()), nil, nil, rec, Options{})

	_, err := svc.Run(context.Background(), []leagues.ID{"1", "2"})
	require.NoError(t, err)
	// leagues + two fixtures + manifest
	assert.Equal(t, 4, rec.FilesWritten())
	assert.Zero(t, rec.WriteErrors())
}

func TestRunRequiresProviderAndWriter(t *testing.T) {
	_, err := New(nil, snapshots.NewWriter(t.TempDir()), nil, nil, nil, Options{}).Run(context.Background(), nil)
	assert.ErrorIs(t, err, providers.ErrProviderUnavailable)

	_, err = New(newStub(), nil, nil, nil, nil, Options{}).Run(context.Background(), nil)
	assert.ErrorIs(t, err, errNoWriter)
}

func TestRunCanceledContextKeepsExistingOutput(t *testing.T) {
	svc, dir := newService(t, newStub("1"), Options{})
	_, err := svc.Run(context.Background(), []leagues.ID{"1"})
	require.NoError(t, err)
	before := readOutputs(t, dir)
	manifestBefore, err := os.ReadFile(snapshots.ManifestPath(dir))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Run(ctx, []leagues.ID{"1"})
	require.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, before, readOutputs(t, dir))
	manifestAfter, err := os.ReadFile(snapshots.ManifestPath(dir))
	require.NoError(t, err)
	assert.Equal(t, string(manifestBefore), string(manifestAfter))
}

func TestRunCanceledBeforeAnyOutputWritesNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pub := &teststubs.StubPublisher{}
	dir := filepath.Join(t.TempDir(), "data")
	svc := New(newStub("1"), snapshots.NewWriter(dir), pub, nil, nil, Options{AllLeagues: true})

	_, err := svc.Run(ctx, []leagues.ID{"1"})
	require.ErrorIs(t, err, context.Canceled)
	assert.NoDirExists(t, dir)
	assert.Empty(t, pub.Published)
}

func TestRunCanceledDuringFixturesStopsWriting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stub := newStub("1", "2", "3")
	prov := &cancelOnEvents{StubProvider: stub, id: "2", cancel: cancel}
	pub := &teststubs.StubPublisher{}
	dir := filepath.Join(t.TempDir(), "data")
	svc := New(prov, snapshots.NewWriter(dir), pub, nil, nil, Options{})

	report, err := svc.Run(ctx, []leagues.ID{"1", "2", "3"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, report.FixturesWritten)
	assert.FileExists(t, snapshots.LeaguesPath(dir))
	assert.FileExists(t, snapshots.FixturesPath(dir, "1"))
	assert.NoFileExists(t, snapshots.FixturesPath(dir, "2"))
	assert.NoFileExists(t, snapshots.FixturesPath(dir, "3"))
	assert.NoFileExists(t, snapshots.ManifestPath(dir))
	assert.Empty(t, pub.Published)
	assert.NotContains(t, stub.Requests(), "events:3")
}

// cancelOnEvents cancels the run while serving the events request for id.
type cancelOnEvents struct {
	*teststubs.StubProvider
	id     leagues.ID
	cancel context.CancelFunc
}

func (c *cancelOnEvents) NextEvents(ctx context.Context, id leagues.ID) (payload.Document, error) {
	if id == c.id {
		c.cancel()
	}
	return c.StubProvider.NextEvents(ctx, id)
}

type failingWriter struct {
	*snapshots.Writer
	leaguesErr  error
	fixturesErr map[leagues.ID]error
	manifestErr error
}

func (f *failingWriter) WriteLeagues(entries []any) (snapshots.WriteResult, error) {
	if f.leaguesErr != nil {
		return snapshots.WriteResult{Path: snapshots.LeaguesPath(f.BasePath())}, f.leaguesErr
	}
	return f.Writer.WriteLeagues(entries)
}

func (f *failingWriter) WriteFixtures(id leagues.ID, doc payload.Document) (snapshots.WriteResult, error) {
	if err := f.fixturesErr[id]; err != nil {
		return snapshots.WriteResult{Path: snapshots.FixturesPath(f.BasePath(), id)}, err
	}
	return f.Writer.WriteFixtures(id, doc)
}

func (f *failingWriter) WriteManifest(m snapshots.Manifest) (snapshots.WriteResult, error) {
	if f.manifestErr != nil {
		return snapshots.WriteResult{}, f.manifestErr
	}
	return f.Writer.WriteManifest(m)
}

func readOutputs(t *testing.T, dir string) map[string]string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	out := map[string]string{}
	for _, e := range entries {
		if e.Name() == "manifest.json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		require.NoError(t, err)
		out[e.Name()] = string(data)
	}
	return out
}
