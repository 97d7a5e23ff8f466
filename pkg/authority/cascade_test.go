package authority

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/locrecon/pkg/errors"
	"github.com/agentstation/locrecon/pkg/logging"
	"github.com/agentstation/locrecon/pkg/vocabulary"
)

// stubStrategy returns fixed results and counts its calls.
type stubStrategy struct {
	name    string
	results []Candidate
	err     error
	calls   int
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Fetch(_ context.Context, _ string, _ vocabulary.Partition) ([]Candidate, error) {
	s.calls++
	return s.results, s.err
}

type recordingObserver struct {
	mu     sync.Mutex
	events []string
}

func (o *recordingObserver) ObserveStage(stage, outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, stage+":"+outcome)
}

var twain = Candidate{Label: "Twain, Mark, 1835-1910", URI: "http://id.loc.gov/authorities/names/n79021164"}

func TestCascade_FirstHitWins(t *testing.T) {
	suggest := &stubStrategy{name: StageSuggest, results: []Candidate{twain}}
	dym := &stubStrategy{name: StageDidYouMean}
	scr := &stubStrategy{name: StageScrape}
	obs := &recordingObserver{}

	got := NewCascade([]Strategy{suggest, dym, scr}, WithObserver(obs)).
		Retrieve(context.Background(), "mark twain", vocabulary.Names)

	assert.Equal(t, StageSuggest, got.Stage)
	assert.Equal(t, []Candidate{twain}, got.Candidates)
	assert.Equal(t, 1, suggest.calls)
	assert.Zero(t, dym.calls)
	assert.Zero(t, scr.calls)
	assert.Equal(t, []string{"suggest:hit"}, obs.events)
}

func TestCascade_FallsThroughEmptyStages(t *testing.T) {
	suggest := &stubStrategy{name: StageSuggest}
	dym := &stubStrategy{name: StageDidYouMean}
	scr := &stubStrategy{name: StageScrape, results: []Candidate{twain}}
	obs := &recordingObserver{}

	got := NewCascade([]Strategy{suggest, dym, scr}, WithObserver(obs)).
		Retrieve(context.Background(), "mark twain", vocabulary.Names)

	assert.Equal(t, StageScrape, got.Stage)
	assert.Len(t, got.Candidates, 1)
	assert.Equal(t, []string{"suggest:empty", "didyoumean:empty", "scrape:hit"}, obs.events)
}

func TestCascade_StageErrorsAreContained(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	suggest := &stubStrategy{name: StageSuggest, err: errors.NewAPIError("suggest", http.StatusBadGateway, "bad gateway")}
	dym := &stubStrategy{name: StageDidYouMean, results: []Candidate{twain}}
	obs := &recordingObserver{}

	got := NewCascade([]Strategy{suggest, dym}, WithObserver(obs)).Retrieve(ctx, "mark twain", vocabulary.Names)

	assert.Equal(t, StageDidYouMean, got.Stage)
	assert.Equal(t, []string{"suggest:error", "didyoumean:hit"}, obs.events)
	tl.AssertContains(t, "Stage failed, continuing")
	tl.AssertContains(t, `"stage":"suggest"`)
	tl.AssertContains(t, `"status":502`)
}

func TestCascade_AllStagesFail(t *testing.T) {
	boom := errors.New("boom")
	stages := []Strategy{
		&stubStrategy{name: StageSuggest, err: boom},
		&stubStrategy{name: StageDidYouMean, err: boom},
		&stubStrategy{name: StageScrape, err: boom},
	}

	got := NewCascade(stages).Retrieve(context.Background(), "zzzqqq", vocabulary.Unrestricted)
	assert.Empty(t, got.Stage)
	assert.Empty(t, got.Candidates)
}

func TestCascade_StopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	suggest := &stubStrategy{name: StageSuggest, results: []Candidate{twain}}
	got := NewCascade([]Strategy{suggest}).Retrieve(ctx, "mark twain", vocabulary.Names)

	assert.Empty(t, got.Candidates)
	assert.Zero(t, suggest.calls)
}

// TestCascade_AgainstRecordedService runs the real client strategies
// against a server whose suggest endpoint fails and whose did-you-mean
// endpoint answers from a recorded fixture.
func TestCascade_AgainstRecordedService(t *testing.T) {
	dym, err := os.ReadFile(filepath.Join("testdata", "didyoumean.xml"))
	require.NoError(t, err)

	var mu sync.Mutex
	hits := map[string]int{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits[r.URL.Path]++
		mu.Unlock()
		switch r.URL.Path {
		case "/authorities/names/suggest/":
			http.Error(w, "oops", http.StatusInternalServerError)
		case "/authorities/names/didyoumean/":
			_, _ = w.Write(dym)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	got := NewCascade(client.Strategies()).Retrieve(context.Background(), "mark twian", vocabulary.Names)

	assert.Equal(t, StageDidYouMean, got.Stage)
	assert.Len(t, got.Candidates, 2)
	assert.Equal(t, 1, hits["/authorities/names/suggest/"])
	assert.Equal(t, 1, hits["/authorities/names/didyoumean/"])
	assert.Zero(t, hits["/search/"])
}
