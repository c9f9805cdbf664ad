package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/kinnet/internal/compute"
	"github.com/persistorai/kinnet/internal/kinship"
	"github.com/persistorai/kinnet/internal/models"
	"github.com/persistorai/kinnet/internal/store"
)

const (
	father models.RelationshipCode = 75
	son    models.RelationshipCode = 180
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)

	return l
}

func newTestService(t *testing.T, s EdgeStore) *NetworkService {
	t.Helper()

	log := testLogger()

	return NewNetworkService(s, kinship.Default(),
		compute.NewScheduler(nil, log),
		compute.NewLayoutScheduler(nil, log),
		log,
		NetworkConfig{MaxDepth: 5, Version: "test"},
	)
}

// scenarioStore holds person 1762 with a father and two sons, plus a grandfather.
func scenarioStore() *store.Memory {
	m := store.NewMemory()
	m.AddPerson(models.PersonAttributes{ID: 1762, Name: "Wang Anshi", NameChn: "王安石"})
	m.AddPerson(models.PersonAttributes{ID: 7082, Name: "Wang Yi"})
	m.AddPerson(models.PersonAttributes{ID: 2})
	m.AddPerson(models.PersonAttributes{ID: 3})
	m.AddPerson(models.PersonAttributes{ID: 9})

	m.AddEdge(models.Edge{From: 1762, To: 7082, Code: father, Kind: models.KindKinship})
	m.AddEdge(models.Edge{From: 1762, To: 2, Code: son, Kind: models.KindKinship})
	m.AddEdge(models.Edge{From: 1762, To: 3, Code: son, Kind: models.KindKinship})
	m.AddEdge(models.Edge{From: 7082, To: 9, Code: father, Kind: models.KindKinship})

	return m
}

func TestBuildNetwork_ScenarioA(t *testing.T) {
	svc := newTestService(t, scenarioStore())

	n, err := svc.BuildNetwork(context.Background(), models.BuildRequest{Seeds: []models.PersonID{1762}, Depth: 1})
	if err != nil {
		t.Fatalf("BuildNetwork: %v", err)
	}

	if len(n.Graph.Nodes) != 4 {
		t.Fatalf("nodes = %d, want 4", len(n.Graph.Nodes))
	}

	central := 0
	for id, a := range n.Graph.Nodes {
		if a.IsCentral {
			central++

			if id != 1762 {
				t.Errorf("node %d unexpectedly central", id)
			}
		}

		if a.Label == "" {
			t.Errorf("node %d has empty label", id)
		}
	}

	if central != 1 {
		t.Errorf("central nodes = %d, want 1", central)
	}

	if got := n.Graph.Nodes[7082].Path.GenerationsUp; got != 1 {
		t.Errorf("7082 generations up = %d, want 1", got)
	}

	for _, id := range []models.PersonID{2, 3} {
		if got := n.Graph.Nodes[id].Path.GenerationsDown; got != 1 {
			t.Errorf("%d generations down = %d, want 1", id, got)
		}
	}

	if n.Metrics.NodeCount != 4 || n.Metrics.EdgeCount != 3 || !n.Metrics.IsConnected {
		t.Errorf("unexpected metrics: %+v", n.Metrics)
	}

	if n.Truncated {
		t.Error("unexpected truncation")
	}
}

func TestBuildNetwork_ReverseEdgeClassified(t *testing.T) {
	m := store.NewMemory()
	m.AddPerson(models.PersonAttributes{ID: 1})
	m.AddPerson(models.PersonAttributes{ID: 5})
	// Stored from the child's side: 5's father is 1.
	m.AddEdge(models.Edge{From: 5, To: 1, Code: father, Kind: models.KindKinship})

	n, err := newTestService(t, m).BuildNetwork(context.Background(), models.BuildRequest{Seeds: []models.PersonID{1}, Depth: 1})
	if err != nil {
		t.Fatalf("BuildNetwork: %v", err)
	}

	if got := n.Graph.Nodes[5].Path; got.GenerationsDown != 1 || got.GenerationsUp != 0 {
		t.Errorf("child path metrics = %+v, want one generation down", got)
	}
}

func TestBuildNetwork_PolicyFilters(t *testing.T) {
	svc := newTestService(t, scenarioStore())
	policy := models.DefaultFilterPolicy()
	policy.MaxAncestorGen = 1

	n, err := svc.BuildNetwork(context.Background(), models.BuildRequest{
		Seeds: []models.PersonID{1762}, Depth: 2, Policy: &policy,
	})
	if err != nil {
		t.Fatalf("BuildNetwork: %v", err)
	}

	if _, ok := n.Graph.Nodes[9]; ok {
		t.Error("grandfather should be filtered by max_ancestor_gen=1")
	}

	if _, ok := n.Graph.Nodes[7082]; !ok {
		t.Error("father should be retained")
	}
}

func TestBuildNetwork_MultiSeedBridge(t *testing.T) {
	n, err := newTestService(t, scenarioStore()).BuildNetwork(context.Background(), models.BuildRequest{
		Seeds: []models.PersonID{9, 1762, 9}, Depth: 2,
	})
	if err != nil {
		t.Fatalf("BuildNetwork: %v", err)
	}

	if len(n.Seeds) != 2 {
		t.Errorf("seeds = %v, want deduplicated pair", n.Seeds)
	}

	if !n.Graph.Nodes[7082].IsBridge {
		t.Error("7082 links both seeds and should be a bridge")
	}

	if n.Graph.Nodes[2].IsBridge {
		t.Error("2 is not between the seeds")
	}
}

func TestBuildNetwork_TruncatesAndLayouts(t *testing.T) {
	svc := newTestService(t, scenarioStore())

	n, err := svc.BuildNetwork(context.Background(), models.BuildRequest{
		Seeds: []models.PersonID{1762}, Depth: 2, MaxNodes: 2, Layout: true,
	})
	if err != nil {
		t.Fatalf("BuildNetwork: %v", err)
	}

	if !n.Truncated || len(n.Graph.Nodes) != 2 {
		t.Errorf("truncated=%v nodes=%d, want true/2", n.Truncated, len(n.Graph.Nodes))
	}

	for id, a := range n.Graph.Nodes {
		if !a.HasCoordinates() {
			t.Errorf("node %d missing coordinates", id)
		}
	}
}

func TestBuildNetwork_Validation(t *testing.T) {
	svc := newTestService(t, scenarioStore())
	bad := models.DefaultFilterPolicy()
	bad.MaxMarriageLinks = -1

	tests := []struct {
		name string
		req  models.BuildRequest
		want error
	}{
		{"no seeds", models.BuildRequest{Depth: 1}, models.ErrNoSeeds},
		{"invalid seed", models.BuildRequest{Seeds: []models.PersonID{-4}}, models.ErrInvalidPersonID},
		{"depth too large", models.BuildRequest{Seeds: []models.PersonID{1762}, Depth: 6}, models.ErrInvalidDepth},
		{"negative depth", models.BuildRequest{Seeds: []models.PersonID{1762}, Depth: -1}, models.ErrInvalidDepth},
		{"bad kind", models.BuildRequest{Seeds: []models.PersonID{1762}, Kinds: []string{"rivalry"}}, models.ErrInvalidRelationKind},
		{"bad policy", models.BuildRequest{Seeds: []models.PersonID{1762}, Policy: &bad}, models.ErrInvalidPolicy},
		{"unknown seed", models.BuildRequest{Seeds: []models.PersonID{404}}, models.ErrPersonNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.BuildNetwork(context.Background(), tt.req); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestBuildNetwork_AdapterFailure(t *testing.T) {
	m := scenarioStore()
	m.Failure = errors.New("connection refused")

	_, err := newTestService(t, m).BuildNetwork(context.Background(), models.BuildRequest{Seeds: []models.PersonID{1762}, Depth: 1})
	if !errors.Is(err, models.ErrAdapter) {
		t.Errorf("expected ErrAdapter, got %v", err)
	}
}

func TestBuildNetwork_ResultsAreIndependent(t *testing.T) {
	svc := newTestService(t, scenarioStore())
	req := models.BuildRequest{Seeds: []models.PersonID{1762}, Depth: 1}

	a, err := svc.BuildNetwork(context.Background(), req)
	if err != nil {
		t.Fatalf("BuildNetwork: %v", err)
	}

	delete(a.Graph.Nodes, 7082)

	b, err := svc.BuildNetwork(context.Background(), req)
	if err != nil {
		t.Fatalf("BuildNetwork: %v", err)
	}

	if _, ok := b.Graph.Nodes[7082]; !ok {
		t.Error("mutating one result leaked into another")
	}
}

// gatedStore blocks the first seed lookup until released and counts lookups.
type gatedStore struct {
	*store.Memory

	lookups atomic.Int32
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedStore) GetNodeAttributes(ctx context.Context, ids []models.PersonID) (map[models.PersonID]models.PersonAttributes, error) {
	if g.lookups.Add(1) == 1 {
		g.once.Do(func() { close(g.entered) })
		<-g.release
	}

	return g.Memory.GetNodeAttributes(ctx, ids)
}

func TestBuildNetwork_CollapsesConcurrentRequests(t *testing.T) {
	gs := &gatedStore{Memory: scenarioStore(), entered: make(chan struct{}), release: make(chan struct{})}
	svc := newTestService(t, gs)
	req := models.BuildRequest{Seeds: []models.PersonID{1762}, Depth: 1}

	const callers = 4

	var wg sync.WaitGroup

	results := make([]*models.Network, callers)
	errs := make([]error, callers)

	wg.Add(1)

	go func() {
		defer wg.Done()
		results[0], errs[0] = svc.BuildNetwork(context.Background(), req)
	}()

	<-gs.entered

	for i := 1; i < callers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()
			results[i], errs[i] = svc.BuildNetwork(context.Background(), req)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(gs.release)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("caller %d: %v", i, err)
		}
	}

	// One build performs two attribute lookups: seed check and labels.
	if got := gs.lookups.Load(); got != 2 {
		t.Errorf("attribute lookups = %d, want 2 for a single shared build", got)
	}

	if results[0] == results[1] {
		t.Error("callers must receive distinct copies")
	}
}

func TestBuildNetwork_CancelledCallerDoesNotFailOthers(t *testing.T) {
	gs := &gatedStore{Memory: scenarioStore(), entered: make(chan struct{}), release: make(chan struct{})}
	svc := newTestService(t, gs)
	req := models.BuildRequest{Seeds: []models.PersonID{1762}, Depth: 1}

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)

	go func() {
		_, err := svc.BuildNetwork(ctxA, req)
		errA <- err
	}()

	<-gs.entered

	type outcome struct {
		network *models.Network
		err     error
	}

	resB := make(chan outcome, 1)

	go func() {
		n, err := svc.BuildNetwork(context.Background(), req)
		resB <- outcome{n, err}
	}()

	time.Sleep(50 * time.Millisecond)
	cancelA()

	// A stops waiting while the shared build is still blocked.
	select {
	case err := <-errA:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("cancelled caller err = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled caller kept waiting on the shared build")
	}

	close(gs.release)

	b := <-resB
	if b.err != nil {
		t.Fatalf("live caller failed: %v", b.err)
	}

	if len(b.network.Graph.Nodes) != 4 {
		t.Errorf("live caller nodes = %d, want 4", len(b.network.Graph.Nodes))
	}

	if got := gs.lookups.Load(); got != 2 {
		t.Errorf("attribute lookups = %d, want 2 for a single shared build", got)
	}
}

func TestGetPerson(t *testing.T) {
	svc := newTestService(t, scenarioStore())

	p, err := svc.GetPerson(context.Background(), 1762)
	if err != nil || p.NameChn != "王安石" {
		t.Errorf("GetPerson(1762) = %+v, %v", p, err)
	}

	if _, err := svc.GetPerson(context.Background(), 404); !errors.Is(err, models.ErrPersonNotFound) {
		t.Errorf("expected ErrPersonNotFound, got %v", err)
	}

	if _, err := svc.GetPerson(context.Background(), 0); !errors.Is(err, models.ErrInvalidPersonID) {
		t.Errorf("expected ErrInvalidPersonID, got %v", err)
	}
}

func TestAnalyzeAndLayout(t *testing.T) {
	svc := newTestService(t, scenarioStore())

	n, err := svc.BuildNetwork(context.Background(), models.BuildRequest{Seeds: []models.PersonID{1762}, Depth: 2})
	if err != nil {
		t.Fatalf("BuildNetwork: %v", err)
	}

	m, err := svc.Analyze(context.Background(), &n.Graph)
	if err != nil || m != n.Metrics {
		t.Errorf("Analyze = %+v, %v; want %+v", m, err, n.Metrics)
	}

	batch, err := svc.AnalyzeBatch(context.Background(), []models.GraphModel{n.Graph, n.Graph})
	if err != nil || len(batch) != 2 || batch[1] != n.Metrics {
		t.Errorf("AnalyzeBatch = %+v, %v", batch, err)
	}

	c, err := svc.Centrality(context.Background(), &n.Graph)
	if err != nil || c.Scores[1762] <= 0 {
		t.Errorf("Centrality = %+v, %v; seed should lie on paths", c, err)
	}

	laid, err := svc.Layout(context.Background(), &n.Graph)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	again, err := svc.Layout(context.Background(), &laid)
	if err != nil {
		t.Fatalf("second Layout: %v", err)
	}

	for id, a := range laid.Nodes {
		if *again.Nodes[id].X != *a.X || *again.Nodes[id].Y != *a.Y {
			t.Errorf("node %d moved on re-layout", id)
		}
	}
}
