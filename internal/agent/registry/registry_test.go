package registry

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moolen/rfpagents/internal/agent/agentconfig"
)

const testCorpus = "projects/p/locations/us-central1/ragCorpora/42"

func testConfig(name string) agentconfig.Config {
	return agentconfig.Config{
		Name:        name,
		Model:       agentconfig.DefaultModel,
		Instruction: "instruction for " + name,
		Retrieval: agentconfig.Retrieval{
			ToolName:                "retrieve_" + name,
			ToolDescription:         "retrieval for " + name,
			Corpus:                  testCorpus,
			SimilarityTopK:          10,
			VectorDistanceThreshold: 0.6,
		},
	}
}

func fourAgents() []Descriptor {
	return []Descriptor{
		{ID: "rag", Description: "General RAG agent for querying the Digital Projects RFPs document", Config: testConfig("ask_rag_agent")},
		{ID: "rfp_creation", Description: "Specialized agent for creating RFPs from project details", Config: testConfig("rfp_creation_agent")},
		{ID: "rfp_validation", Description: "Specialized agent for validating RFPs against guidelines", Config: testConfig("rfp_validation_agent")},
		{ID: "rfp_orchestrator", Description: "Orchestrator agent for routing RFP-related requests", Config: testConfig("rfp_orchestrator_agent")},
	}
}

func mustNew(t *testing.T) *Registry {
	t.Helper()
	r, err := New(fourAgents()...)
	require.NoError(t, err)
	return r
}

func TestRegistry_ConcreteScenario(t *testing.T) {
	r := mustNew(t)

	assert.Equal(t,
		[]Identifier{"rag", "rfp_creation", "rfp_validation", "rfp_orchestrator"},
		r.ListIdentifiers())

	d, err := r.Get("rfp_creation")
	require.NoError(t, err)
	assert.Equal(t, Identifier("rfp_creation"), d.ID)
	assert.Equal(t, "Specialized agent for creating RFPs from project details", d.Description)
	assert.Equal(t, "rfp_creation_agent", d.Config.Name)

	_, err = r.Get("unknown")
	require.Error(t, err)
	assert.Equal(t,
		"agent 'unknown' not found. Available agents: rag, rfp_creation, rfp_validation, rfp_orchestrator",
		err.Error())
}

func TestRegistry_EveryIdentifierResolves(t *testing.T) {
	r := mustNew(t)

	descriptions := r.Describe()
	ids := r.ListIdentifiers()
	require.Len(t, descriptions, len(ids))

	for _, id := range ids {
		d, err := r.Get(string(id))
		require.NoError(t, err, "listed identifier %q must resolve", id)
		assert.Equal(t, id, d.ID)

		desc, ok := descriptions[id]
		assert.True(t, ok, "identifier %q missing from Describe", id)
		assert.Equal(t, d.Description, desc)
	}

	for id := range descriptions {
		assert.Contains(t, ids, id, "described identifier %q is not listed", id)
	}
}

func TestRegistry_GetIsCaseSensitive(t *testing.T) {
	r := mustNew(t)

	for _, id := range []string{"RAG", "Rfp_Creation", " rag", "rag ", ""} {
		t.Run(fmt.Sprintf("%q", id), func(t *testing.T) {
			_, err := r.Get(id)
			require.Error(t, err)
			assert.True(t, IsNotFound(err))
		})
	}
}

func TestNotFoundError(t *testing.T) {
	r := mustNew(t)

	_, err := r.Get("budget_agent")
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrNotFound))

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "budget_agent", nf.ID)
	assert.Equal(t, r.ListIdentifiers(), nf.Available)

	for _, id := range r.ListIdentifiers() {
		assert.Contains(t, err.Error(), string(id))
	}
	assert.Contains(t, err.Error(), "rag, rfp_creation, rfp_validation, rfp_orchestrator")

	wrapped := fmt.Errorf("select agent: %w", err)
	assert.True(t, IsNotFound(wrapped))
}

func TestRegistry_ListIdentifiersIsIdempotent(t *testing.T) {
	r := mustNew(t)

	first := r.ListIdentifiers()
	second := r.ListIdentifiers()
	assert.Equal(t, first, second)

	first[0] = "tampered"
	assert.Equal(t, Identifier("rag"), r.ListIdentifiers()[0], "callers must not be able to mutate the registry")
}

func TestRegistry_DescribeReturnsCopy(t *testing.T) {
	r := mustNew(t)

	desc := r.Describe()
	desc["rag"] = "changed"
	delete(desc, "rfp_validation")

	fresh := r.Describe()
	assert.Equal(t, "General RAG agent for querying the Digital Projects RFPs document", fresh["rag"])
	assert.Len(t, fresh, 4)
}

func TestRegistry_Descriptors(t *testing.T) {
	r := mustNew(t)

	ds := r.Descriptors()
	require.Len(t, ds, r.Len())
	for i, id := range r.ListIdentifiers() {
		assert.Equal(t, id, ds[i].ID)
	}
}

func TestRegistry_DeterministicConstruction(t *testing.T) {
	a := mustNew(t)
	b := mustNew(t)

	assert.Equal(t, a.ListIdentifiers(), b.ListIdentifiers())
	assert.Equal(t, a.Describe(), b.Describe())
}

func TestNew_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func([]Descriptor) []Descriptor
		wantMsg string
	}{
		{
			name:    "empty table",
			mutate:  func([]Descriptor) []Descriptor { return nil },
			wantMsg: "no agents registered",
		},
		{
			name: "empty identifier",
			mutate: func(ds []Descriptor) []Descriptor {
				ds[2].ID = ""
				return ds
			},
			wantMsg: "at position 2: identifier is empty",
		},
		{
			name: "duplicate identifier",
			mutate: func(ds []Descriptor) []Descriptor {
				ds[3].ID = "rag"
				return ds
			},
			wantMsg: "for 'rag': duplicate identifier",
		},
		{
			name: "missing description",
			mutate: func(ds []Descriptor) []Descriptor {
				ds[1].Description = "  "
				return ds
			},
			wantMsg: "for 'rfp_creation': description is empty",
		},
		{
			name: "invalid config",
			mutate: func(ds []Descriptor) []Descriptor {
				ds[0].Config.Retrieval.Corpus = ""
				return ds
			},
			wantMsg: "retrieval corpus is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(tt.mutate(fourAgents())...)
			require.Error(t, err)
			assert.Nil(t, r)

			var regErr *RegistrationError
			require.True(t, errors.As(err, &regErr))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestNew_InvalidConfigUnwraps(t *testing.T) {
	ds := fourAgents()
	ds[1].Config.Retrieval.SimilarityTopK = 0

	_, err := New(ds...)
	require.Error(t, err)
	assert.True(t, errors.Is(err, agentconfig.ErrInvalidConfig))
}

func TestRegistry_ConcurrentReads(t *testing.T) {
	r := mustNew(t)

	type snapshot struct {
		ids   []Identifier
		descs map[Identifier]string
		miss  string
	}
	take := func() snapshot {
		_, err := r.Get("nope")
		return snapshot{ids: r.ListIdentifiers(), descs: r.Describe(), miss: err.Error()}
	}
	baseline := take()

	const workers = 32
	const iterations = 200

	var wg sync.WaitGroup
	results := make(chan snapshot, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var last snapshot
			for i := 0; i < iterations; i++ {
				for _, id := range r.ListIdentifiers() {
					if _, err := r.Get(string(id)); err != nil {
						t.Errorf("Get(%q) failed: %v", id, err)
						return
					}
				}
				last = take()
			}
			results <- last
		}()
	}
	wg.Wait()
	close(results)

	for got := range results {
		assert.Equal(t, baseline.ids, got.ids)
		assert.Equal(t, baseline.descs, got.descs)
		assert.Equal(t, baseline.miss, got.miss)
	}
}

func TestOnce_BuildsExactlyOnce(t *testing.T) {
	var mu sync.Mutex
	builds := 0
	o := NewOnce(func() (*Registry, error) {
		mu.Lock()
		builds++
		mu.Unlock()
		return New(fourAgents()...)
	})

	var wg sync.WaitGroup
	regs := make([]*Registry, 16)
	for i := range regs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := o.Get()
			assert.NoError(t, err)
			regs[i] = r
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, builds)
	for _, r := range regs {
		assert.Same(t, regs[0], r)
	}
}

func TestOnce_SharesError(t *testing.T) {
	calls := 0
	o := NewOnce(func() (*Registry, error) {
		calls++
		return nil, errors.New("RAG_CORPUS is not set")
	})

	_, err1 := o.Get()
	_, err2 := o.Get()
	require.Error(t, err1)
	assert.Same(t, err1, err2)
	assert.Equal(t, 1, calls)
	assert.True(t, strings.Contains(err1.Error(), "RAG_CORPUS"))
}
