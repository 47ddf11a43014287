package studyset

import (
	"math/rand/v2"
	"sort"

	"github.com/abhisek/lexicon/internal/candidates"
	"github.com/abhisek/lexicon/internal/catalog"
	"github.com/abhisek/lexicon/internal/profile"
)

// Optimizer picks a low-cost, balanced selection from candidate pools with
// an elitist genetic search. It holds no state between calls.
type Optimizer struct {
	cfg Config
}

// NewOptimizer creates an optimizer. Invalid configs fall back to defaults.
func NewOptimizer(cfg Config) *Optimizer {
	if cfg.Validate() != nil {
		cfg = DefaultConfig()
	}
	return &Optimizer{cfg: cfg}
}

// Config returns the search settings in use.
func (o *Optimizer) Config() Config {
	return o.cfg
}

type individual struct {
	genes [3][]int64 // indexed like catalog.Kinds
	cost  float64
}

// search is the per-call state. Nothing in it outlives Optimize.
type search struct {
	cfg     Config
	rng     *rand.Rand
	keys    [3][]int64
	costs   [3]map[int64]float64
	targets [3]int
}

// Optimize runs the search. All randomness comes from rng, so the same
// seed, pools and profile always give the same selection.
func (o *Optimizer) Optimize(pools candidates.Pools, prof *profile.Profile, rng *rand.Rand) (Selection, error) {
	if prof == nil {
		return Selection{}, ErrMissingProfile
	}

	s := &search{cfg: o.cfg, rng: rng}
	s.targets[0], s.targets[1], s.targets[2] = o.cfg.Targets()
	for i, kind := range catalog.Kinds {
		s.keys[i] = pools.Keys(kind)
		pool := pools.Pool(kind)
		s.costs[i] = make(map[int64]float64, len(pool))
		for id, it := range pool {
			s.costs[i][id] = ItemCost(it, prof)
		}
	}

	population := s.initial()
	for g := 0; g < o.cfg.Generations; g++ {
		population = s.nextGeneration(population)
	}

	best := population[0]
	for _, ind := range population[1:] {
		if ind.cost < best.cost {
			best = ind
		}
	}

	var sel Selection
	for i, kind := range catalog.Kinds {
		sel.set(kind, best.genes[i])
	}
	return sel.normalized(), nil
}

func (s *search) initial() []individual {
	pop := make([]individual, s.cfg.PopulationSize)
	for p := range pop {
		var genes [3][]int64
		for i := range genes {
			genes[i] = s.sample(s.keys[i], s.targets[i])
		}
		pop[p] = s.evaluate(genes)
	}
	return pop
}

func (s *search) evaluate(genes [3][]int64) individual {
	ind := individual{genes: genes}
	for i, ids := range genes {
		for _, id := range ids {
			ind.cost += s.costs[i][id]
		}
	}
	return ind
}

// nextGeneration keeps the cheaper half and breeds a fresh population from
// it. The input slice is left untouched.
func (s *search) nextGeneration(pop []individual) []individual {
	ranked := append([]individual(nil), pop...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].cost < ranked[j].cost })
	survivors := ranked[:max(1, len(ranked)/2)]

	next := make([]individual, s.cfg.PopulationSize)
	for p := range next {
		a := survivors[s.rng.IntN(len(survivors))]
		b := survivors[s.rng.IntN(len(survivors))]
		var genes [3][]int64
		for i := range genes {
			genes[i] = s.crossover(a.genes[i], b.genes[i], i)
		}
		next[p] = s.evaluate(genes)
	}
	return next
}

// crossover builds one child collection: single-point crossover, optional
// mutation, then repair back to the target size.
func (s *search) crossover(a, b []int64, kind int) []int64 {
	n := s.targets[kind]
	cut := 1
	if n > 1 {
		cut = s.rng.IntN(n-1) + 1
	}
	merged := make([]int64, 0, len(a)+len(b))
	merged = append(merged, a[:min(cut, len(a))]...)
	merged = append(merged, b[min(cut, len(b)):]...)
	child := dedupe(merged)

	if s.rng.Float64() < s.cfg.MutationRate {
		if s.rng.Float64() < 0.5 && len(child) > 1 {
			child = removeAt(child, s.rng.IntN(len(child)))
		} else if avail := unused(s.keys[kind], child); len(avail) > 0 {
			child = append(child, avail[s.rng.IntN(len(avail))])
		}
	}

	for len(child) > n {
		child = removeAt(child, s.rng.IntN(len(child)))
	}
	for len(child) < n {
		avail := unused(s.keys[kind], child)
		if len(avail) == 0 {
			break
		}
		child = append(child, avail[s.rng.IntN(len(avail))])
	}

	sortIDs(child)
	return child
}

// sample draws min(k, len(keys)) distinct ids with a partial Fisher-Yates
// shuffle over a copy of keys.
func (s *search) sample(keys []int64, k int) []int64 {
	k = min(k, len(keys))
	buf := append([]int64(nil), keys...)
	for i := 0; i < k; i++ {
		j := i + s.rng.IntN(len(buf)-i)
		buf[i], buf[j] = buf[j], buf[i]
	}
	return buf[:k:k]
}

// dedupe keeps the first occurrence of each id.
func dedupe(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// unused returns the keys not present in ids, keeping key order.
func unused(keys, ids []int64) []int64 {
	taken := make(map[int64]bool, len(ids))
	for _, id := range ids {
		taken[id] = true
	}
	var out []int64
	for _, k := range keys {
		if !taken[k] {
			out = append(out, k)
		}
	}
	return out
}

func removeAt(ids []int64, i int) []int64 {
	out := make([]int64, 0, len(ids)-1)
	out = append(out, ids[:i]...)
	return append(out, ids[i+1:]...)
}
