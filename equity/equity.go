// Package equity implements the Monte-Carlo equity engine: repeated random
// completion of unknown hole cards and board runouts, with split-pot-exact
// equity accumulation.
package equity

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem-equity/canonical"
	"github.com/lox/holdem-equity/card"
	"github.com/lox/holdem-equity/engineconfig"
	"github.com/lox/holdem-equity/handrank"
	"github.com/lox/holdem-equity/pokererr"
)

// discardLogger is used whenever a caller does not inject one, so the engine
// never reaches for a global logger.
var discardLogger = log.NewWithOptions(io.Discard, log.Options{})

// progressBatchSize is how often a running trial loop logs its progress.
const progressBatchSize = 10000

// resolveSeed turns a zero seed into a fresh, time-derived one. A caller
// that wants determinism passes a non-zero seed explicitly.
func resolveSeed(seed int64) int64 {
	if seed == 0 {
		return time.Now().UnixNano()
	}
	return seed
}

// HandKind tags which variant a PlayerHand carries.
type HandKind int

const (
	// Specific is a fixed, known 2-card hole hand.
	Specific HandKind = iota
	// RangeHand samples uniformly from a set of canonical hands each trial.
	RangeHand
	// Random samples any two available cards each trial.
	Random
)

// PlayerHand is the tagged union of a player's declared holding.
type PlayerHand struct {
	Kind  HandKind
	Hole  [2]card.Card      // valid when Kind == Specific
	Range []canonical.Hand  // valid when Kind == RangeHand
}

// SpecificHand builds a PlayerHand for a known 2-card hole.
func SpecificHand(c1, c2 card.Card) PlayerHand {
	return PlayerHand{Kind: Specific, Hole: [2]card.Card{c1, c2}}
}

// RangeHandFrom builds a PlayerHand that samples from the given canonical
// range each trial.
func RangeHandFrom(hands []canonical.Hand) PlayerHand {
	return PlayerHand{Kind: RangeHand, Range: hands}
}

// RandomHand builds a PlayerHand that samples any two live cards each trial.
func RandomHand() PlayerHand {
	return PlayerHand{Kind: Random}
}

// Request describes one equity computation.
type Request struct {
	Players             []PlayerHand
	PartialBoard        []card.Card
	NumTrials           int
	Seed                int64
	ConvergenceInterval int // 0 disables convergence tracing

	Logger *log.Logger
	Config *engineconfig.EngineConfig
}

// PlayerEquity is one player's accumulated outcome.
type PlayerEquity struct {
	Wins      int
	Ties      int
	EquitySum float64
	Trials    int
}

// Equity is the authoritative per-player equity: equity_sum / trials. This
// is intentionally the only equity accessor; win_rate + tie_rate/2 is exact
// only for two-player ties and is not offered.
func (p PlayerEquity) Equity() float64 {
	if p.Trials == 0 {
		return 0
	}
	return p.EquitySum / float64(p.Trials)
}

// ConvergencePoint is one sample of the convergence trace.
type ConvergencePoint struct {
	TrialIndex int
	Equities   []float64
}

// Result is the outcome of an equity computation.
type Result struct {
	Players     []PlayerEquity
	Trials      int
	Seed        int64
	Convergence []ConvergencePoint
}

func resolvedConfig(req Request) engineconfig.EngineSettings {
	if req.Config != nil {
		return req.Config.Engine
	}
	return engineconfig.DefaultEngineConfig().Engine
}

func resolvedLogger(req Request) *log.Logger {
	if req.Logger != nil {
		return req.Logger
	}
	return discardLogger
}

// validate checks the request invariants that must hold before any trial
// runs, and precomputes each range player's dead-card-filtered combo pool.
func validate(req Request) ([][][2]card.Card, map[card.Card]struct{}, error) {
	if len(req.Players) < 2 || len(req.Players) > 10 {
		return nil, nil, pokererr.New(pokererr.InvalidInput, "player count %d out of [2,10]", len(req.Players))
	}
	if len(req.PartialBoard) > 5 {
		return nil, nil, pokererr.New(pokererr.InvalidInput, "partial board has %d cards, max is 5", len(req.PartialBoard))
	}

	dead := make(map[card.Card]struct{})
	addDead := func(c card.Card) error {
		if _, dup := dead[c]; dup {
			return pokererr.New(pokererr.InvalidInput, "card %s is named more than once", c)
		}
		dead[c] = struct{}{}
		return nil
	}
	for _, c := range req.PartialBoard {
		if err := addDead(c); err != nil {
			return nil, nil, err
		}
	}
	for _, p := range req.Players {
		if p.Kind != Specific {
			continue
		}
		if p.Hole[0] == p.Hole[1] {
			return nil, nil, pokererr.New(pokererr.InvalidInput, "player holds duplicate card %s", p.Hole[0])
		}
		if err := addDead(p.Hole[0]); err != nil {
			return nil, nil, err
		}
		if err := addDead(p.Hole[1]); err != nil {
			return nil, nil, err
		}
	}

	rangeCombos := make([][][2]card.Card, len(req.Players))
	for i, p := range req.Players {
		if p.Kind != RangeHand {
			continue
		}
		if len(p.Range) == 0 {
			return nil, nil, pokererr.New(pokererr.InvalidInput, "player %d has an empty range", i)
		}
		var combos [][2]card.Card
		for _, h := range p.Range {
			combos = append(combos, h.GetCombosExcluding(dead)...)
		}
		if len(combos) == 0 {
			return nil, nil, pokererr.New(pokererr.InvalidInput, "player %d's range is fully blocked by known cards", i)
		}
		rangeCombos[i] = combos
	}

	return rangeCombos, dead, nil
}

func basePool(dead map[card.Card]struct{}) []card.Card {
	pool := make([]card.Card, 0, 52-len(dead))
	for _, c := range card.All52() {
		if _, d := dead[c]; !d {
			pool = append(pool, c)
		}
	}
	return pool
}

// attemptTrial runs one full trial. ok is false if a range player could not
// find a valid combo against this trial's dead set; the caller retries.
func attemptTrial(req Request, rangeCombos [][][2]card.Card, dead map[card.Card]struct{}, pool []card.Card, rng *rand.Rand) ([]handrank.HandRank, bool) {
	trialDead := make(map[card.Card]struct{}, len(dead)+2*len(req.Players))
	for c := range dead {
		trialDead[c] = struct{}{}
	}
	trialPool := append([]card.Card{}, pool...)

	holes := make([][2]card.Card, len(req.Players))
	for i, p := range req.Players {
		switch p.Kind {
		case Specific:
			holes[i] = p.Hole

		case RangeHand:
			combo, ok := sampleValidCombo(rangeCombos[i], trialDead, rng)
			if !ok {
				return nil, false
			}
			holes[i] = combo
			trialDead[combo[0]] = struct{}{}
			trialDead[combo[1]] = struct{}{}
			trialPool = removeCards(trialPool, combo[0], combo[1])

		case Random:
			c1, c2, rest, ok := drawTwoDistinct(trialPool, rng)
			if !ok {
				return nil, false
			}
			holes[i] = [2]card.Card{c1, c2}
			trialDead[c1] = struct{}{}
			trialDead[c2] = struct{}{}
			trialPool = rest
		}
	}

	runoutNeeded := 5 - len(req.PartialBoard)
	if runoutNeeded > len(trialPool) {
		return nil, false
	}
	runout := drawN(trialPool, runoutNeeded, rng)
	board := make([]card.Card, 0, 5)
	board = append(board, req.PartialBoard...)
	board = append(board, runout...)

	hrs := make([]handrank.HandRank, len(req.Players))
	for i, h := range holes {
		seven := make([]card.Card, 0, 7)
		seven = append(seven, h[0], h[1])
		seven = append(seven, board...)
		hr, err := handrank.Evaluate7(seven)
		if err != nil {
			return nil, false
		}
		hrs[i] = hr
	}
	return hrs, true
}

func sampleValidCombo(combos [][2]card.Card, dead map[card.Card]struct{}, rng *rand.Rand) ([2]card.Card, bool) {
	if len(combos) == 0 {
		return [2]card.Card{}, false
	}
	attempts := len(combos) * 2
	if attempts < 20 {
		attempts = 20
	}
	for i := 0; i < attempts; i++ {
		c := combos[rng.Intn(len(combos))]
		_, d1 := dead[c[0]]
		_, d2 := dead[c[1]]
		if !d1 && !d2 {
			return c, true
		}
	}
	// Exhaustive fallback in case random probing got unlucky.
	for _, c := range combos {
		_, d1 := dead[c[0]]
		_, d2 := dead[c[1]]
		if !d1 && !d2 {
			return c, true
		}
	}
	return [2]card.Card{}, false
}

func drawTwoDistinct(pool []card.Card, rng *rand.Rand) (card.Card, card.Card, []card.Card, bool) {
	if len(pool) < 2 {
		return card.Card{}, card.Card{}, pool, false
	}
	pool = append([]card.Card{}, pool...)
	i := rng.Intn(len(pool))
	pool[i], pool[len(pool)-1] = pool[len(pool)-1], pool[i]
	c1 := pool[len(pool)-1]
	pool = pool[:len(pool)-1]

	j := rng.Intn(len(pool))
	pool[j], pool[len(pool)-1] = pool[len(pool)-1], pool[j]
	c2 := pool[len(pool)-1]
	pool = pool[:len(pool)-1]

	return c1, c2, pool, true
}

func drawN(pool []card.Card, n int, rng *rand.Rand) []card.Card {
	pool = append([]card.Card{}, pool...)
	drawn := make([]card.Card, 0, n)
	for i := 0; i < n; i++ {
		j := rng.Intn(len(pool))
		pool[j], pool[len(pool)-1] = pool[len(pool)-1], pool[j]
		drawn = append(drawn, pool[len(pool)-1])
		pool = pool[:len(pool)-1]
	}
	return drawn
}

func removeCards(pool []card.Card, c1, c2 card.Card) []card.Card {
	out := make([]card.Card, 0, len(pool))
	for _, c := range pool {
		if c == c1 || c == c2 {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Run executes num_trials sequentially against a single PRNG stream, the
// only schedule under which convergence tracing and cross-run reproducibility
// are both fully well-defined (see RunParallel for the relaxed variant).
func Run(ctx context.Context, req Request) (Result, error) {
	cfg := resolvedConfig(req)
	logger := resolvedLogger(req)

	numTrials := req.NumTrials
	if numTrials == 0 {
		numTrials = cfg.DefaultTrials
	}

	rangeCombos, dead, err := validate(req)
	if err != nil {
		return Result{}, err
	}
	pool := basePool(dead)
	seed := resolveSeed(req.Seed)
	rng := rand.New(rand.NewSource(seed))

	players := make([]PlayerEquity, len(req.Players))
	var trace []ConvergencePoint
	start := time.Now()

	trial := 0
	for trial < numTrials {
		select {
		case <-ctx.Done():
			logger.Debug("equity: cancelled", "trials", trial)
			return Result{Players: players, Trials: trial, Seed: seed, Convergence: trace}, nil
		default:
		}

		hrs, ok := runWithRetries(req, rangeCombos, dead, pool, rng, int(cfg.MaxTrialRetries))
		if !ok {
			logger.Warn("equity: resample exhausted", "retries", cfg.MaxTrialRetries, "trials", trial)
			return Result{}, pokererr.New(pokererr.InvariantViolated, "equity: exhausted %d retries sampling a valid trial", cfg.MaxTrialRetries)
		}

		accumulate(players, hrs)
		trial++

		if trial%progressBatchSize == 0 {
			logger.Debug("equity: trial batch complete", "trials", trial, "elapsed", time.Since(start))
		}

		if req.ConvergenceInterval > 0 && trial%req.ConvergenceInterval == 0 {
			trace = append(trace, snapshotConvergence(players, trial))
		}
	}

	logger.Debug("equity: run complete", "trials", trial, "players", len(players))
	return Result{Players: players, Trials: trial, Seed: seed, Convergence: trace}, nil
}

func runWithRetries(req Request, rangeCombos [][][2]card.Card, dead map[card.Card]struct{}, pool []card.Card, rng *rand.Rand, maxRetries int) ([]handrank.HandRank, bool) {
	for attempt := 0; attempt < maxRetries; attempt++ {
		if hrs, ok := attemptTrial(req, rangeCombos, dead, pool, rng); ok {
			return hrs, true
		}
	}
	return nil, false
}

func accumulate(players []PlayerEquity, hrs []handrank.HandRank) {
	winners := handrank.FindWinners(hrs)
	k := float64(len(winners))
	for _, w := range winners {
		players[w].Trials++
		players[w].EquitySum += 1 / k
		if len(winners) == 1 {
			players[w].Wins++
		} else {
			players[w].Ties++
		}
	}
	for i := range players {
		isWinner := false
		for _, w := range winners {
			if w == i {
				isWinner = true
				break
			}
		}
		if !isWinner {
			players[i].Trials++
		}
	}
}

func snapshotConvergence(players []PlayerEquity, trialsSoFar int) ConvergencePoint {
	equities := make([]float64, len(players))
	for i, p := range players {
		equities[i] = p.EquitySum / float64(trialsSoFar)
	}
	return ConvergencePoint{TrialIndex: trialsSoFar, Equities: equities}
}

// RunParallel splits num_trials across up to `workers` goroutines, each with
// its own deck and an independently seeded PRNG drawn from the master
// stream before dispatch, coordinated with errgroup. Reproducibility holds
// for a fixed worker count but not across worker counts: the master seed
// mints one sub-seed per worker up front, so which physical trials land on
// which stream depends on how trials are partitioned. Convergence tracing,
// when requested, reflects only worker 0's stream.
func RunParallel(ctx context.Context, req Request, workers int) (Result, error) {
	cfg := resolvedConfig(req)
	logger := resolvedLogger(req)

	if workers <= 0 {
		workers = int(cfg.DefaultWorkers)
	}
	numTrials := req.NumTrials
	if numTrials == 0 {
		numTrials = cfg.DefaultTrials
	}
	if workers > numTrials {
		workers = numTrials
	}
	if workers <= 1 {
		return Run(ctx, req)
	}

	rangeCombos, dead, err := validate(req)
	if err != nil {
		return Result{}, err
	}
	pool := basePool(dead)

	seed := resolveSeed(req.Seed)
	masterRng := rand.New(rand.NewSource(seed))
	workerSeeds := make([]int64, workers)
	workerTrials := make([]int, workers)
	base := numTrials / workers
	remainder := numTrials % workers
	for w := 0; w < workers; w++ {
		workerSeeds[w] = masterRng.Int63()
		workerTrials[w] = base
		if w < remainder {
			workerTrials[w]++
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	workerResults := make([]Result, workers)

	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			workerReq := req
			workerReq.NumTrials = workerTrials[w]
			workerReq.Seed = workerSeeds[w]
			if w != 0 {
				workerReq.ConvergenceInterval = 0
			}
			res, err := runWorker(gctx, workerReq, rangeCombos, dead, pool, int(cfg.MaxTrialRetries), logger)
			if err != nil {
				return err
			}
			workerResults[w] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	merged := Result{Players: make([]PlayerEquity, len(req.Players)), Seed: seed}
	for _, res := range workerResults {
		merged.Trials += res.Trials
		for i := range merged.Players {
			merged.Players[i].Wins += res.Players[i].Wins
			merged.Players[i].Ties += res.Players[i].Ties
			merged.Players[i].EquitySum += res.Players[i].EquitySum
			merged.Players[i].Trials += res.Players[i].Trials
		}
		if len(res.Convergence) > 0 {
			merged.Convergence = res.Convergence
		}
	}

	logger.Debug("equity: parallel run complete", "trials", merged.Trials, "workers", workers)
	return merged, nil
}

func runWorker(ctx context.Context, req Request, rangeCombos [][][2]card.Card, dead map[card.Card]struct{}, pool []card.Card, maxRetries int, logger *log.Logger) (Result, error) {
	rng := rand.New(rand.NewSource(req.Seed))
	players := make([]PlayerEquity, len(req.Players))
	var trace []ConvergencePoint
	start := time.Now()

	trial := 0
	for trial < req.NumTrials {
		select {
		case <-ctx.Done():
			return Result{Players: players, Trials: trial, Convergence: trace}, nil
		default:
		}

		hrs, ok := runWithRetries(req, rangeCombos, dead, pool, rng, maxRetries)
		if !ok {
			logger.Warn("equity: resample exhausted", "retries", maxRetries, "trials", trial)
			return Result{}, fmt.Errorf("equity worker: %w", pokererr.New(pokererr.InvariantViolated, "exhausted %d retries sampling a valid trial", maxRetries))
		}
		accumulate(players, hrs)
		trial++

		if trial%progressBatchSize == 0 {
			logger.Debug("equity: trial batch complete", "trials", trial, "elapsed", time.Since(start))
		}

		if req.ConvergenceInterval > 0 && trial%req.ConvergenceInterval == 0 {
			trace = append(trace, snapshotConvergence(players, trial))
		}
	}
	return Result{Players: players, Trials: trial, Convergence: trace}, nil
}
