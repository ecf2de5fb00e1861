package engine

import (
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

// fakeRuntime records every native call so tests can assert the lifecycle
// contract without the real library.
type fakeRuntime struct {
	mu        sync.Mutex
	inits     int
	frees     int
	numaCodes []int32
	logSets   int
	initErr   error
}

func (f *fakeRuntime) Init() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.initErr != nil {
		return f.initErr
	}
	f.inits++
	return nil
}

func (f *fakeRuntime) InitNuma(code int32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.numaCodes = append(f.numaCodes, code)
}

func (f *fakeRuntime) SetLogCallback(fn func(level zerolog.Level, msg string)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logSets++
}

func (f *fakeRuntime) Free() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frees++
}

func (f *fakeRuntime) counts() (inits, frees int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inits, f.frees
}

// swapRuntime installs a fake native runtime and restores the original (and
// an empty slot) when the test ends. Engine state is process-wide, so tests
// using this must not run in parallel with each other.
func swapRuntime(t *testing.T, rt nativeRuntime) {
	t.Helper()
	state.mu.Lock()
	if state.backend != nil {
		t.Fatalf("engine already initialized at test start (refs=%d)", state.refs)
	}
	state.mu.Unlock()
	old := native
	native = rt
	t.Cleanup(func() {
		state.mu.Lock()
		state.backend = nil
		state.refs = 0
		state.mu.Unlock()
		native = old
	})
}

func TestAcquireInitializesOnceAndFreesOnce(t *testing.T) {
	rt := &fakeRuntime{}
	swapRuntime(t, rt)

	ref, err := Acquire()
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if inits, frees := rt.counts(); inits != 1 || frees != 0 {
		t.Fatalf("after acquire: inits=%d frees=%d", inits, frees)
	}
	if st := Snapshot(); !st.Initialized || st.Refs != 1 {
		t.Fatalf("unexpected snapshot: %+v", st)
	}
	if rt.logSets != 1 {
		t.Fatalf("log callback registered %d times, want 1", rt.logSets)
	}

	if err := ref.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if inits, frees := rt.counts(); inits != 1 || frees != 1 {
		t.Fatalf("after close: inits=%d frees=%d", inits, frees)
	}
	if st := Snapshot(); st.Initialized || st.Refs != 0 {
		t.Fatalf("slot not empty after last release: %+v", st)
	}
}

func TestAcquireUsesDefaultNumaStrategy(t *testing.T) {
	rt := &fakeRuntime{}
	swapRuntime(t, rt)

	ref, err := Acquire()
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer ref.Close()
	if len(rt.numaCodes) != 1 || rt.numaCodes[0] != NumaDistribute.Native() {
		t.Fatalf("numa codes=%v, want one %d", rt.numaCodes, NumaDistribute.Native())
	}
}

func TestWarmAcquireIgnoresStrategy(t *testing.T) {
	rt := &fakeRuntime{}
	swapRuntime(t, rt)

	a, err := AcquireWithNuma(NumaIsolate)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer a.Close()
	b, err := AcquireWithNuma(NumaMirror)
	if err != nil {
		t.Fatalf("warm acquire: %v", err)
	}
	defer b.Close()

	// Strategy is consumed on the cold path only.
	if len(rt.numaCodes) != 1 || rt.numaCodes[0] != NumaIsolate.Native() {
		t.Fatalf("numa codes=%v, want one %d", rt.numaCodes, NumaIsolate.Native())
	}
	if st := Snapshot(); st.Refs != 2 || st.NumaStrategy != NumaIsolate {
		t.Fatalf("unexpected snapshot: %+v", st)
	}
	if inits, _ := rt.counts(); inits != 1 {
		t.Fatalf("warm acquire re-initialized: inits=%d", inits)
	}
}

func TestCloneIncrementsAndNeverTearsDown(t *testing.T) {
	rt := &fakeRuntime{}
	swapRuntime(t, rt)

	ref, err := Acquire()
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	clone := ref.Clone()
	if st := Snapshot(); st.Refs != 2 {
		t.Fatalf("refs=%d after clone, want 2", st.Refs)
	}

	// Dropping the original leaves the engine live through the clone.
	if err := ref.Close(); err != nil {
		t.Fatalf("close original: %v", err)
	}
	if inits, frees := rt.counts(); inits != 1 || frees != 0 {
		t.Fatalf("engine torn down while clone alive: inits=%d frees=%d", inits, frees)
	}
	if st := Snapshot(); !st.Initialized || st.Refs != 1 {
		t.Fatalf("unexpected snapshot: %+v", st)
	}

	if err := clone.Close(); err != nil {
		t.Fatalf("close clone: %v", err)
	}
	if inits, frees := rt.counts(); inits != 1 || frees != 1 {
		t.Fatalf("after closing clone: inits=%d frees=%d", inits, frees)
	}
}

func TestCloseIsIdempotentPerHandle(t *testing.T) {
	rt := &fakeRuntime{}
	swapRuntime(t, rt)

	a, _ := Acquire()
	b := a.Clone()
	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	// Second close of the same handle must not decrement again.
	if err := a.Close(); err != nil {
		t.Fatalf("double close: %v", err)
	}
	if st := Snapshot(); !st.Initialized || st.Refs != 1 {
		t.Fatalf("double close decremented twice: %+v", st)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("close b: %v", err)
	}
	if _, frees := rt.counts(); frees != 1 {
		t.Fatalf("frees=%d, want 1", frees)
	}
}

func TestConcurrentAcquireInitializesOnce(t *testing.T) {
	rt := &fakeRuntime{}
	swapRuntime(t, rt)

	const n = 32
	refs := make([]*Ref, n)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			r, err := Acquire()
			if err != nil {
				t.Errorf("acquire %d: %v", i, err)
				return
			}
			refs[i] = r
		}(i)
	}
	close(start)
	wg.Wait()

	if inits, frees := rt.counts(); inits != 1 || frees != 0 {
		t.Fatalf("inits=%d frees=%d after %d concurrent acquires", inits, frees, n)
	}
	if st := Snapshot(); st.Refs != n {
		t.Fatalf("refs=%d, want %d", st.Refs, n)
	}

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := refs[i].Close(); err != nil {
				t.Errorf("close %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	if inits, frees := rt.counts(); inits != 1 || frees != 1 {
		t.Fatalf("inits=%d frees=%d after releasing all", inits, frees)
	}
	if st := Snapshot(); st.Initialized {
		t.Fatalf("slot not empty after releasing all handles")
	}
}

func TestAcquireReleaseChurn(t *testing.T) {
	rt := &fakeRuntime{}
	swapRuntime(t, rt)

	// Interleaved acquire/clone/close across goroutines. Regardless of the
	// schedule, every init must be paired with exactly one free and the slot
	// must end empty.
	const workers = 8
	const iters = 200
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iters; i++ {
				r, err := Acquire()
				if err != nil {
					t.Errorf("acquire: %v", err)
					return
				}
				c := r.Clone()
				if err := r.Close(); err != nil {
					t.Errorf("close: %v", err)
				}
				if err := c.Close(); err != nil {
					t.Errorf("close clone: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	inits, frees := rt.counts()
	if inits != frees {
		t.Fatalf("unbalanced lifecycle: inits=%d frees=%d", inits, frees)
	}
	if inits < 1 {
		t.Fatalf("engine never initialized")
	}
	if st := Snapshot(); st.Initialized || st.Refs != 0 {
		t.Fatalf("slot not empty after churn: %+v", st)
	}
}

func TestReleaseOnEmptySlotReportsError(t *testing.T) {
	rt := &fakeRuntime{}
	swapRuntime(t, rt)

	// Bypass the per-handle guard: a raw release against an empty slot is
	// the invariant violation the error path exists for.
	if err := release(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("release on empty slot: err=%v, want ErrNotInitialized", err)
	}
	if st := Snapshot(); st.Initialized || st.Refs != 0 {
		t.Fatalf("release on empty slot mutated state: %+v", st)
	}
	if inits, frees := rt.counts(); inits != 0 || frees != 0 {
		t.Fatalf("release on empty slot touched native layer: inits=%d frees=%d", inits, frees)
	}
}

func TestCloneAfterEngineFreedReturnsInertHandle(t *testing.T) {
	rt := &fakeRuntime{}
	swapRuntime(t, rt)

	ref, _ := Acquire()
	if err := ref.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	c := ref.Clone()
	if inits, _ := rt.counts(); inits != 1 {
		t.Fatalf("clone of released handle re-initialized the engine")
	}
	if st := Snapshot(); st.Initialized {
		t.Fatalf("clone of released handle revived the slot: %+v", st)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("closing inert handle: %v", err)
	}
}

func TestInitErrorLeavesSlotEmpty(t *testing.T) {
	boom := errors.New("boom")
	rt := &fakeRuntime{initErr: boom}
	swapRuntime(t, rt)

	if _, err := Acquire(); !errors.Is(err, boom) {
		t.Fatalf("acquire err=%v, want wrapped %v", err, boom)
	}
	if st := Snapshot(); st.Initialized || st.Refs != 0 {
		t.Fatalf("failed init left state behind: %+v", st)
	}

	// A later acquire against a working runtime succeeds.
	rt.mu.Lock()
	rt.initErr = nil
	rt.mu.Unlock()
	ref, err := Acquire()
	if err != nil {
		t.Fatalf("acquire after failed init: %v", err)
	}
	if err := ref.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
