package state

import (
	"context"
	stderrors "errors"
	"slices"
	"strings"
	"testing"

	"github.com/go-drift/statekit/pkg/errors"
	"github.com/go-drift/statekit/pkg/persist"
)

func TestRegistry_GeneratesNames(t *testing.T) {
	reg := NewRegistry()
	a := Inject(reg, 0)
	b := Inject(reg, 0, WithName("b"))

	if !strings.HasPrefix(a.Name(), "injected-") {
		t.Errorf("generated name = %q", a.Name())
	}
	if b.Name() != "b" {
		t.Errorf("Name() = %q, want b", b.Name())
	}
	if !slices.Equal(reg.Names(), []string{a.Name(), "b"}) {
		t.Errorf("Names() = %v", reg.Names())
	}
}

func TestRegistry_DuplicateNamePanics(t *testing.T) {
	reg := NewRegistry()
	Inject(reg, 0, WithName("dup"))

	defer func() {
		if _, ok := recover().(*errors.ConfigError); !ok {
			t.Error("duplicate name should panic with ConfigError")
		}
	}()
	Inject(reg, 1, WithName("dup"))
}

func TestRegistry_DisposeAll(t *testing.T) {
	reg := NewRegistry()
	a := Inject(reg, 1)
	b := Inject(reg, 2)
	_ = a.Value()
	_ = b.Value()

	reg.DisposeAll()
	if a.IsActive() || b.IsActive() {
		t.Error("DisposeAll left containers active")
	}
}

func TestRegistry_HydrateAll(t *testing.T) {
	reg := NewRegistry()
	store := persist.NewCoalescing(persist.NewMemoryStore())
	ctx := context.Background()
	_ = store.Set(ctx, "a", "10")

	a := Inject(reg, 0).Persist(Persistence[int]{Store: store, Key: "a", Codec: persist.JSONCodec[int]{}})
	b := Inject(reg, 5).Persist(Persistence[int]{Store: store, Key: "b", Codec: persist.JSONCodec[int]{}})
	plain := Inject(reg, 0)

	if err := reg.HydrateAll(ctx); err != nil {
		t.Fatalf("HydrateAll() = %v", err)
	}
	if !a.IsActive() || !b.IsActive() {
		t.Fatal("persisted containers should be active after HydrateAll")
	}
	if plain.IsActive() {
		t.Error("non-persisted container should stay lazy")
	}
	if a.Value() != 10 {
		t.Errorf("a = %d, want 10", a.Value())
	}
	if token, _, _ := store.Get(ctx, "b"); token != "5" {
		t.Errorf("b token = %q, want default written", token)
	}
}

type failingStore struct {
	persist.Store
}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, stderrors.New("disk unavailable")
}

func TestRegistry_HydrateAllReportsReadError(t *testing.T) {
	quietErrors(t)
	reg := NewRegistry()
	v := Inject(reg, 1).Persist(Persistence[int]{Store: failingStore{persist.NewMemoryStore()}, Key: "k", Codec: persist.JSONCodec[int]{}})

	if err := reg.HydrateAll(context.Background()); err == nil {
		t.Fatal("expected read error")
	}
	if v.IsActive() {
		t.Error("container with a failed read should stay lazy")
	}
	if v.Value() != 1 {
		t.Errorf("lazy hydration fallback Value() = %d", v.Value())
	}
}
