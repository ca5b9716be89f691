package combat

import (
	"errors"
	"testing"
)

func TestEntityVitalsClamping(t *testing.T) {
	auth := ServerAuthority()
	e := NewEntity("Alice", RolePlayer, 20, 3, nil)

	if e.Health() != 20 || e.Energy() != 0 {
		t.Fatalf("expected fresh entity at 20 health / 0 energy, got %d/%d", e.Health(), e.Energy())
	}

	defeated, err := e.TakeDamage(auth, 25)
	if err != nil {
		t.Fatalf("TakeDamage failed: %v", err)
	}
	if !defeated {
		t.Fatal("expected entity to be defeated")
	}
	if e.Health() != 0 {
		t.Fatalf("expected health clamped to 0, got %d", e.Health())
	}

	if err := e.Heal(auth, 100); err != nil {
		t.Fatalf("Heal failed: %v", err)
	}
	if e.Health() != 20 {
		t.Fatalf("expected heal clamped to max 20, got %d", e.Health())
	}

	if err := e.ChangeEnergy(auth, 10); err != nil {
		t.Fatalf("ChangeEnergy failed: %v", err)
	}
	if e.Energy() != 3 {
		t.Fatalf("expected energy clamped to max 3, got %d", e.Energy())
	}

	if err := e.ChangeEnergy(auth, -10); err != nil {
		t.Fatalf("ChangeEnergy failed: %v", err)
	}
	if e.Energy() != 0 {
		t.Fatalf("expected energy clamped to 0, got %d", e.Energy())
	}

	if err := e.ReplenishEnergy(auth); err != nil {
		t.Fatalf("ReplenishEnergy failed: %v", err)
	}
	if e.Energy() != 3 {
		t.Fatalf("expected energy replenished to 3, got %d", e.Energy())
	}
}

func TestEntityMutationRequiresAuthority(t *testing.T) {
	e := NewEntity("Alice", RolePlayer, 20, 3, nil)

	var noAuth Authority
	if _, err := e.TakeDamage(noAuth, 5); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized from TakeDamage, got %v", err)
	}
	if err := e.Heal(noAuth, 5); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized from Heal, got %v", err)
	}
	if err := e.ChangeEnergy(noAuth, 1); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized from ChangeEnergy, got %v", err)
	}
	if err := e.ReplenishEnergy(noAuth); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized from ReplenishEnergy, got %v", err)
	}
	if err := e.SetStatus(noAuth, StatusArmor, 2); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized from SetStatus, got %v", err)
	}

	if e.Health() != 20 {
		t.Fatalf("unauthorized mutation changed health to %d", e.Health())
	}
}

func TestEntityStatusReplacePolicy(t *testing.T) {
	auth := ServerAuthority()
	e := NewEntity("Alice", RolePlayer, 20, 3, nil)

	if err := e.SetStatus(auth, StatusStrength, 2); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if err := e.SetStatus(auth, StatusStrength, 5); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if got := e.StatusPotency(StatusStrength); got != 5 {
		t.Fatalf("expected same-name status to replace potency, got %d", got)
	}

	if err := e.SetStatus(auth, StatusStrength, 0); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if got := e.StatusPotency(StatusStrength); got != 0 {
		t.Fatalf("expected zero potency to clear status, got %d", got)
	}
}

func TestEntityDefeatedAtZero(t *testing.T) {
	auth := ServerAuthority()
	e := NewEntity("Bob", RoleOpponent, 5, 3, nil)

	defeated, err := e.TakeDamage(auth, 5)
	if err != nil {
		t.Fatalf("TakeDamage failed: %v", err)
	}
	if !defeated || !e.Defeated() {
		t.Fatal("expected entity defeated at exactly 0 health")
	}
}
