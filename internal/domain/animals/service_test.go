package animals_test

import (
	"context"
	"errors"
	"testing"

	"pawtrol-ai/internal/adapters/storage/memory"
	"pawtrol-ai/internal/domain/animals"
)

func TestRegister_Defaults(t *testing.T) {
	svc := animals.NewService(memory.NewAnimalsRepo())
	ctx := context.Background()

	a, err := svc.Register(ctx, animals.RegisterInput{Name: "  Milo ", Type: "dog", Age: 3})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if a.ID == "" {
		t.Fatal("register must assign an id")
	}
	if a.Name != "Milo" {
		t.Fatalf("name must be trimmed, got %q", a.Name)
	}
	if a.LastActivity != animals.LastActivityNone {
		t.Fatalf("new animal must start with placeholder activity, got %q", a.LastActivity)
	}

	got, err := svc.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got.Name != "Milo" || got.Type != "dog" || got.Age != 3 {
		t.Fatalf("stored animal mismatch: %+v", got)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc := animals.NewService(memory.NewAnimalsRepo())
	ctx := context.Background()

	cases := []animals.RegisterInput{
		{Name: "", Type: "dog", Age: 1},
		{Name: "   ", Type: "dog", Age: 1},
		{Name: "Milo", Type: "", Age: 1},
		{Name: "Milo", Type: "dog", Age: -1},
	}
	for i, in := range cases {
		if _, err := svc.Register(ctx, in); !errors.Is(err, animals.ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestTouchActivity(t *testing.T) {
	svc := animals.NewService(memory.NewAnimalsRepo())
	ctx := context.Background()

	a, err := svc.Register(ctx, animals.RegisterInput{Name: "Milo", Type: "dog", Age: 3})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.TouchActivity(ctx, a.ID, "running"); err != nil {
		t.Fatalf("touch activity: %v", err)
	}

	got, err := svc.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got.LastActivity != "running" {
		t.Fatalf("expected lastActivity running, got %q", got.LastActivity)
	}

	if err := svc.TouchActivity(ctx, a.ID, "  "); !errors.Is(err, animals.ErrInvalidInput) {
		t.Fatalf("blank activity must be rejected, got %v", err)
	}
	if err := svc.TouchActivity(ctx, "nope", "running"); err == nil {
		t.Fatal("unknown animal must fail")
	}
}
