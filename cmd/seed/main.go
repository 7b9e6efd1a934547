package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"user-registry/config"
	"user-registry/internal/domain/entity"
	"user-registry/internal/domain/repository"
	"user-registry/internal/domain/valueobject"
	pginfra "user-registry/internal/infrastructure/postgres"
)

var sampleUsers = []struct {
	fullName string
	email    string
}{
	{"Ana Souza", "ana.souza@example.com"},
	{"Bruno Lima", "bruno.lima@example.com"},
	{"Carla Mendes", "carla.mendes@example.com"},
}

func main() {
	reset := flag.Bool("reset", false, "remove previously seeded users instead of inserting them")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	repo := pginfra.NewUserRepository(pool)

	if *reset {
		removeSeeded(repo)
		return
	}

	for _, s := range sampleUsers {
		email, err := valueobject.NewEmail(s.email)
		if err != nil {
			log.Fatalf("bad sample email %q: %v", s.email, err)
		}
		if existing, err := repo.GetByEmail(email.Address()); err == nil && existing != nil {
			fmt.Printf("skipped (exists): id=%d email=%s\n", existing.ID, email.Address())
			continue
		} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
			log.Fatalf("lookup failed for %s: %v", email.Address(), err)
		}

		u := entity.NewUser(s.fullName, email)
		id, err := repo.Add(u)
		if err != nil {
			log.Fatalf("failed to seed %s: %v", email.Address(), err)
		}
		fmt.Printf("seeded user: id=%d fullName=%q email=%s\n", id, s.fullName, email.Address())
	}
}

// removeSeeded physically deletes the sample rows through the
// repository's Delete capability.
func removeSeeded(repo *pginfra.UserRepository) {
	for _, s := range sampleUsers {
		u, err := repo.GetByEmail(s.email)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			log.Fatalf("lookup failed for %s: %v", s.email, err)
		}
		if err := repo.Delete(u); err != nil {
			log.Fatalf("failed to remove %s: %v", s.email, err)
		}
		fmt.Printf("removed seeded user: id=%d email=%s\n", u.ID, s.email)
	}
}
