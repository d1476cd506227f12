package config

import (
	"github.com/go-playground/validator/v10"

	"workforce-portal/internal/auth"
	"workforce-portal/internal/dashboard"
	"workforce-portal/internal/policy"
	"workforce-portal/internal/repository"
	"workforce-portal/internal/store"
	"workforce-portal/internal/websocket"
)

// Dependencies is everything a handler needs. It is built once in main (or a
// test) and passed down; nothing here is global.
type Dependencies struct {
	Store     store.Store
	Repos     *repository.Repositories
	Policy    *policy.Policy
	Tokens    *auth.Tokens
	Validate  *validator.Validate
	Dashboard *dashboard.Aggregator
	Hub       *websocket.Hub
}

// NewDependencies wires repositories and services on top of s. sealer and hub
// may be nil.
func NewDependencies(s store.Store, tokens *auth.Tokens, sealer repository.Sealer, hub *websocket.Hub) *Dependencies {
	repos := repository.New(s, sealer)
	return &Dependencies{
		Store:     s,
		Repos:     repos,
		Policy:    policy.New(),
		Tokens:    tokens,
		Validate:  NewValidator(),
		Dashboard: dashboard.New(repos.Users, repos.Tasks, repos.Clients),
		Hub:       hub,
	}
}
