package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/shuldan/joinery"
	"github.com/shuldan/joinery/internal/config"
)

func fatal(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	os.Exit(1)
}

// Action is the state used while processing a command.
type Action struct {
	cmd *cobra.Command
	cfg *config.Config
}

func newAction(cmd *cobra.Command) *Action {
	return &Action{cmd: cmd}
}

func (a *Action) Context() context.Context {
	return a.cmd.Context()
}

func (a *Action) getString(name string) string {
	result, _ := a.cmd.Flags().GetString(name)
	return result
}

func (a *Action) getStringArray(name string) []string {
	result, _ := a.cmd.Flags().GetStringArray(name)
	return result
}

// Config loads the config file once; flags win over file and environment.
func (a *Action) Config() *config.Config {
	if a.cfg != nil {
		return a.cfg
	}
	cfg, err := config.Load(a.getString("config"))
	if err != nil {
		fatal("%s", err)
	}
	if driver := a.getString("driver"); driver != "" {
		cfg.Database.Driver = driver
	}
	if dsn := a.getString("dsn"); dsn != "" {
		cfg.Database.DSN = dsn
	}
	if err := cfg.Validate(); err != nil {
		fatal("%s", err)
	}
	a.cfg = &cfg
	return a.cfg
}

func (a *Action) Mapping(fname string) joinery.Mapping {
	def, err := joinery.LoadDefinition(fname)
	if err != nil {
		fatal("%s", err)
	}
	m, err := def.Mapping()
	if err != nil {
		fatal("%s: %s", fname, err)
	}
	return m
}

func (a *Action) Print(v any) {
	enc := json.NewEncoder(os.Stdout)
	if a.Config().Output.Indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		fatal("%s", err)
	}
}

func listQuantities(cmd *cobra.Command, args []string) {
	for _, q := range joinery.Quantities() {
		fmt.Println(q)
	}
}

func validateDefinition(cmd *cobra.Command, args []string) {
	action := newAction(cmd)
	m := action.Mapping(args[0])
	fmt.Printf("%s: %d sources\n", args[0], len(m.Sources))
	fmt.Println(m.Shape)
}

func runQuery(cmd *cobra.Command, args []string) {
	action := newAction(cmd)
	m := action.Mapping(args[0])
	query, err := os.ReadFile(args[1])
	if err != nil {
		fatal("%s", err)
	}

	var queryArgs []any
	for _, arg := range action.getStringArray("arg") {
		queryArgs = append(queryArgs, arg)
	}

	v, err := action.load(m, strings.TrimSpace(string(query)), queryArgs)
	if err != nil {
		if joinery.IsNotFound(err) {
			log.Printf("no rows for %s", m.Shape.Type)
		}
		fatal("%s", err)
	}
	action.Print(v)
}

func (a *Action) load(m joinery.Mapping, query string, args []any) (any, error) {
	cfg := a.Config()
	if cfg.Database.DSN == "" {
		return nil, errors.New("no database dsn: set database.dsn, JOINERY_DATABASE_DSN or --dsn")
	}

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := sqlx.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, errors.Wrap(err, "open database")
		}
		defer db.Close()
		repo, err := joinery.New[any](db, m)
		if err != nil {
			return nil, err
		}
		return repo.Load(a.Context(), query, args...)

	default:
		pool, err := pgxpool.New(a.Context(), cfg.Database.DSN)
		if err != nil {
			return nil, errors.Wrap(err, "connect")
		}
		defer pool.Close()
		repo, err := joinery.NewPgx[any](pool, m)
		if err != nil {
			return nil, err
		}
		return repo.Load(a.Context(), query, args...)
	}
}
