//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"flex_reviews/internal/domain"
	mysqlrepo "flex_reviews/internal/storage/mysql"
)

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func TestRepo_MySQL_SetAndGetStatuses(t *testing.T) {
	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=flexrev",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "flexrev")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)

	repo := mysqlrepo.New(db)
	ctx := context.Background()

	// No rows yet: map must come back empty, not error.
	m, err := repo.GetStatuses(ctx, []string{"7453", "7454"})
	if err != nil {
		t.Fatalf("GetStatuses: %v", err)
	}
	if len(m) != 0 {
		t.Fatalf("expected empty map, got %v", m)
	}

	if err := repo.SetStatus(ctx, "7453", domain.StatusApproved); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	// Upsert: flipping the same id must not error and must win.
	if err := repo.SetStatus(ctx, "7453", domain.StatusPending); err != nil {
		t.Fatalf("SetStatus again: %v", err)
	}
	if err := repo.SetStatus(ctx, "7453", domain.StatusApproved); err != nil {
		t.Fatalf("SetStatus third: %v", err)
	}
	if err := repo.SetStatus(ctx, "7455", domain.StatusPending); err != nil {
		t.Fatalf("SetStatus other id: %v", err)
	}

	m, err = repo.GetStatuses(ctx, []string{"7453", "7454", "7455"})
	if err != nil {
		t.Fatalf("GetStatuses: %v", err)
	}
	if m["7453"] != domain.StatusApproved {
		t.Fatalf("7453: want approved, got %q", m["7453"])
	}
	if _, ok := m["7454"]; ok {
		t.Fatalf("7454 should be absent (no overlay row)")
	}
	if m["7455"] != domain.StatusPending {
		t.Fatalf("7455: want pending, got %q", m["7455"])
	}

	// Empty batch short-circuits without touching the DB.
	m, err = repo.GetStatuses(ctx, nil)
	if err != nil || len(m) != 0 {
		t.Fatalf("empty batch: m=%v err=%v", m, err)
	}
}
