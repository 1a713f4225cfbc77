package main

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"

	"github.com/saeid-a/FitProBack/internal/logging"
)

func main() {
	logging.Setup(os.Getenv("LOG_LEVEL"), "development")

	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found")
	}

	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		fatal("DB_URL environment variable is required", nil)
	}

	dir, err := findMigrationsDir()
	if err != nil {
		fatal("locate migrations", err)
	}

	m, err := migrate.New("file://"+filepath.ToSlash(dir), dbURL)
	if err != nil {
		fatal("open migrations", err)
	}
	defer m.Close()

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "up":
		err = m.Up()
	case "down":
		err = m.Steps(-1)
	case "reset":
		err = m.Down()
	case "force":
		if len(os.Args) < 3 {
			fatal("usage: migrate force <version>", nil)
		}
		version, convErr := strconv.Atoi(os.Args[2])
		if convErr != nil {
			fatal("invalid version", convErr)
		}
		err = m.Force(version)
	case "version":
		version, dirty, vErr := m.Version()
		if vErr != nil && !errors.Is(vErr, migrate.ErrNilVersion) {
			fatal("read version", vErr)
		}
		slog.Info("schema version", "version", version, "dirty", dirty)
		return
	default:
		fatal("unknown command "+cmd+" (use up, down, reset, force, version)", nil)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		fatal("migration "+cmd+" failed", err)
	}
	slog.Info("migration finished", "command", cmd, "dir", dir)
}

// findMigrationsDir looks upwards from the working directory and next to the binary.
func findMigrationsDir() (string, error) {
	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		current := cwd
		for i := 0; i < 6; i++ {
			candidates = append(candidates, filepath.Join(current, "migrations"))
			parent := filepath.Dir(current)
			if parent == current {
				break
			}
			current = parent
		}
	}
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		candidates = append(candidates,
			filepath.Join(exeDir, "migrations"),
			filepath.Join(exeDir, "..", "migrations"),
		)
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return filepath.Abs(candidate)
		}
	}
	return "", errors.New("migrations directory not found")
}

func fatal(msg string, err error) {
	if err != nil {
		slog.Error(msg, "error", err)
	} else {
		slog.Error(msg)
	}
	os.Exit(1)
}
