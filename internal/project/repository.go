package project

import (
	"database/sql"
	"time"

	"agenda_tui/internal/runlog"

	_ "modernc.org/sqlite"
)

// Repository is a sqlite-backed Store. It also records run history.
type Repository struct {
	db *sql.DB
}

func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	repo := &Repository{db: db}
	if err := repo.init(); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

func (r *Repository) init() error {
	projectsQuery := `
	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		duration INTEGER NOT NULL,
		position INTEGER NOT NULL
	)
	`
	if _, err := r.db.Exec(projectsQuery); err != nil {
		return err
	}

	runLogsQuery := `
	CREATE TABLE IF NOT EXISTS run_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id TEXT NOT NULL,
		project_name TEXT NOT NULL,
		started_at TEXT NOT NULL,
		ended_at TEXT NOT NULL,
		planned INTEGER NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0
	)
	`
	_, err := r.db.Exec(runLogsQuery)
	return err
}

// LoadProjects returns all saved projects in insertion order.
func (r *Repository) LoadProjects() ([]Project, error) {
	rows, err := r.db.Query("SELECT id, name, duration FROM projects ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		var duration int64
		if err := rows.Scan(&p.ID, &p.Name, &duration); err != nil {
			return nil, err
		}
		p.Duration = time.Duration(duration)
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *Repository) SaveProject(p Project) error {
	_, err := r.db.Exec(
		"INSERT INTO projects (id, name, duration, position) VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM projects))",
		p.ID, p.Name, int64(p.Duration),
	)
	return err
}

func (r *Repository) UpdateProject(p Project) error {
	_, err := r.db.Exec(
		"UPDATE projects SET name = ?, duration = ? WHERE id = ?",
		p.Name, int64(p.Duration), p.ID,
	)
	return err
}

func (r *Repository) DeleteProject(id string) error {
	_, err := r.db.Exec("DELETE FROM projects WHERE id = ?", id)
	return err
}

// CreateRunLog records one traversed project of a run and fills in the log id.
func (r *Repository) CreateRunLog(log *runlog.RunLog) error {
	completed := 0
	if log.Completed {
		completed = 1
	}
	result, err := r.db.Exec(
		"INSERT INTO run_logs (project_id, project_name, started_at, ended_at, planned, completed) VALUES (?, ?, ?, ?, ?, ?)",
		log.ProjectID,
		log.ProjectName,
		log.StartedAt.Format(time.RFC3339),
		log.EndedAt.Format(time.RFC3339),
		int64(log.Planned),
		completed,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	log.ID = id
	return nil
}

// RunLogs returns recorded run history, most recent first.
func (r *Repository) RunLogs() ([]runlog.RunLog, error) {
	rows, err := r.db.Query(
		"SELECT id, project_id, project_name, started_at, ended_at, planned, completed FROM run_logs ORDER BY ended_at DESC, id DESC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []runlog.RunLog
	for rows.Next() {
		var l runlog.RunLog
		var startedAt, endedAt string
		var planned int64
		var completed int
		if err := rows.Scan(&l.ID, &l.ProjectID, &l.ProjectName, &startedAt, &endedAt, &planned, &completed); err != nil {
			return nil, err
		}
		l.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
		l.EndedAt, _ = time.Parse(time.RFC3339, endedAt)
		l.Planned = time.Duration(planned)
		l.Completed = completed == 1
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (r *Repository) Close() error {
	return r.db.Close()
}
