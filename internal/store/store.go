package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/aerolens/tagtracker/internal/tags"
)

// Store keeps a queryable history of published tag poses in SQLite.
type Store struct {
	db *sql.DB
}

// Open creates or opens the detection log at path and applies the
// schema. WAL keeps the tracker's inserts from blocking readers.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open detection log: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %s: %w", pragma, err)
		}
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS tag_poses (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			tag_id      INTEGER NOT NULL,
			hamming     INTEGER NOT NULL,
			distance_m  DOUBLE NOT NULL,
			x           DOUBLE NOT NULL,
			y           DOUBLE NOT NULL,
			z           DOUBLE NOT NULL,
			yaw         DOUBLE NOT NULL,
			pitch       DOUBLE NOT NULL,
			roll        DOUBLE NOT NULL,
			frame_seq   BIGINT NOT NULL,
			time        TEXT NOT NULL,
			timestamp   TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_tag_poses_tag_id ON tag_poses(tag_id);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// LogPose appends one published pose to the history.
func (s *Store) LogPose(p tags.TagPose) error {
	_, err := s.db.Exec(`
		INSERT INTO tag_poses
			(tag_id, hamming, distance_m, x, y, z, yaw, pitch, roll, frame_seq, time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Hamming, p.Distance, p.X, p.Y, p.Z, p.Yaw, p.Pitch, p.Roll, p.Seq, p.Time,
	)
	if err != nil {
		return fmt.Errorf("insert tag pose: %w", err)
	}
	return nil
}

// Recent returns the n most recently logged poses, newest first.
func (s *Store) Recent(n int) ([]tags.TagPose, error) {
	rows, err := s.db.Query(`
		SELECT tag_id, hamming, distance_m, x, y, z, yaw, pitch, roll, frame_seq, time
		FROM tag_poses ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query tag poses: %w", err)
	}
	defer rows.Close()

	var out []tags.TagPose
	for rows.Next() {
		var p tags.TagPose
		if err := rows.Scan(&p.ID, &p.Hamming, &p.Distance, &p.X, &p.Y, &p.Z,
			&p.Yaw, &p.Pitch, &p.Roll, &p.Seq, &p.Time); err != nil {
			return nil, fmt.Errorf("scan tag pose: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
