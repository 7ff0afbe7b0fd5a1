package sqlite

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/hoshinonyaruko/snake-canvas/structs"
	_ "github.com/mattn/go-sqlite3"
)

// MemoryDSN keeps the ledger for the lifetime of the process only.
const MemoryDSN = ":memory:"

const createRoundsTableSQL = `
CREATE TABLE IF NOT EXISTS Rounds (
    RoundID TEXT PRIMARY KEY,
    Score INTEGER,
    Length INTEGER,
    Ticks INTEGER,
    Cause TEXT,
    EndedAt INTEGER
);
`

const createRoundsIndexSQL = `
CREATE INDEX IF NOT EXISTS idx_rounds_score ON Rounds (Score);
`

func executeSQL(db *sql.DB, sqlStatement string) error {
	_, err := db.Exec(sqlStatement)
	if err != nil {
		return fmt.Errorf("executing SQL statement %q: %w", sqlStatement, err)
	}
	return nil
}

// Open opens the ledger and creates its tables.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	// 内存数据库每个连接独立，只保留一个连接
	db.SetMaxOpenConns(1)
	if err := InitializeDatabase(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func InitializeDatabase(db *sql.DB) error {
	for _, stmt := range []string{createRoundsTableSQL, createRoundsIndexSQL} {
		if err := executeSQL(db, stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRound stores one finished round, assigning an ID when it has none.
func InsertRound(db *sql.DB, round *structs.Round) error {
	if round.ID == "" {
		round.ID = uuid.NewString()
	}
	// 开启事务
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	_, err = tx.Exec("INSERT INTO Rounds (RoundID, Score, Length, Ticks, Cause, EndedAt) VALUES (?, ?, ?, ?, ?, ?)",
		round.ID, round.Score, round.Length, round.Ticks, string(round.Cause), round.EndedAt)
	if err != nil {
		tx.Rollback()
		return err
	}
	// 提交事务
	return tx.Commit()
}

// RecentRounds returns up to limit rounds, newest first.
func RecentRounds(db *sql.DB, limit int) ([]structs.Round, error) {
	rows, err := db.Query("SELECT RoundID, Score, Length, Ticks, Cause, EndedAt FROM Rounds ORDER BY EndedAt DESC, rowid DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rounds := []structs.Round{}
	for rows.Next() {
		var r structs.Round
		var cause string
		if err := rows.Scan(&r.ID, &r.Score, &r.Length, &r.Ticks, &cause, &r.EndedAt); err != nil {
			return nil, err
		}
		r.Cause = structs.Cause(cause)
		rounds = append(rounds, r)
	}
	return rounds, rows.Err()
}

// BestScore returns the highest recorded score, 0 when empty.
func BestScore(db *sql.DB) (int, error) {
	var best sql.NullInt64
	if err := db.QueryRow("SELECT MAX(Score) FROM Rounds").Scan(&best); err != nil {
		return 0, err
	}
	return int(best.Int64), nil
}

// Ledger records every round that ends in a collision. It implements loop.Observer.
type Ledger struct {
	DB  *sql.DB
	Now func() time.Time
}

// Observe stores the round carried by a collision outcome.
func (l *Ledger) Observe(_ structs.Snapshot, out structs.Outcome) {
	if !out.Collided {
		return
	}
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	round := structs.Round{
		Score:   out.FinalScore,
		Length:  out.FinalLength,
		Ticks:   out.FinalTicks,
		Cause:   out.Cause,
		EndedAt: now().Unix(),
	}
	if err := InsertRound(l.DB, &round); err != nil {
		log.Printf("ledger: %v", err)
	}
}
