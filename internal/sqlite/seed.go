// This file implements fake data seeding for trying the tracker out and for
// load testing the scheduler against a large topic table.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/mesh-intelligence/tlog/pkg/types"
)

// SeedOptions controls how much fake data Seed generates.
type SeedOptions struct {
	Topics      int    // Number of topics to create.
	MaxNotes    int    // Each topic gets 1..MaxNotes notes.
	MaxProblems int    // Each topic gets 1..MaxProblems problems.
	Seed        uint64 // Faker seed; 0 picks a random one.
}

// DefaultSeedOptions mirrors the shape of a busy real database.
func DefaultSeedOptions() SeedOptions {
	return SeedOptions{Topics: 100, MaxNotes: 10, MaxProblems: 3}
}

// SeedStats reports the rows Seed inserted.
type SeedStats struct {
	Topics   int `json:"topics"`
	Notes    int `json:"notes"`
	Problems int `json:"problems"`
}

// Seed fills the store with fake topics, each carrying notes and problems.
// Titles and statements stay unique against rows already present. All rows
// are inserted in one transaction.
func (b *Backend) Seed(opts SeedOptions) (SeedStats, error) {
	var stats SeedStats
	if opts.Topics <= 0 {
		return stats, nil
	}
	if opts.MaxNotes < 1 {
		opts.MaxNotes = 1
	}
	if opts.MaxProblems < 1 {
		opts.MaxProblems = 1
	}

	faker := gofakeit.New(opts.Seed)

	err := b.write(func() error {
		return b.inTx("seed", func(tx *sql.Tx) error {
			for i := 0; i < opts.Topics; i++ {
				title, err := uniqueText(tx, "SELECT 1 FROM topics WHERE topic = ?", func() string {
					return faker.Sentence(3)
				})
				if err != nil {
					return err
				}

				starts := types.NewTimeOfDay(faker.Hour(), faker.Minute(), 0)
				span := types.TimeOfDay(faker.IntRange(20, 180) * 60)
				ends := (starts + span) % types.SecondsPerDay

				res, err := tx.Exec(
					"INSERT INTO topics (timestamp, topic, starts, ends, enabled) VALUES (?, ?, ?, ?, ?)",
					faker.PastDate().Format(types.TimestampLayout), title,
					starts.String(), ends.String(), boolToInt(faker.Bool()),
				)
				if err != nil {
					return types.Persistence("seed topic", err)
				}
				topicID, err := res.LastInsertId()
				if err != nil {
					return types.Persistence("seed topic", err)
				}
				stats.Topics++

				for n := faker.IntRange(1, opts.MaxNotes); n > 0; n-- {
					if _, err := tx.Exec(
						"INSERT INTO notes (timestamp, topic_id, note) VALUES (?, ?, ?)",
						faker.PastDate().Format(types.TimestampLayout), topicID, faker.Sentence(30),
					); err != nil {
						return types.Persistence("seed note", err)
					}
					stats.Notes++
				}

				for n := faker.IntRange(1, opts.MaxProblems); n > 0; n-- {
					statement, err := uniqueText(tx, "SELECT 1 FROM problems WHERE problem = ?", func() string {
						return faker.Question()
					})
					if err != nil {
						return err
					}
					if _, err := tx.Exec(
						"INSERT INTO problems (timestamp, problem, topic_id) VALUES (?, ?, ?)",
						faker.PastDate().Format(types.TimestampLayout), statement, topicID,
					); err != nil {
						return types.Persistence("seed problem", err)
					}
					stats.Problems++
				}
			}
			return nil
		})
	})
	if err != nil {
		return SeedStats{}, err
	}
	return stats, nil
}

// uniqueText draws from gen until the value is absent according to query.
// After a handful of collisions it suffixes a counter.
func uniqueText(tx *sql.Tx, query string, gen func() string) (string, error) {
	const attempts = 8
	var candidate string
	for i := 0; ; i++ {
		candidate = gen()
		if i >= attempts {
			candidate = fmt.Sprintf("%s (%d)", candidate, i)
		}
		var one int
		err := tx.QueryRow(query, candidate).Scan(&one)
		if err == sql.ErrNoRows {
			return candidate, nil
		}
		if err != nil {
			return "", types.Persistence("seed uniqueness check", err)
		}
	}
}
