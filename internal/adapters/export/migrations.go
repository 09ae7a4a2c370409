package export

const schema = `
CREATE TABLE IF NOT EXISTS exports (
    pass_id     TEXT PRIMARY KEY,
    exported_at DATETIME NOT NULL,
    models      INTEGER NOT NULL,
    benchmarks  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS benchmarks (
    id       TEXT PRIMARY KEY,
    name     TEXT NOT NULL,
    position INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS models (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    version         TEXT NOT NULL DEFAULT '',
    organization    TEXT NOT NULL DEFAULT 'Unknown',
    country         TEXT NOT NULL DEFAULT 'Unknown',
    release_date    TEXT NOT NULL DEFAULT 'Unknown',
    benchmark_count INTEGER NOT NULL,
    placeholder     BOOLEAN NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS scores (
    model_id     TEXT NOT NULL REFERENCES models(id),
    benchmark_id TEXT NOT NULL REFERENCES benchmarks(id),
    raw          REAL NOT NULL,
    normalized   REAL NOT NULL,
    PRIMARY KEY (model_id, benchmark_id)
);

CREATE TABLE IF NOT EXISTS benchmark_entries (
    benchmark_id TEXT NOT NULL REFERENCES benchmarks(id),
    seq          INTEGER NOT NULL,
    model_id     TEXT NOT NULL,
    score        REAL NOT NULL,
    PRIMARY KEY (benchmark_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_scores_benchmark ON scores(benchmark_id);
`

// clearTables runs before every export; the file only ever holds one snapshot.
const clearTables = `
DELETE FROM benchmark_entries;
DELETE FROM scores;
DELETE FROM models;
DELETE FROM benchmarks;
`
