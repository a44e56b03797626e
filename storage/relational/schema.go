package relational

// Statements are executed in order by Setup. They are valid for both
// postgres and sqlite.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS works (
		id BIGINT PRIMARY KEY,
		title TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS contributors (
		id BIGINT PRIMARY KEY,
		idx BIGINT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS edges (
		source_work BIGINT NOT NULL REFERENCES works(id),
		target_work BIGINT NOT NULL REFERENCES works(id),
		contributor BIGINT NOT NULL REFERENCES contributors(id),
		PRIMARY KEY (source_work, target_work)
	)`,
}

// Dependents first.
var dropStatements = []string{
	`DROP TABLE IF EXISTS edges`,
	`DROP TABLE IF EXISTS contributors`,
	`DROP TABLE IF EXISTS works`,
}

type workRow struct {
	ID    int64  `gorm:"column:id;primaryKey;autoIncrement:false"`
	Title string `gorm:"column:title"`
}

func (workRow) TableName() string { return "works" }

type contributorRow struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement:false"`
	Idx  int64  `gorm:"column:idx"`
	Name string `gorm:"column:name"`
}

func (contributorRow) TableName() string { return "contributors" }

type edgeRow struct {
	SourceWork  int64 `gorm:"column:source_work;primaryKey;autoIncrement:false"`
	TargetWork  int64 `gorm:"column:target_work;primaryKey;autoIncrement:false"`
	Contributor int64 `gorm:"column:contributor"`
}

func (edgeRow) TableName() string { return "edges" }
