package report

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Comparison captures timing for one procedure variant.
type Comparison struct {
	Pair        string
	Variant     string
	Description string
	Duration    time.Duration
	RowCount    int64
	Err         error
}

// Compare executes every procedure in order. A failing variant is recorded
// and the remaining ones still run.
func (r *Runner) Compare(ctx context.Context) []Comparison {
	results := make([]Comparison, 0, len(Procedures))
	for _, proc := range Procedures {
		res := Comparison{Pair: proc.Pair, Variant: proc.Variant, Description: proc.Description}

		query, err := LoadQuery(proc.QueryName(), proc.Version)
		if err != nil {
			res.Err = err
			results = append(results, res)
			continue
		}

		start := time.Now()
		rows, err := r.db.WithContext(ctx).Raw(query.SQL).Rows()
		if err != nil {
			res.Err = err
			results = append(results, res)
			continue
		}

		var count int64
		for rows.Next() {
			count++
		}
		err = rows.Err()
		rows.Close()

		res.Duration = time.Since(start)
		res.RowCount = count
		res.Err = err
		results = append(results, res)
	}
	return results
}

// Explain returns the plan for a procedure variant. MySQL gets EXPLAIN ANALYZE
// with a plain EXPLAIN fallback, SQLite gets EXPLAIN QUERY PLAN.
func (r *Runner) Explain(ctx context.Context, proc Procedure) ([]string, error) {
	query, err := LoadQuery(proc.QueryName(), proc.Version)
	if err != nil {
		return nil, err
	}
	if r.db.Dialector.Name() == "sqlite" {
		return fetchExplain(ctx, r.db, "EXPLAIN QUERY PLAN "+query.SQL)
	}
	lines, err := fetchExplain(ctx, r.db, "EXPLAIN ANALYZE "+query.SQL)
	if err == nil {
		return lines, nil
	}
	return fetchExplain(ctx, r.db, "EXPLAIN "+query.SQL)
}

func fetchExplain(ctx context.Context, db *gorm.DB, sql string) ([]string, error) {
	var rows []map[string]interface{}
	if err := db.WithContext(ctx).Raw(sql).Scan(&rows).Error; err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		keys := make([]string, 0, len(row))
		for k := range row {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		lineParts := make([]string, 0, len(row))
		for _, k := range keys {
			lineParts = append(lineParts, fmt.Sprintf("%s=%v", k, row[k]))
		}
		lines = append(lines, strings.Join(lineParts, " "))
	}
	return lines, nil
}
