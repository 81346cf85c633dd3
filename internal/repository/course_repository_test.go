package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"

	"skill-gap/internal/database"
	"skill-gap/internal/domain/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	vals []string
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.vals) {
		return fmt.Errorf("scan dest mismatch")
	}
	for i := range dest {
		d, ok := dest[i].(*string)
		if !ok {
			return fmt.Errorf("unsupported scan type")
		}
		*d = r.vals[i]
	}
	return nil
}

type fakeRows struct {
	rows []fakeRow
	i    int
}

func (r *fakeRows) Close()     {}
func (r *fakeRows) Err() error { return nil }
func (r *fakeRows) Next() bool {
	r.i++
	return r.i <= len(r.rows)
}
func (r *fakeRows) Scan(dest ...any) error { return r.rows[r.i-1].Scan(dest...) }

// fakeCourseDB understands the handful of statements the course repository
// issues, keyed by lower(skill).
type fakeCourseDB struct {
	mu      sync.Mutex
	courses map[string]course.Course
	failAll error
}

func newFakeCourseDB(seed ...course.Course) *fakeCourseDB {
	db := &fakeCourseDB{courses: map[string]course.Course{}}
	for _, c := range seed {
		db.courses[strings.ToLower(c.Skill)] = c
	}
	return db
}

func (db *fakeCourseDB) Ping(context.Context) error { return nil }
func (db *fakeCourseDB) Close() error               { return nil }
func (db *fakeCourseDB) Begin(context.Context) (database.Tx, error) {
	return nil, fmt.Errorf("not implemented")
}

func (db *fakeCourseDB) Exec(_ context.Context, query string, args ...any) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.failAll != nil {
		return 0, db.failAll
	}

	q := strings.ToLower(strings.TrimSpace(query))
	key := strings.ToLower(args[0].(string))
	switch {
	case strings.HasPrefix(q, "update courses"):
		prev, ok := db.courses[key]
		if !ok {
			return 0, nil
		}
		db.courses[key] = course.Course{Skill: prev.Skill, Title: args[1].(string), Summary: args[2].(string), URL: args[3].(string), Provider: args[4].(string)}
		return 1, nil
	case strings.HasPrefix(q, "insert into courses"):
		db.courses[key] = course.Course{Skill: args[0].(string), Title: args[1].(string), Summary: args[2].(string), URL: args[3].(string), Provider: args[4].(string)}
		return 1, nil
	case strings.HasPrefix(q, "delete from courses"):
		if _, ok := db.courses[key]; !ok {
			return 0, nil
		}
		delete(db.courses, key)
		return 1, nil
	}
	return 0, fmt.Errorf("unexpected exec: %s", query)
}

func (db *fakeCourseDB) Query(_ context.Context, query string, _ ...any) (database.Rows, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.failAll != nil {
		return nil, db.failAll
	}

	keys := make([]string, 0, len(db.courses))
	for k := range db.courses {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := &fakeRows{}
	for _, k := range keys {
		c := db.courses[k]
		out.rows = append(out.rows, fakeRow{vals: []string{c.Skill, c.Title, c.Summary, c.URL, c.Provider}})
	}
	return out, nil
}

func (db *fakeCourseDB) QueryRow(_ context.Context, _ string, args ...any) database.Row {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.failAll != nil {
		return fakeRow{err: db.failAll}
	}

	c, ok := db.courses[strings.ToLower(args[0].(string))]
	if !ok {
		return fakeRow{err: sql.ErrNoRows}
	}
	return fakeRow{vals: []string{c.Skill, c.Title, c.Summary, c.URL, c.Provider}}
}

func TestCourseRepository_ListAndGet(t *testing.T) {
	repo := NewPostgresCourseRepository(newFakeCourseDB(
		course.Course{Skill: "Python", Title: "Py"},
		course.Course{Skill: "Excel", Title: "XL"},
	))
	ctx := context.Background()

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Excel", items[0].Skill)

	got, err := repo.GetBySkill(ctx, " python ")
	require.NoError(t, err)
	assert.Equal(t, "Py", got.Title)

	_, err = repo.GetBySkill(ctx, "Welding")
	assert.True(t, errors.Is(err, ErrCourseNotFound))
}

func TestCourseRepository_UpsertKeepsStoredSpelling(t *testing.T) {
	repo := NewPostgresCourseRepository(newFakeCourseDB(course.Course{Skill: "Excel", Title: "Old"}))
	ctx := context.Background()

	got, err := repo.Upsert(ctx, course.Course{Skill: "EXCEL", Title: "New", Summary: "s"})
	require.NoError(t, err)
	assert.Equal(t, course.Course{Skill: "Excel", Title: "New", Summary: "s"}, got)

	got, err = repo.Upsert(ctx, course.Course{Skill: " Go ", Title: "Go Tour"})
	require.NoError(t, err)
	assert.Equal(t, "Go", got.Skill)

	_, err = repo.Upsert(ctx, course.Course{Skill: "Go"})
	assert.True(t, errors.Is(err, course.ErrEmptyTitle))
}

func TestCourseRepository_Delete(t *testing.T) {
	repo := NewPostgresCourseRepository(newFakeCourseDB(course.Course{Skill: "Excel", Title: "XL"}))
	ctx := context.Background()

	require.NoError(t, repo.Delete(ctx, "excel"))
	assert.True(t, errors.Is(repo.Delete(ctx, "excel"), ErrCourseNotFound))
}

func TestCourseRepository_PropagatesErrors(t *testing.T) {
	db := newFakeCourseDB()
	db.failAll = errors.New("boom")
	repo := NewPostgresCourseRepository(db)

	_, err := repo.List(context.Background())
	assert.EqualError(t, err, "boom")
	_, err = repo.GetBySkill(context.Background(), "x")
	assert.EqualError(t, err, "boom")
}
