package core

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"

	"github.com/edvin/agencysites/internal/model"
)

// mockDB stands in for the tenant store pool.
type mockDB struct {
	mock.Mock
}

func (m *mockDB) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgconn.CommandTag), args.Error(1)
}

func (m *mockDB) Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error) {
	args := m.Called(ctx, sql, arguments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Rows), args.Error(1)
}

func (m *mockDB) QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgx.Row)
}

type mockRow struct {
	scanFunc func(dest ...any) error
}

func (m *mockRow) Scan(dest ...any) error {
	return m.scanFunc(dest...)
}

// docRow yields one tenant document column.
func docRow(doc []byte) *mockRow {
	return &mockRow{scanFunc: func(dest ...any) error {
		*(dest[0].(*[]byte)) = doc
		return nil
	}}
}

// mockRows yields one row per scan function.
type mockRows struct {
	next      int
	scanFuncs []func(dest ...any) error
	err       error
}

func newMockRows(scanFuncs ...func(dest ...any) error) *mockRows {
	return &mockRows{scanFuncs: scanFuncs}
}

func newEmptyMockRows() *mockRows {
	return &mockRows{}
}

func (m *mockRows) Next() bool {
	return m.next < len(m.scanFuncs)
}

func (m *mockRows) Scan(dest ...any) error {
	if m.next >= len(m.scanFuncs) {
		return nil
	}
	fn := m.scanFuncs[m.next]
	m.next++
	return fn(dest...)
}

func (m *mockRows) Err() error                                   { return m.err }
func (m *mockRows) Close()                                       {}
func (m *mockRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (m *mockRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (m *mockRows) RawValues() [][]byte                          { return nil }
func (m *mockRows) Values() ([]any, error)                       { return nil, nil }
func (m *mockRows) Conn() *pgx.Conn                              { return nil }

// propertyScan fills a row in propertyColumns order.
func propertyScan(p model.Property) func(dest ...any) error {
	return func(dest ...any) error {
		*(dest[0].(*string)) = p.ID
		*(dest[1].(*string)) = p.TenantID
		*(dest[2].(*string)) = p.Title
		*(dest[3].(*int64)) = p.Price
		*(dest[4].(*string)) = p.Currency
		*(dest[5].(*string)) = p.Location
		*(dest[6].(*int)) = p.Bedrooms
		*(dest[7].(*int)) = p.Bathrooms
		*(dest[8].(*int)) = p.AreaM2
		*(dest[9].(*string)) = p.Image
		*(dest[10].(*string)) = p.Path
		*(dest[11].(*bool)) = p.Featured
		*(dest[12].(*time.Time)) = p.CreatedAt
		return nil
	}
}

func sqlContains(fragment string) any {
	return mock.MatchedBy(func(sql string) bool { return strings.Contains(sql, fragment) })
}

func commandTag(s string) pgconn.CommandTag {
	return pgconn.NewCommandTag(s)
}
