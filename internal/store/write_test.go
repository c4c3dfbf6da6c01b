package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/recstore/internal/record"
	"github.com/roach88/recstore/internal/schema"
	"github.com/roach88/recstore/internal/testutil"
)

func TestCreateTable(t *testing.T) {
	forEachDriver(t, func(t *testing.T, driver string) {
		ctx := context.Background()
		s := createTestStore(t, driver, nil)

		sample := testutil.Record(t, `{"string":"text","int":35,"float":26.50,"bool":true}`)

		exists, err := s.TableExists(ctx, "test")
		require.NoError(t, err)
		require.False(t, exists)

		require.NoError(t, s.CreateTable(ctx, "test", sample, schema.Sequential))

		exists, err = s.TableExists(ctx, "test")
		require.NoError(t, err)
		assert.True(t, exists)

		cols, err := s.Columns(ctx, "test")
		require.NoError(t, err)
		assert.Equal(t, []schema.Column{
			{Name: "id", Type: record.TypeInteger},
			{Name: "string", Type: record.TypeText},
			{Name: "int", Type: record.TypeInteger},
			{Name: "float", Type: record.TypeReal},
			{Name: "bool", Type: record.TypeText},
		}, cols)
	})
}

func TestCreateTable_AlreadyExists(t *testing.T) {
	forEachDriver(t, func(t *testing.T, driver string) {
		ctx := context.Background()
		s := createTestStore(t, driver, nil)

		require.NoError(t, s.CreateTable(ctx, "npcs", npcRecord(), schema.Sequential))

		err := s.CreateTable(ctx, "npcs", npcRecord(), schema.Sequential)
		require.Error(t, err)
		assert.True(t, IsSchemaMismatch(err))
		assert.ErrorIs(t, err, ErrSchemaMismatch)
	})
}

func TestCreateTable_EmptySampleIsNoop(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, DriverCGO, nil)

	require.NoError(t, s.CreateTable(ctx, "empty", record.New(), schema.Sequential))

	exists, err := s.TableExists(ctx, "empty")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCreateTable_TypelessColumn(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, DriverCGO, nil)

	sample := record.New(record.F("anything", record.Null{}))
	require.NoError(t, s.CreateTable(ctx, "loose", sample, schema.RandomUUID))

	cols, err := s.Columns(ctx, "loose")
	require.NoError(t, err)
	assert.Equal(t, []schema.Column{
		{Name: "id", Type: record.TypeText},
		{Name: "anything", Type: record.TypeNone},
	}, cols)
}

func TestInsert_SequentialIDsIncrease(t *testing.T) {
	forEachDriver(t, func(t *testing.T, driver string) {
		ctx := context.Background()
		s := createTestStore(t, driver, nil)
		require.NoError(t, s.CreateTable(ctx, "seq", npcRecord(), schema.Sequential))

		id1, err := s.Insert(ctx, "seq", npcRecord(), schema.Sequential)
		require.NoError(t, err)
		id2, err := s.Insert(ctx, "seq", npcRecord(), schema.Sequential)
		require.NoError(t, err)

		assert.Equal(t, "1", id1)
		assert.Equal(t, "2", id2)
	})
}

func TestInsert_SequentialIDsNotReused(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, DriverCGO, nil)
	require.NoError(t, s.CreateTable(ctx, "seq", npcRecord(), schema.Sequential))

	_, err := s.Insert(ctx, "seq", npcRecord(), schema.Sequential)
	require.NoError(t, err)
	id2, err := s.Insert(ctx, "seq", npcRecord(), schema.Sequential)
	require.NoError(t, err)

	_, err = s.db.Exec(`delete from "seq" where id = ?`, id2)
	require.NoError(t, err)

	id3, err := s.Insert(ctx, "seq", npcRecord(), schema.Sequential)
	require.NoError(t, err)
	assert.Equal(t, "3", id3, "autoincrement must not hand out a deleted id")
}

func TestInsert_RandomUUIDs(t *testing.T) {
	forEachDriver(t, func(t *testing.T, driver string) {
		ctx := context.Background()
		s := createTestStore(t, driver, nil)
		require.NoError(t, s.CreateTable(ctx, "ran", npcRecord(), schema.RandomUUID))

		id1, err := s.Insert(ctx, "ran", npcRecord(), schema.RandomUUID)
		require.NoError(t, err)
		id2, err := s.Insert(ctx, "ran", npcRecord(), schema.RandomUUID)
		require.NoError(t, err)

		assert.NotEqual(t, id1, id2)
		for _, id := range []string{id1, id2} {
			parsed, err := uuid.Parse(id)
			require.NoError(t, err, "id should be a valid UUID")
			assert.Equal(t, uuid.Version(4), parsed.Version())
			assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`, id)
		}
	})
}

func TestInsert_UsesIDGenerator(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, DriverCGO, testutil.NewFixedIDs("first", "second"))
	require.NoError(t, s.CreateTable(ctx, "ran", npcRecord(), schema.RandomUUID))

	id, err := s.Insert(ctx, "ran", npcRecord(), schema.RandomUUID)
	require.NoError(t, err)
	assert.Equal(t, "first", id)

	got, err := s.Select(ctx, "ran", "first")
	require.NoError(t, err)
	assertRecord(t, withID("first", npcRecord()), got)
}

func TestInsert_EmptyRecordIsNoop(t *testing.T) {
	ctx := context.Background()
	ids := testutil.NewFixedIDs("unused")
	s := createTestStore(t, DriverCGO, ids)
	require.NoError(t, s.CreateTable(ctx, "ran", npcRecord(), schema.RandomUUID))

	id, err := s.Insert(ctx, "ran", record.New(), schema.RandomUUID)
	require.NoError(t, err)
	assert.Equal(t, "", id)
	assert.Equal(t, 1, ids.Remaining(), "no id should be generated")

	id, err = s.Insert(ctx, "ran", record.New(record.F("id", record.Text("x"))), schema.RandomUUID)
	require.NoError(t, err)
	assert.Equal(t, "", id, "a record with only an id has no data")
}

func TestInsert_IgnoresCallerID(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, DriverCGO, nil)
	require.NoError(t, s.CreateTable(ctx, "seq", npcRecord(), schema.Sequential))

	id, err := s.Insert(ctx, "seq", withID("500", npcRecord()), schema.Sequential)
	require.NoError(t, err)
	assert.Equal(t, "1", id)

	_, err = s.Select(ctx, "seq", "500")
	assert.True(t, IsNotFound(err))
}

func TestInsert_StrategyMismatch(t *testing.T) {
	forEachDriver(t, func(t *testing.T, driver string) {
		ctx := context.Background()
		s := createTestStore(t, driver, nil)
		require.NoError(t, s.CreateTable(ctx, "seq", npcRecord(), schema.Sequential))
		require.NoError(t, s.CreateTable(ctx, "ran", npcRecord(), schema.RandomUUID))

		_, err := s.Insert(ctx, "seq", npcRecord(), schema.RandomUUID)
		require.Error(t, err)
		assert.True(t, IsStrategyMismatch(err))
		assert.Contains(t, err.Error(), "table uses sequential keys")

		_, err = s.Insert(ctx, "ran", npcRecord(), schema.Sequential)
		assert.True(t, IsStrategyMismatch(err))
	})
}

func TestInsert_MissingTable(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, DriverCGO, nil)

	_, err := s.Insert(ctx, "nope", npcRecord(), schema.Sequential)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert")
}

func TestInsert_ValuesAreBoundNotInterpolated(t *testing.T) {
	forEachDriver(t, func(t *testing.T, driver string) {
		ctx := context.Background()
		s := createTestStore(t, driver, nil)

		hostile := record.New(
			record.F("it's", record.Text(`O'Brien'); drop table "npcs"; --`)),
			record.F(`quote"d`, record.Text(`"double"`)),
		)
		id, err := s.Push(ctx, `we"ird`, hostile, schema.Sequential)
		require.NoError(t, err)

		got, err := s.Select(ctx, `we"ird`, id)
		require.NoError(t, err)
		assertRecord(t, withID(id, hostile), got)
	})
}

func TestUpdate_ChangesOnlyThatRow(t *testing.T) {
	forEachDriver(t, func(t *testing.T, driver string) {
		ctx := context.Background()
		s := createTestStore(t, driver, nil)
		require.NoError(t, s.CreateTable(ctx, "npcs", npcRecord(), schema.Sequential))

		id1, err := s.Insert(ctx, "npcs", npcRecord(), schema.Sequential)
		require.NoError(t, err)
		id2, err := s.Insert(ctx, "npcs", npcRecord(), schema.Sequential)
		require.NoError(t, err)

		changed := npcRecord()
		changed.Set("name", record.Text("Helga"))
		changed.Set("gold", record.Int(5))

		id, err := s.Update(ctx, "npcs", withID(id1, changed))
		require.NoError(t, err)
		assert.Equal(t, id1, id)

		got, err := s.Select(ctx, "npcs", id1)
		require.NoError(t, err)
		assertRecord(t, withID(id1, changed), got)

		other, err := s.Select(ctx, "npcs", id2)
		require.NoError(t, err)
		assertRecord(t, withID(id2, npcRecord()), other)
	})
}

func TestUpdate_PartialRecord(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, DriverCGO, nil)
	require.NoError(t, s.CreateTable(ctx, "npcs", npcRecord(), schema.Sequential))
	id, err := s.Insert(ctx, "npcs", npcRecord(), schema.Sequential)
	require.NoError(t, err)

	_, err = s.Update(ctx, "npcs", record.New(
		record.F("gold", record.Int(0)),
		record.F("id", record.Text(id)),
	))
	require.NoError(t, err)

	got, err := s.Select(ctx, "npcs", id)
	require.NoError(t, err)
	want := npcRecord()
	want.Set("gold", record.Int(0))
	assertRecord(t, withID(id, want), got)
}

func TestUpdate_IntegerID(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, DriverCGO, nil)
	require.NoError(t, s.CreateTable(ctx, "npcs", npcRecord(), schema.Sequential))
	_, err := s.Insert(ctx, "npcs", npcRecord(), schema.Sequential)
	require.NoError(t, err)

	id, err := s.Update(ctx, "npcs", record.New(
		record.F("id", record.Int(1)),
		record.F("name", record.Text("Helga")),
	))
	require.NoError(t, err)
	assert.Equal(t, "1", id)
}

func TestUpdate_MissingIdentifier(t *testing.T) {
	forEachDriver(t, func(t *testing.T, driver string) {
		ctx := context.Background()
		s := createTestStore(t, driver, nil)
		require.NoError(t, s.CreateTable(ctx, "npcs", npcRecord(), schema.Sequential))
		id, err := s.Insert(ctx, "npcs", npcRecord(), schema.Sequential)
		require.NoError(t, err)

		changed := npcRecord()
		changed.Set("name", record.Text("Helga"))

		_, err = s.Update(ctx, "npcs", changed)
		require.Error(t, err)
		assert.True(t, IsMissingIdentifier(err))

		_, err = s.Update(ctx, "npcs", withID("", changed))
		assert.True(t, IsMissingIdentifier(err), "empty id counts as missing")

		got, err := s.Select(ctx, "npcs", id)
		require.NoError(t, err)
		assertRecord(t, withID(id, npcRecord()), got)
	})
}

func TestUpdate_NotFound(t *testing.T) {
	forEachDriver(t, func(t *testing.T, driver string) {
		ctx := context.Background()
		s := createTestStore(t, driver, nil)
		require.NoError(t, s.CreateTable(ctx, "npcs", npcRecord(), schema.Sequential))

		_, err := s.Update(ctx, "npcs", withID("42", npcRecord()))
		require.Error(t, err)
		assert.True(t, IsNotFound(err))

		var se *Error
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "npcs", se.Table)
		assert.Equal(t, "42", se.ID)
	})
}

func TestUpdate_IDOnly(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, DriverCGO, nil)
	require.NoError(t, s.CreateTable(ctx, "npcs", npcRecord(), schema.Sequential))
	id, err := s.Insert(ctx, "npcs", npcRecord(), schema.Sequential)
	require.NoError(t, err)

	got, err := s.Update(ctx, "npcs", record.New(record.F("id", record.Text(id))))
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = s.Update(ctx, "npcs", record.New(record.F("id", record.Text("99"))))
	assert.True(t, IsNotFound(err))
}

func TestUpdate_NumericIDOnUUIDTable(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, DriverCGO, testutil.NewFixedIDs("a"))
	require.NoError(t, s.CreateTable(ctx, "ran", npcRecord(), schema.RandomUUID))
	_, err := s.Insert(ctx, "ran", npcRecord(), schema.RandomUUID)
	require.NoError(t, err)

	_, err = s.Update(ctx, "ran", record.New(
		record.F("id", record.Int(1)),
		record.F("name", record.Text("Helga")),
	))
	assert.True(t, IsNotFound(err))
}

func TestInsert_IDFieldAnyCaseIsNotData(t *testing.T) {
	forEachDriver(t, func(t *testing.T, driver string) {
		ctx := context.Background()
		s := createTestStore(t, driver, nil)
		_, err := s.Push(ctx, "t", testutil.Record(t, `{"name":"a"}`), schema.Sequential)
		require.NoError(t, err)

		id, err := s.Insert(ctx, "t", testutil.Record(t, `{"ID":42,"name":"b"}`), schema.Sequential)
		require.NoError(t, err)
		assert.Equal(t, "2", id, "the key is store-assigned, not taken from ID")

		_, err = s.Select(ctx, "t", "42")
		assert.True(t, IsNotFound(err))

		got, err := s.Select(ctx, "t", "2")
		require.NoError(t, err)
		assertRecord(t, testutil.Record(t, `{"id":"2","name":"b"}`), got)
	})
}

func TestInsert_IDFieldAnyCaseOnUUIDTable(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, DriverCGO, testutil.NewFixedIDs("u-1", "u-2"))
	_, err := s.Push(ctx, "t", testutil.Record(t, `{"name":"a"}`), schema.RandomUUID)
	require.NoError(t, err)

	id, err := s.Insert(ctx, "t", testutil.Record(t, `{"Id":"mine","name":"b"}`), schema.RandomUUID)
	require.NoError(t, err)
	assert.Equal(t, "u-2", id)

	_, err = s.Select(ctx, "t", "mine")
	assert.True(t, IsNotFound(err))
}

func TestUpdate_IDFieldAnyCaseCannotChangeKey(t *testing.T) {
	forEachDriver(t, func(t *testing.T, driver string) {
		ctx := context.Background()
		s := createTestStore(t, driver, nil)
		_, err := s.Push(ctx, "t", testutil.Record(t, `{"name":"a"}`), schema.Sequential)
		require.NoError(t, err)

		id, err := s.Update(ctx, "t", testutil.Record(t, `{"id":"1","ID":7}`))
		require.NoError(t, err)
		assert.Equal(t, "1", id)

		id, err = s.Update(ctx, "t", testutil.Record(t, `{"id":"1","ID":7,"name":"c"}`))
		require.NoError(t, err)
		assert.Equal(t, "1", id)

		got, err := s.Select(ctx, "t", "1")
		require.NoError(t, err)
		assertRecord(t, testutil.Record(t, `{"id":"1","name":"c"}`), got)

		_, err = s.Select(ctx, "t", "7")
		assert.True(t, IsNotFound(err))
	})
}

func TestUpdate_UpperCaseIDNamesTheRow(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, DriverCGO, nil)
	_, err := s.Push(ctx, "t", testutil.Record(t, `{"name":"a"}`), schema.Sequential)
	require.NoError(t, err)

	id, err := s.Update(ctx, "t", testutil.Record(t, `{"ID":1,"name":"b"}`))
	require.NoError(t, err)
	assert.Equal(t, "1", id)

	got, err := s.Select(ctx, "t", "1")
	require.NoError(t, err)
	assertRecord(t, testutil.Record(t, `{"id":"1","name":"b"}`), got)
}

func TestUpdate_IntegralFloatID(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, DriverCGO, nil)
	_, err := s.Push(ctx, "npcs", npcRecord(), schema.Sequential)
	require.NoError(t, err)

	id, err := s.Update(ctx, "npcs", testutil.Record(t, `{"id":1.0,"name":"Helga"}`))
	require.NoError(t, err)
	assert.Equal(t, "1", id)
}

func TestUpdate_InvalidIdentifier(t *testing.T) {
	tests := []struct {
		name string
		rec  string
	}{
		{name: "bool", rec: `{"id":true,"name":"Helga"}`},
		{name: "fractional float", rec: `{"id":1.5,"name":"Helga"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := createTestStore(t, DriverCGO, nil)
			_, err := s.Push(ctx, "npcs", npcRecord(), schema.Sequential)
			require.NoError(t, err)

			_, err = s.Update(ctx, "npcs", testutil.Record(t, tt.rec))
			require.Error(t, err)
			assert.True(t, IsInvalidIdentifier(err))
			assert.False(t, IsMissingIdentifier(err))

			got, err := s.Select(ctx, "npcs", "1")
			require.NoError(t, err)
			assertRecord(t, withID("1", npcRecord()), got)
		})
	}
}
